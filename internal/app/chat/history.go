/*
Package chat contains the core presence and message-routing engine of the relay.

This file defines the HistoryBuffer, the in-memory message log replayed to
users on join. Logs exist per room and per direct pair; each log is capped and
evicts its oldest entries first. Nothing survives a process restart.

The HistoryBuffer is not safe for concurrent use; all calls happen on the
Hub's dispatch goroutine.
*/
package chat

import "strings"

// HistoryBuffer retains the most recent messages per room and per direct pair.
type HistoryBuffer struct {
	// limit caps each individual log. Zero or negative disables retention.
	limit int

	rooms  map[string][]Message
	direct map[string][]Message
}

// NewHistoryBuffer returns a HistoryBuffer keeping at most limit messages per log.
func NewHistoryBuffer(limit int) *HistoryBuffer {
	return &HistoryBuffer{
		limit:  limit,
		rooms:  make(map[string][]Message),
		direct: make(map[string][]Message),
	}
}

// pairKey canonicalizes two nicknames into one order-independent,
// case-insensitive key so both directions of a conversation share a log.
func pairKey(a, b string) string {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// appendCapped appends msg to log, evicting the oldest entry at capacity.
func (h *HistoryBuffer) appendCapped(log []Message, msg Message) []Message {
	if h.limit <= 0 {
		return log
	}

	if len(log) >= h.limit {
		copy(log, log[1:])
		log = log[:len(log)-1]
	}

	return append(log, msg)
}

// AppendRoom records a room-scoped message.
func (h *HistoryBuffer) AppendRoom(region string, msg Message) {
	h.rooms[region] = h.appendCapped(h.rooms[region], msg)
}

// AppendDirect records a direct message under the canonical pair key.
func (h *HistoryBuffer) AppendDirect(nickA, nickB string, msg Message) {
	key := pairKey(nickA, nickB)
	h.direct[key] = h.appendCapped(h.direct[key], msg)
}

// Room returns a copy of the room log, oldest first. Empty slice if none.
func (h *HistoryBuffer) Room(region string) []Message {
	log := h.rooms[region]
	out := make([]Message, len(log))
	copy(out, log)
	return out
}

// Direct returns a copy of the pair's log, oldest first. Empty slice if none.
func (h *HistoryBuffer) Direct(nickA, nickB string) []Message {
	log := h.direct[pairKey(nickA, nickB)]
	out := make([]Message, len(log))
	copy(out, log)
	return out
}

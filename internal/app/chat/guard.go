/*
Package chat contains the core presence and message-routing engine of the relay.

This file defines the MuteGuard, the per-connection sliding-window message
counter that escalates to a timed mute on violation. The guard gates every
message (room, direct, image) before it is persisted or routed.

State is keyed by connection ID, not by nickname: a reconnect starts clean
even under the same nickname.

The MuteGuard is not safe for concurrent use; all calls happen on the Hub's
dispatch goroutine.
*/
package chat

import "time"

// GuardConfig holds the tunables of the rate/mute state machine.
type GuardConfig struct {
	// MaxMessages is the number of messages admitted within Period.
	MaxMessages int

	// Period is the width of the sliding window.
	Period time.Duration

	// MuteDuration is how long a connection stays muted after a violation.
	MuteDuration time.Duration
}

// rateState is the per-connection window and mute deadline.
type rateState struct {
	window    []time.Time
	muteUntil time.Time
}

// MuteGuard tracks the message rate of every live connection.
type MuteGuard struct {
	cfg    GuardConfig
	states map[string]*rateState
}

// NewMuteGuard returns a MuteGuard with the given configuration.
func NewMuteGuard(cfg GuardConfig) *MuteGuard {
	return &MuteGuard{
		cfg:    cfg,
		states: make(map[string]*rateState),
	}
}

// Admit decides whether a message from connID at instant now may proceed.
// A muted connection is rejected until its deadline passes; the first message
// after expiry is admitted against a fresh window. Exceeding MaxMessages
// within Period mutes the connection and rejects the offending message.
func (g *MuteGuard) Admit(connID string, now time.Time) bool {
	state, ok := g.states[connID]
	if !ok {
		state = &rateState{}
		g.states[connID] = state
	}

	if !state.muteUntil.IsZero() {
		if now.Before(state.muteUntil) {
			return false
		}
		state.muteUntil = time.Time{}
		state.window = state.window[:0]
	}

	cutoff := now.Add(-g.cfg.Period)
	kept := state.window[:0]
	for _, ts := range state.window {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	state.window = append(kept, now)

	if len(state.window) > g.cfg.MaxMessages {
		state.muteUntil = now.Add(g.cfg.MuteDuration)
		return false
	}

	return true
}

// Remaining reports how much longer connID stays muted at instant now.
// Zero means the connection is not muted.
func (g *MuteGuard) Remaining(connID string, now time.Time) time.Duration {
	state, ok := g.states[connID]
	if !ok || state.muteUntil.IsZero() || !now.Before(state.muteUntil) {
		return 0
	}
	return state.muteUntil.Sub(now)
}

// Clear drops all rate and mute state for connID. Invoked on disconnect.
func (g *MuteGuard) Clear(connID string) {
	delete(g.states, connID)
}

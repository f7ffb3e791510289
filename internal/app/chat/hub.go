/*
Package chat contains the core presence and message-routing engine of the relay.

This file defines the Hub, the coordinating service that owns the Registry,
MuteGuard, RoomRouter, and HistoryBuffer. Sessions post events into the Hub's
channels; a single Run goroutine dispatches them, so every state mutation is
serialized without locks. The Hub also implements the connection lifecycle:
registration, message fan-out, and cleanup on disconnect.
*/
package chat

import (
	"time"

	"github.com/rs/zerolog"

	"provchat/internal/app/user"
	"provchat/internal/configs"
	"provchat/internal/pkg/errs"
	"provchat/internal/pkg/logx"
	"provchat/internal/pkg/randx"
)

const (
	// eventChannelBuffer sizes the inbound event queue shared by all sessions.
	eventChannelBuffer = 1024

	// lifecycleChannelBuffer sizes the connect/disconnect queues.
	lifecycleChannelBuffer = 64
)

// inboundEvent pairs a parsed envelope with the session that produced it.
type inboundEvent struct {
	client   *Client
	envelope Envelope
}

// PresenceSnapshot is the read-only view of the Hub served over HTTP.
type PresenceSnapshot struct {
	Users []user.Profile `json:"users"`
	Rooms map[string]int `json:"rooms"`
}

// Hub owns all presence state and dispatches every connection event.
type Hub struct {
	cfg *configs.AppConfig

	registry *Registry
	guard    *MuteGuard
	rooms    *RoomRouter
	history  *HistoryBuffer

	// sessions maps connection ID to its live session.
	sessions map[string]*Client

	connect    chan *Client
	disconnect chan *Client
	inbound    chan inboundEvent
	presence   chan chan PresenceSnapshot

	stop chan struct{}
	done chan struct{}

	// now is the clock used by the dispatch loop; swapped in tests.
	now func() time.Time

	logger zerolog.Logger
}

// NewHub constructs a Hub from the application configuration.
// Call Run in its own goroutine to start dispatching.
func NewHub(cfg *configs.AppConfig) *Hub {
	return &Hub{
		cfg:      cfg,
		registry: NewRegistry(),
		guard: NewMuteGuard(GuardConfig{
			MaxMessages:  cfg.RateMaxMessages,
			Period:       cfg.RatePeriod,
			MuteDuration: cfg.MuteDuration,
		}),
		rooms:      NewRoomRouter(),
		history:    NewHistoryBuffer(cfg.HistoryLimit),
		sessions:   make(map[string]*Client),
		connect:    make(chan *Client, lifecycleChannelBuffer),
		disconnect: make(chan *Client, lifecycleChannelBuffer),
		inbound:    make(chan inboundEvent, eventChannelBuffer),
		presence:   make(chan chan PresenceSnapshot),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		now:        time.Now,
		logger:     logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Run is the Hub's dispatch loop. It must be the only goroutine touching the
// registry, guard, rooms, and history.
func (h *Hub) Run() {
	defer close(h.done)

	h.logger.Info().Msg("Hub dispatch loop started.")

	for {
		select {
		case c := <-h.connect:
			h.handleConnect(c)

		case c := <-h.disconnect:
			h.handleDisconnect(c)

		case ev := <-h.inbound:
			h.handleEnvelope(ev.client, ev.envelope)

		case reply := <-h.presence:
			reply <- PresenceSnapshot{
				Users: h.registry.All(),
				Rooms: h.rooms.Occupancy(),
			}

		case <-h.stop:
			for _, c := range h.sessions {
				c.shutdown()
			}
			h.sessions = make(map[string]*Client)
			h.logger.Info().Msg("Hub dispatch loop stopped.")
			return
		}
	}
}

// Attach hands a freshly upgraded session to the dispatch loop.
func (h *Hub) Attach(c *Client) {
	select {
	case h.connect <- c:
	case <-h.done:
	}
}

// Detach reports a closed session to the dispatch loop.
func (h *Hub) Detach(c *Client) {
	select {
	case h.disconnect <- c:
	case <-h.done:
	}
}

// Dispatch queues a parsed envelope for the dispatch loop.
func (h *Hub) Dispatch(c *Client, env Envelope) {
	select {
	case h.inbound <- inboundEvent{client: c, envelope: env}:
	case <-h.done:
	}
}

// Presence returns a snapshot of all registered users and room occupancy,
// serialized through the dispatch loop.
func (h *Hub) Presence() PresenceSnapshot {
	reply := make(chan PresenceSnapshot, 1)

	select {
	case h.presence <- reply:
		return <-reply
	case <-h.done:
		return PresenceSnapshot{Users: []user.Profile{}, Rooms: map[string]int{}}
	}
}

// Shutdown stops the dispatch loop and closes every session's send queue.
func (h *Hub) Shutdown() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
	<-h.done
}

// handleConnect tracks the new session. The connection starts unregistered
// with clean rate state.
func (h *Hub) handleConnect(c *Client) {
	h.sessions[c.connID] = c
	h.guard.Clear(c.connID)

	h.logger.Info().
		Str("conn_id", c.connID).
		Int("total_sessions", len(h.sessions)).
		Msg("Connection attached.")
}

// handleDisconnect tears down everything the connection touched: registry
// entry, room membership, rate state. Departure is announced only when the
// connection had registered.
func (h *Hub) handleDisconnect(c *Client) {
	if current, ok := h.sessions[c.connID]; !ok || current != c {
		h.logger.Debug().Str("conn_id", c.connID).Msg("Ignoring disconnect for stale session.")
		return
	}
	delete(h.sessions, c.connID)

	profile, wasRegistered := h.registry.Remove(c.connID)
	region, _ := h.rooms.Leave(c.connID)
	h.guard.Clear(c.connID)
	c.shutdown()

	h.logger.Info().
		Str("conn_id", c.connID).
		Bool("was_registered", wasRegistered).
		Int("total_sessions", len(h.sessions)).
		Msg("Connection detached.")

	if !wasRegistered {
		return
	}

	h.broadcastRoster()
	h.broadcastStatusToRoom(region, profile.Nickname+" left "+region)
}

// handleEnvelope routes one client event to its handler.
func (h *Hub) handleEnvelope(c *Client, env Envelope) {
	switch env.Type {
	case EventUserInfo:
		h.handleRegister(c, env)

	case EventChatMessage:
		h.handleRoomText(c, env)

	case EventImageMessage:
		h.handleRoomImage(c, env)

	case EventPrivateMessage:
		h.handleDirectText(c, env)

	case EventPrivateImageMessage:
		h.handleDirectImage(c, env)

	case EventHistoryRequest:
		h.handleHistoryRequest(c)

	default:
		h.logger.Warn().
			Str("conn_id", c.connID).
			Str("event_type", string(env.Type)).
			Msg("Unsupported event type ignored.")
	}
}

// handleRegister validates the registration payload and admits the identity.
// Incomplete or conflicting registrations are answered and the connection is
// forcibly closed; the client must reconnect with corrected data.
func (h *Hub) handleRegister(c *Client, env Envelope) {
	var payload UserInfoPayload
	if err := env.decode(&payload); err != nil {
		h.logger.Warn().Str("conn_id", c.connID).Err(err).Msg("Invalid USER_INFO payload.")
		h.rejectAndClose(c, EventStatusMessage, errs.NewError(errs.ErrIncompleteRegistration).Message)
		return
	}

	gender := payload.Gender
	if gender == "" {
		gender = payload.Sex
	}

	if payload.Nickname == "" || gender == "" || payload.Region == "" {
		h.logger.Warn().Str("conn_id", c.connID).Msg("Registration rejected: missing fields.")
		h.rejectAndClose(c, EventStatusMessage, errs.NewError(errs.ErrIncompleteRegistration).Message)
		return
	}

	if !randx.IsValidNickname(payload.Nickname) {
		h.logger.Warn().Str("conn_id", c.connID).Str("nickname", payload.Nickname).
			Msg("Registration rejected: invalid nickname.")
		h.rejectAndClose(c, EventStatusMessage, errs.NewError(errs.ErrInvalidNickname).Message)
		return
	}

	profile, changed, customErr := h.registry.Register(c.connID, payload.Nickname, gender, payload.Region)
	if customErr != nil {
		h.logger.Info().Str("conn_id", c.connID).Str("nickname", payload.Nickname).
			Msg("Registration rejected: nickname in use.")
		h.rejectAndClose(c, EventNicknameInUse, customErr.Message)
		return
	}

	prev, moved := h.rooms.Join(c.connID, profile.Region)
	if moved {
		h.broadcastStatusToRoom(prev, profile.Nickname+" left "+prev)
	}

	if changed {
		h.broadcastRoster()
	}

	h.sendEvent(c, EventRoomHistory, RoomHistoryPayload{
		Room:     profile.Region,
		Messages: h.history.Room(profile.Region),
	})
	h.sendEvent(c, EventInfoAccepted, InfoAcceptedPayload{Region: profile.Region})

	if changed {
		h.broadcastStatusToRoom(profile.Region, profile.Nickname+" joined "+profile.Region)
	}

	h.logger.Info().
		Str("conn_id", c.connID).
		Str("nickname", profile.Nickname).
		Str("region", profile.Region).
		Bool("update", !changed).
		Msg("Registration accepted.")
}

// sender resolves the registered profile behind a session. Events from
// unregistered connections are dropped without notifying the client.
func (h *Hub) sender(c *Client, event EventType) (user.Profile, bool) {
	profile, ok := h.registry.ByConnection(c.connID)
	if !ok {
		h.logger.Warn().
			Str("conn_id", c.connID).
			Str("event_type", string(event)).
			Msg("Dropping event from unregistered connection.")
	}
	return profile, ok
}

// admit runs the rate/mute gate for a registered sender, notifying the client
// of its remaining mute time on rejection.
func (h *Hub) admit(c *Client) bool {
	now := h.now()
	if h.guard.Admit(c.connID, now) {
		return true
	}

	remaining := h.guard.Remaining(c.connID, now).Round(time.Second)
	h.sendStatus(c, errs.NewError(errs.ErrMuted, remaining).Message)
	return false
}

// handleRoomText fans a text message out to the sender's room.
func (h *Hub) handleRoomText(c *Client, env Envelope) {
	profile, ok := h.sender(c, EventChatMessage)
	if !ok {
		return
	}

	var payload TextPayload
	if err := env.decode(&payload); err != nil || payload.Text == "" {
		h.logger.Warn().Str("conn_id", c.connID).Err(err).Msg("Invalid CHAT_MESSAGE payload.")
		return
	}

	if len(payload.Text) > h.cfg.MaxMessageBytes {
		h.sendStatus(c, errs.NewError(errs.ErrMessageTooLong).Message)
		return
	}

	if !h.admit(c) {
		return
	}

	msg := NewRoomMessage(KindText, profile, payload.Text, h.now())
	h.history.AppendRoom(profile.Region, msg)
	h.broadcastToRoom(profile.Region, EventChatMessage, msg)
}

// handleRoomImage fans an inline image out to the sender's room.
func (h *Hub) handleRoomImage(c *Client, env Envelope) {
	profile, ok := h.sender(c, EventImageMessage)
	if !ok {
		return
	}

	var payload ImagePayload
	if err := env.decode(&payload); err != nil || payload.File == "" {
		h.logger.Warn().Str("conn_id", c.connID).Err(err).Msg("Invalid IMAGE_MESSAGE payload.")
		return
	}

	if !h.admit(c) {
		return
	}

	msg := NewRoomMessage(KindImage, profile, payload.File, h.now())
	h.history.AppendRoom(profile.Region, msg)
	h.broadcastToRoom(profile.Region, EventChatMessage, msg)
}

// handleDirectText delivers a private text message to one nickname,
// echoing a copy back to the sender.
func (h *Hub) handleDirectText(c *Client, env Envelope) {
	profile, ok := h.sender(c, EventPrivateMessage)
	if !ok {
		return
	}

	var payload DirectTextPayload
	if err := env.decode(&payload); err != nil || payload.Text == "" {
		h.logger.Warn().Str("conn_id", c.connID).Err(err).Msg("Invalid PRIVATE_MESSAGE payload.")
		return
	}

	if len(payload.Text) > h.cfg.MaxMessageBytes {
		h.sendStatus(c, errs.NewError(errs.ErrMessageTooLong).Message)
		return
	}

	h.deliverDirect(c, profile, KindText, payload.To, payload.Text)
}

// handleDirectImage delivers a private inline image to one nickname,
// echoing a copy back to the sender.
func (h *Hub) handleDirectImage(c *Client, env Envelope) {
	profile, ok := h.sender(c, EventPrivateImageMessage)
	if !ok {
		return
	}

	var payload DirectImagePayload
	if err := env.decode(&payload); err != nil || payload.File == "" {
		h.logger.Warn().Str("conn_id", c.connID).Err(err).Msg("Invalid PRIVATE_IMAGE_MESSAGE payload.")
		return
	}

	h.deliverDirect(c, profile, KindImage, payload.To, payload.File)
}

// deliverDirect runs the shared direct-message path: rate gate, recipient
// resolution, history append, and delivery to recipient plus sender echo.
// Self-addressed messages count as RecipientNotFound.
func (h *Hub) deliverDirect(c *Client, sender user.Profile, kind ContentKind, to, body string) {
	if !h.admit(c) {
		return
	}

	recipient, found := h.registry.ByNickname(to)
	if !found || recipient.ConnectionID == c.connID {
		h.sendStatus(c, errs.NewError(errs.ErrRecipientNotFound, to).Message)
		return
	}

	msg := NewDirectMessage(kind, sender, recipient.Nickname, body, h.now())
	h.history.AppendDirect(sender.Nickname, recipient.Nickname, msg)

	data, err := marshalEvent(EventPrivateMessage, msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal private message.")
		return
	}

	if target, ok := h.sessions[recipient.ConnectionID]; ok {
		h.push(target, data)
	}
	h.push(c, data)
}

// handleHistoryRequest resends the sender's room history on demand.
func (h *Hub) handleHistoryRequest(c *Client) {
	profile, ok := h.sender(c, EventHistoryRequest)
	if !ok {
		return
	}

	h.sendEvent(c, EventRoomHistory, RoomHistoryPayload{
		Room:     profile.Region,
		Messages: h.history.Room(profile.Region),
	})
}

// sendEvent marshals one event and queues it for a single session.
func (h *Hub) sendEvent(c *Client, t EventType, payload any) {
	data, err := marshalEvent(t, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", string(t)).Msg("Failed to marshal event.")
		return
	}
	h.push(c, data)
}

// sendStatus queues a status notice for a single session.
func (h *Hub) sendStatus(c *Client, message string) {
	h.sendEvent(c, EventStatusMessage, StatusPayload{Message: message})
}

// rejectAndClose answers a failed registration and forcibly closes the
// connection. No partial state is retained.
func (h *Hub) rejectAndClose(c *Client, t EventType, message string) {
	h.sendEvent(c, t, StatusPayload{Message: message})
	c.shutdown()
}

// push queues wire bytes for one session, logging when the queue is full.
func (h *Hub) push(c *Client, data []byte) {
	if !c.enqueue(data) {
		h.logger.Warn().Str("conn_id", c.connID).Msg("Session send queue full, message dropped.")
	}
}

// broadcastToRoom marshals one event and delivers it to every member of the room.
func (h *Hub) broadcastToRoom(region string, t EventType, payload any) {
	data, err := marshalEvent(t, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", string(t)).Msg("Failed to marshal room broadcast.")
		return
	}

	for _, connID := range h.rooms.Members(region) {
		if c, ok := h.sessions[connID]; ok {
			h.push(c, data)
		}
	}
}

// broadcastStatusToRoom sends a system notice to every member of the room.
func (h *Hub) broadcastStatusToRoom(region, message string) {
	h.broadcastToRoom(region, EventStatusMessage, StatusPayload{Message: message})
}

// broadcastRoster sends the current roster snapshot to every connection,
// registered or not.
func (h *Hub) broadcastRoster() {
	data, err := marshalEvent(EventUserList, h.registry.All())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal roster broadcast.")
		return
	}

	for _, c := range h.sessions {
		h.push(c, data)
	}
}

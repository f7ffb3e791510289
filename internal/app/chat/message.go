/*
Package chat contains the core presence and message-routing engine of the relay.

This file defines the wire protocol: the JSON envelope exchanged over the
WebSocket connection, the event type constants, the Message model, and the
payload structures for each event.
*/
package chat

import (
	"encoding/json"
	"time"

	"provchat/internal/app/user"
	"provchat/internal/pkg/randx"
)

// EventType names one event in the client/server protocol.
type EventType string

// Client-to-server events.
const (
	// EventUserInfo carries the registration payload (nickname, gender, region).
	EventUserInfo EventType = "USER_INFO"

	// EventImageMessage carries an inline-encoded image for the sender's room.
	EventImageMessage EventType = "IMAGE_MESSAGE"

	// EventPrivateImageMessage carries an inline-encoded image for a single nickname.
	EventPrivateImageMessage EventType = "PRIVATE_IMAGE_MESSAGE"

	// EventHistoryRequest asks the server to resend the sender's room history.
	EventHistoryRequest EventType = "HISTORY_REQUEST"
)

// Events used in both directions.
const (
	// EventChatMessage is a room-scoped message (text from clients, any kind from the server).
	EventChatMessage EventType = "CHAT_MESSAGE"

	// EventPrivateMessage is a direct message addressed to one nickname.
	EventPrivateMessage EventType = "PRIVATE_MESSAGE"
)

// Server-to-client events.
const (
	// EventInfoAccepted confirms a successful registration.
	EventInfoAccepted EventType = "INFO_ACCEPTED"

	// EventNicknameInUse rejects a registration whose nickname is taken.
	EventNicknameInUse EventType = "NICKNAME_IN_USE"

	// EventStatusMessage carries system notices (joins, departures, mutes, errors).
	EventStatusMessage EventType = "STATUS_MESSAGE"

	// EventUserList carries a roster snapshot of all registered profiles.
	EventUserList EventType = "USER_LIST"

	// EventRoomHistory carries the retained message log of a room.
	EventRoomHistory EventType = "ROOM_HISTORY"
)

// ContentKind tags a message body as plain text or an inline-encoded image.
type ContentKind string

const (
	KindText  ContentKind = "text"
	KindImage ContentKind = "image"
)

// Envelope is the frame every WebSocket message travels in.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message is one chat message, immutable once created. Room-scoped messages
// carry Room; direct messages carry To instead.
type Message struct {
	ID        string      `json:"id"`
	Kind      ContentKind `json:"kind"`
	Sender    string      `json:"sender"`
	Gender    string      `json:"gender"`
	Body      string      `json:"body"`
	Room      string      `json:"room,omitempty"`
	To        string      `json:"to,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// NewRoomMessage builds a room-scoped Message from the sender's profile.
func NewRoomMessage(kind ContentKind, sender user.Profile, body string, now time.Time) Message {
	return Message{
		ID:        randx.MessageID(),
		Kind:      kind,
		Sender:    sender.Nickname,
		Gender:    sender.Gender,
		Body:      body,
		Room:      sender.Region,
		Timestamp: now.UnixMilli(),
	}
}

// NewDirectMessage builds a Message addressed to a single nickname.
func NewDirectMessage(kind ContentKind, sender user.Profile, to, body string, now time.Time) Message {
	return Message{
		ID:        randx.MessageID(),
		Kind:      kind,
		Sender:    sender.Nickname,
		Gender:    sender.Gender,
		Body:      body,
		To:        to,
		Timestamp: now.UnixMilli(),
	}
}

// UserInfoPayload is the registration payload. Sex mirrors Gender for clients
// of the older protocol revision; Gender wins when both are present.
type UserInfoPayload struct {
	Nickname string `json:"nickname"`
	Gender   string `json:"gender"`
	Sex      string `json:"sex,omitempty"`
	Region   string `json:"region"`
}

// TextPayload is the body of a room text message.
type TextPayload struct {
	Text string `json:"text"`
}

// ImagePayload is the body of a room image message; File is the encoded binary.
type ImagePayload struct {
	File string `json:"file"`
}

// DirectTextPayload is the body of a private text message.
type DirectTextPayload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// DirectImagePayload is the body of a private image message.
type DirectImagePayload struct {
	To   string `json:"to"`
	File string `json:"file"`
}

// StatusPayload is the body of a system notice.
type StatusPayload struct {
	Message string `json:"message"`
}

// InfoAcceptedPayload confirms registration with the room the user landed in.
type InfoAcceptedPayload struct {
	Region string `json:"region"`
}

// RoomHistoryPayload carries a room's retained log, oldest first.
type RoomHistoryPayload struct {
	Room     string    `json:"room"`
	Messages []Message `json:"messages"`
}

// decode unmarshals the envelope payload into dst.
func (e Envelope) decode(dst any) error {
	return json.Unmarshal(e.Payload, dst)
}

// marshalEvent serializes a server-to-client event into wire bytes.
func marshalEvent(t EventType, payload any) ([]byte, error) {
	return json.Marshal(struct {
		Type    EventType `json:"type"`
		Payload any       `json:"payload,omitempty"`
	}{Type: t, Payload: payload})
}

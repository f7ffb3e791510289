/*
Package user defines the identity value types shared across the chat system.

A Profile describes one registered participant and is what the server sends to
clients in roster snapshots.
*/
package user

// Profile represents the registered identity behind one live connection.
// Fields carry JSON tags for serialization in WebSocket roster messages.
type Profile struct {

	// ConnectionID is the opaque handle of the connection holding this identity.
	ConnectionID string `json:"connectionId"`

	// Nickname is the display name, unique (case-insensitively) among active profiles.
	Nickname string `json:"nickname"`

	// Gender is the self-reported gender tag echoed on every message.
	Gender string `json:"gender"`

	// Region names the room the profile belongs to.
	Region string `json:"region"`
}

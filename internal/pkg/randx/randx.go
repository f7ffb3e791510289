/*
Package randx provides identifier generation and identity-string validation.

Connection and message identifiers are UUID v4 strings; nicknames are validated
here so the registry only ever sees well-formed display names.
*/
package randx

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	// MaxNicknameLength is the maximum number of runes allowed in a nickname.
	MaxNicknameLength = 24
)

// ConnectionID generates an opaque unique handle for a live connection.
func ConnectionID() string {
	return uuid.New().String()
}

// MessageID generates a unique identifier for a chat message.
func MessageID() string {
	return uuid.New().String()
}

// IsValidNickname reports whether nick is acceptable as a display identity:
// non-empty after trimming, within MaxNicknameLength runes, printable, and
// without leading or trailing whitespace.
func IsValidNickname(nick string) bool {
	if nick == "" || strings.TrimSpace(nick) != nick {
		return false
	}

	runes := []rune(nick)
	if len(runes) > MaxNicknameLength {
		return false
	}

	for _, r := range runes {
		if !unicode.IsPrint(r) {
			return false
		}
	}

	return true
}

package randx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionIDIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := ConnectionID()
		assert.NotContains(t, seen, id)
		seen[id] = struct{}{}
	}
}

func TestIsValidNickname(t *testing.T) {
	valid := []string{"ana", "Ana_99", "señor café", "a"}
	for _, nick := range valid {
		assert.True(t, IsValidNickname(nick), "expected %q to be valid", nick)
	}

	invalid := []string{
		"",
		" ana",
		"ana ",
		"ana\nluis",
		strings.Repeat("x", MaxNicknameLength+1),
	}
	for _, nick := range invalid {
		assert.False(t, IsValidNickname(nick), "expected %q to be invalid", nick)
	}
}

func TestIsValidNicknameCountsRunesNotBytes(t *testing.T) {
	// 24 multi-byte runes are still within the limit.
	assert.True(t, IsValidNickname(strings.Repeat("ñ", MaxNicknameLength)))
}

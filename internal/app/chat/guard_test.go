package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testGuard() *MuteGuard {
	return NewMuteGuard(GuardConfig{
		MaxMessages:  2,
		Period:       time.Second,
		MuteDuration: time.Minute,
	})
}

func TestGuardAdmitsWithinWindow(t *testing.T) {
	g := testGuard()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, g.Admit("conn-1", now))
	assert.True(t, g.Admit("conn-1", now.Add(100*time.Millisecond)))
}

func TestGuardThirdMessageInWindowMutes(t *testing.T) {
	g := testGuard()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, g.Admit("conn-1", now))
	assert.True(t, g.Admit("conn-1", now.Add(200*time.Millisecond)))
	assert.False(t, g.Admit("conn-1", now.Add(400*time.Millisecond)))

	// Still muted before the deadline, even though the window has passed.
	assert.False(t, g.Admit("conn-1", now.Add(30*time.Second)))
	assert.Equal(t, 30*time.Second+400*time.Millisecond,
		g.Remaining("conn-1", now.Add(30*time.Second)))

	// First message after the deadline is admitted against a fresh window.
	after := now.Add(400*time.Millisecond + time.Minute)
	assert.True(t, g.Admit("conn-1", after))
	assert.Zero(t, g.Remaining("conn-1", after))
	assert.True(t, g.Admit("conn-1", after.Add(time.Millisecond)))
	assert.False(t, g.Admit("conn-1", after.Add(2*time.Millisecond)))
}

func TestGuardWindowSlides(t *testing.T) {
	g := testGuard()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, g.Admit("conn-1", now))
	assert.True(t, g.Admit("conn-1", now.Add(900*time.Millisecond)))

	// The first timestamp has aged out of the one-second window by now.
	assert.True(t, g.Admit("conn-1", now.Add(1100*time.Millisecond)))
}

func TestGuardStateIsPerConnection(t *testing.T) {
	g := testGuard()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, g.Admit("conn-1", now))
	assert.True(t, g.Admit("conn-1", now))
	assert.False(t, g.Admit("conn-1", now))

	// A different connection is unaffected, including one that reconnected
	// under the same nickname.
	assert.True(t, g.Admit("conn-2", now))
}

func TestGuardClearResetsMute(t *testing.T) {
	g := testGuard()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	g.Admit("conn-1", now)
	g.Admit("conn-1", now)
	assert.False(t, g.Admit("conn-1", now))

	g.Clear("conn-1")

	assert.True(t, g.Admit("conn-1", now))
	assert.Zero(t, g.Remaining("conn-1", now))
}

func TestGuardRemainingForUnknownConnection(t *testing.T) {
	g := testGuard()
	assert.Zero(t, g.Remaining("conn-unknown", time.Now()))
}

package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provchat/internal/app/user"
)

func textMessage(sender, body string) Message {
	return NewRoomMessage(KindText, user.Profile{
		Nickname: sender,
		Gender:   "x",
		Region:   "CABA",
	}, body, time.Now())
}

func TestHistoryRoomReplayOrder(t *testing.T) {
	h := NewHistoryBuffer(200)

	for i := 0; i < 5; i++ {
		h.AppendRoom("CABA", textMessage("ana", fmt.Sprintf("msg-%d", i)))
	}

	log := h.Room("CABA")
	require.Len(t, log, 5)
	for i, msg := range log {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), msg.Body)
	}
}

func TestHistoryRoomIsEmptyByDefault(t *testing.T) {
	h := NewHistoryBuffer(200)
	assert.Empty(t, h.Room("Cordoba"))
}

func TestHistoryCapEvictsOldestFirst(t *testing.T) {
	h := NewHistoryBuffer(3)

	for i := 0; i < 5; i++ {
		h.AppendRoom("CABA", textMessage("ana", fmt.Sprintf("msg-%d", i)))
	}

	log := h.Room("CABA")
	require.Len(t, log, 3)
	assert.Equal(t, "msg-2", log[0].Body)
	assert.Equal(t, "msg-4", log[2].Body)
}

func TestHistoryDirectPairKeyIsCanonical(t *testing.T) {
	h := NewHistoryBuffer(200)

	h.AppendDirect("ana", "luis", textMessage("ana", "hola"))
	h.AppendDirect("Luis", "ANA", textMessage("luis", "hi"))

	// Both directions and any casing read the same conversation.
	log := h.Direct("LUIS", "ana")
	require.Len(t, log, 2)
	assert.Equal(t, "hola", log[0].Body)
	assert.Equal(t, "hi", log[1].Body)
}

func TestHistoryRoomReturnsCopy(t *testing.T) {
	h := NewHistoryBuffer(200)
	h.AppendRoom("CABA", textMessage("ana", "hola"))

	log := h.Room("CABA")
	log[0].Body = "mutated"

	assert.Equal(t, "hola", h.Room("CABA")[0].Body)
}

func TestHistoryZeroLimitDisablesRetention(t *testing.T) {
	h := NewHistoryBuffer(0)
	h.AppendRoom("CABA", textMessage("ana", "hola"))
	assert.Empty(t, h.Room("CABA"))
}

package core

import (
	"testing"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanickingRequestDoesNotKillTheSession(t *testing.T) {
	h := newHarness(t)
	h.join("alice")

	err := h.s.do(ctx, func() error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	require.NoError(t, h.s.SendMessage(ctx, "alice", "still here"))
}

func TestClosedSessionRejectsRequests(t *testing.T) {
	h := newHarness(t)
	h.join("alice")
	h.s.Close()

	assert.ErrorIs(t, h.s.SendMessage(ctx, "alice", "hi"), domain.ErrSessionClosed)
	assert.ErrorIs(t, h.s.Play(ctx, "alice", "abc", 0), domain.ErrSessionClosed)
}

func TestEventsAreDeliveredInProcessingOrder(t *testing.T) {
	h := newHarness(t)
	h.join("alice")
	bob := h.join("bob")
	bob.reset()

	require.NoError(t, h.s.Play(ctx, "alice", "abc", 0))
	require.NoError(t, h.s.SendMessage(ctx, "alice", "watch this"))
	require.NoError(t, h.s.Stroke(ctx, "alice", dot))
	require.NoError(t, h.s.Pause(ctx, "alice", 3))

	var types []any
	for _, ev := range bob.events(t, "") {
		types = append(types, ev["type"])
	}
	assert.Equal(t, []any{"youtubeSync", "newMessage", "drawing", "youtubeSync"}, types)
}

func TestInfoReflectsRoom(t *testing.T) {
	h := newHarness(t)
	h.join("alice")
	info := h.s.Info()
	assert.Equal(t, domain.RoomID("room-1"), info.ID)
	assert.Equal(t, "Movie Night", info.Name)
	assert.Equal(t, domain.UserID("alice"), info.Host)
	assert.Equal(t, 1, info.MemberCount)
}

package core

import (
	"testing"
	"time"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovieNight(t *testing.T) {
	h := newHarness(t)
	alice := h.join("alice")
	bob := h.join("bob")
	alice.reset()
	bob.reset()

	require.NoError(t, h.s.Play(ctx, "alice", "dQw4w9WgXcQ", 0))
	for _, c := range []*fakeConn{alice, bob} {
		ev := c.last(t, "youtubeSync")
		assert.Equal(t, "dQw4w9WgXcQ", ev["videoId"])
		assert.Equal(t, true, ev["playing"])
		assert.Equal(t, 0.0, ev["timestamp"])
	}

	h.advance(42 * time.Second)
	require.NoError(t, h.s.Pause(ctx, "alice", 42.5))
	ev := bob.last(t, "youtubeSync")
	assert.Equal(t, false, ev["playing"])
	assert.Equal(t, 42.5, ev["timestamp"])
	assert.Equal(t, "dQw4w9WgXcQ", ev["videoId"])

	// a guest cannot take over playback and nobody hears about the attempt
	bob.reset()
	alice.reset()
	err := h.s.Play(ctx, "bob", "otherVideo", 0)
	assert.ErrorIs(t, err, domain.ErrNotHost)
	assert.False(t, domain.IsGameError(err))
	assert.Empty(t, alice.events(t, ""))
	assert.Empty(t, bob.events(t, ""))

	snap, err := h.s.Snapshot(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", snap.Playback.VideoID)
	assert.False(t, snap.Playback.Playing)
	assert.Equal(t, 42.5, snap.Playback.PositionSeconds)
}

func TestPlayWithoutVideoResumes(t *testing.T) {
	h := newHarness(t)
	h.join("alice")

	assert.ErrorIs(t, h.s.Play(ctx, "alice", "", 0), domain.ErrValidation)

	require.NoError(t, h.s.Play(ctx, "alice", "abc", 10))
	require.NoError(t, h.s.Pause(ctx, "alice", 12))
	require.NoError(t, h.s.Play(ctx, "alice", "", 12))

	snap, err := h.s.Snapshot(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "abc", snap.Playback.VideoID)
	assert.True(t, snap.Playback.Playing)
}

func TestHostLeavingFreezesPlayback(t *testing.T) {
	h := newHarness(t)
	h.join("alice")
	bob := h.join("bob")
	require.NoError(t, h.s.Play(ctx, "alice", "abc", 5))

	h.advance(10 * time.Second)
	require.NoError(t, h.s.Leave(ctx, "alice"))

	ev := bob.last(t, "youtubeSync")
	assert.Equal(t, false, ev["playing"])
	assert.InDelta(t, 15.0, ev["timestamp"], 0.001)

	// host authority is tied to the id, so it comes back with the host
	h.join("alice")
	require.NoError(t, h.s.Play(ctx, "alice", "", 15))
}

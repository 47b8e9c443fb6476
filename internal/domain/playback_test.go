package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlaybackState_PositionAt(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		state PlaybackState
		now   time.Time
		want  float64
	}{
		{"paused stays put", PlaybackState{PositionSeconds: 12, UpdatedAt: base}, base.Add(time.Minute), 12},
		{"playing advances", PlaybackState{Playing: true, PositionSeconds: 5, UpdatedAt: base}, base.Add(3 * time.Second), 8},
		{"clock skew never rewinds", PlaybackState{Playing: true, PositionSeconds: 5, UpdatedAt: base}, base.Add(-time.Second), 5},
		{"never updated", PlaybackState{Playing: true}, base, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.state.PositionAt(tt.now), 1e-9)
		})
	}
}

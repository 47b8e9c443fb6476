package domain

import "time"

// PlaybackState is the host-driven shared media position.
// An empty VideoID means nothing has been played yet.
type PlaybackState struct {
	VideoID         string    `json:"videoId"`
	Playing         bool      `json:"playing"`
	PositionSeconds float64   `json:"timestamp"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PositionAt extrapolates the playhead to now. Clients do the same with UpdatedAt.
func (p PlaybackState) PositionAt(now time.Time) float64 {
	if !p.Playing || p.UpdatedAt.IsZero() {
		return p.PositionSeconds
	}
	elapsed := now.Sub(p.UpdatedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return p.PositionSeconds + elapsed
}

package core

import (
	"context"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
)

// Play starts or resumes the shared video. An empty videoID resumes the
// current one. Only the host is accepted.
func (s *Session) Play(ctx context.Context, requester domain.UserID, videoID string, position float64) error {
	return s.do(ctx, func() error {
		if err := s.requireHost(requester); err != nil {
			return err
		}
		if position < 0 {
			return domain.Validationf("negative timestamp")
		}
		if videoID == "" {
			videoID = s.playback.VideoID
		}
		if videoID == "" {
			return domain.Validationf("no video to resume")
		}
		s.setPlayback(domain.PlaybackState{VideoID: videoID, Playing: true, PositionSeconds: position})
		return nil
	})
}

func (s *Session) Pause(ctx context.Context, requester domain.UserID, position float64) error {
	return s.do(ctx, func() error {
		if err := s.requireHost(requester); err != nil {
			return err
		}
		if position < 0 {
			return domain.Validationf("negative timestamp")
		}
		s.setPlayback(domain.PlaybackState{VideoID: s.playback.VideoID, PositionSeconds: position})
		return nil
	})
}

func (s *Session) requireHost(id domain.UserID) error {
	if _, err := s.requireMember(id); err != nil {
		return err
	}
	if id != s.room.HostID {
		return domain.ErrNotHost
	}
	return nil
}

func (s *Session) setPlayback(p domain.PlaybackState) {
	p.UpdatedAt = s.deps.Clock.Now()
	s.playback = p
	s.lg.Debug().Str("video", p.VideoID).Bool("playing", p.Playing).Float64("position", p.PositionSeconds).Msg("playback changed")
	s.broadcast(protocol.NewYoutubeSync(p), "")
}

package signal

import (
	"context"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
)

func (h *connHandler) OnSendMessage(ctx context.Context, m *protocol.SendMessage) error {
	s, id, err := h.session()
	if err != nil {
		return err
	}
	return s.SendMessage(ctx, id, m.Message)
}

func (h *connHandler) OnDraw(ctx context.Context, m *protocol.Draw) error {
	s, id, err := h.session()
	if err != nil {
		return err
	}
	return s.Stroke(ctx, id, domain.DrawStroke{
		Kind:  domain.StrokeKind(m.Kind),
		X:     m.X,
		Y:     m.Y,
		Color: m.Color,
		Width: m.Width,
	})
}

func (h *connHandler) OnClearCanvas(ctx context.Context, _ *protocol.ClearCanvas) error {
	s, id, err := h.session()
	if err != nil {
		return err
	}
	return s.Clear(ctx, id)
}

func (h *connHandler) OnYoutubePlay(ctx context.Context, m *protocol.YoutubePlay) error {
	s, id, err := h.session()
	if err != nil {
		return err
	}
	return s.Play(ctx, id, m.VideoID, m.Timestamp)
}

func (h *connHandler) OnYoutubePause(ctx context.Context, m *protocol.YoutubePause) error {
	s, id, err := h.session()
	if err != nil {
		return err
	}
	return s.Pause(ctx, id, m.Timestamp)
}

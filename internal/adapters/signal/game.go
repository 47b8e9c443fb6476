package signal

import (
	"context"

	"github.com/dkeye/Hangout/internal/protocol"
)

func (h *connHandler) OnGuessGameStart(ctx context.Context, _ *protocol.GuessGameStart) error {
	s, id, err := h.session()
	if err != nil {
		return err
	}
	return s.StartGame(ctx, id)
}

func (h *connHandler) OnGuessGameStop(ctx context.Context, _ *protocol.GuessGameStop) error {
	s, id, err := h.session()
	if err != nil {
		return err
	}
	return s.StopGame(ctx, id)
}

func (h *connHandler) OnGuessGameSelectTheme(ctx context.Context, m *protocol.GuessGameSelectTheme) error {
	s, id, err := h.session()
	if err != nil {
		return err
	}
	return s.SelectTheme(ctx, id, m.Theme)
}

func (h *connHandler) OnGuessGameSelectSubject(ctx context.Context, m *protocol.GuessGameSelectSubject) error {
	s, id, err := h.session()
	if err != nil {
		return err
	}
	return s.SelectSubject(ctx, id, m.Subject)
}

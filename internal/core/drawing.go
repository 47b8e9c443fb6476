package core

import (
	"context"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
)

// Stroke relays a drawing segment to everyone but the sender and keeps it for
// late joiners.
func (s *Session) Stroke(ctx context.Context, requester domain.UserID, stroke domain.DrawStroke) error {
	return s.do(ctx, func() error {
		if err := s.canDraw(requester); err != nil {
			return err
		}
		s.strokes = append(s.strokes, stroke)
		if s.cfg.MaxStrokes > 0 && len(s.strokes) > s.cfg.MaxStrokes {
			s.strokes = s.strokes[len(s.strokes)-s.cfg.MaxStrokes:]
		}
		s.broadcast(protocol.NewDrawing(requester, stroke), requester)
		return nil
	})
}

func (s *Session) Clear(ctx context.Context, requester domain.UserID) error {
	return s.do(ctx, func() error {
		if err := s.canDraw(requester); err != nil {
			return err
		}
		s.clearCanvas(requester)
		return nil
	})
}

func (s *Session) clearCanvas(by domain.UserID) {
	s.strokes = nil
	s.broadcast(protocol.NewCanvasCleared(by), "")
}

// canDraw: anyone while no game runs, otherwise only the drawer during DRAW.
func (s *Session) canDraw(id domain.UserID) error {
	if _, err := s.requireMember(id); err != nil {
		return err
	}
	if !s.game.Active {
		return nil
	}
	if id != s.game.DrawerID {
		return domain.GameErr(domain.ErrNotDrawer)
	}
	if s.game.Phase != domain.PhaseDraw {
		return domain.GameErr(domain.ErrWrongPhase)
	}
	return nil
}

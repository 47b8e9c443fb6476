package signal

import (
	"context"
	"time"

	"github.com/dkeye/Hangout/internal/core"
	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
)

func (h *connHandler) OnPing(context.Context, *protocol.Ping) error {
	h.ctl.sendJSON(h.conn, protocol.NewPong(time.Now()))
	return nil
}

func (h *connHandler) me() (*domain.User, error) {
	u := h.user.Load()
	if u == nil {
		return nil, domain.ErrNotRegistered
	}
	return u, nil
}

// session resolves the registered member and the session it is in.
func (h *connHandler) session() (*core.Session, domain.UserID, error) {
	u, err := h.me()
	if err != nil {
		return nil, "", err
	}
	s, err := h.ctl.Orch.InRoom(u.ID)
	if err != nil {
		return nil, "", err
	}
	return s, u.ID, nil
}

package signal

import (
	"context"

	"github.com/dkeye/Hangout/internal/identity"
	"github.com/dkeye/Hangout/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (h *connHandler) OnRegister(ctx context.Context, m *protocol.Register) error {
	token := m.Token
	if token == "" {
		token = h.queryToken
	}
	u, err := h.ctl.Orch.Register(ctx, identity.Request{
		UserID:      m.UserID,
		Username:    m.Username,
		Avatar:      m.Avatar,
		Token:       token,
		ClientToken: h.sid,
	})
	if err != nil {
		return err
	}
	if prev := h.user.Load(); prev != nil && prev.ID != u.ID {
		log.Info().Str("module", "signal").Str("from", string(prev.ID)).Str("to", string(u.ID)).Msg("identity switched")
		h.ctl.Orch.OnDisconnect(ctx, prev.ID, h.conn)
	}
	h.user.Store(u)
	h.ctl.sendJSON(h.conn, protocol.NewRegistered(*u))
	h.ctl.sendJSON(h.conn, protocol.NewRoomList(h.ctl.Orch.Rooms()))
	return nil
}

func (h *connHandler) OnSetMute(ctx context.Context, m *protocol.SetMute) error {
	s, id, err := h.session()
	if err != nil {
		return err
	}
	return s.SetMuted(ctx, id, m.Muted)
}

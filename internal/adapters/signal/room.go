package signal

import (
	"context"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (h *connHandler) OnCreateRoom(ctx context.Context, m *protocol.CreateRoom) error {
	u, err := h.me()
	if err != nil {
		return err
	}
	info, err := h.ctl.Orch.CreateRoom(ctx, u, m.Name, m.IsPrivate)
	if err != nil {
		return err
	}
	h.ctl.sendJSON(h.conn, protocol.NewRoomCreated(info))
	if !info.IsPrivate {
		h.ctl.BroadcastRegistered(protocol.NewRoomList(h.ctl.Orch.Rooms()))
	}
	return nil
}

// OnJoinRoom admits the member; the session itself queues joinedRoom on this
// connection so the snapshot precedes every later event.
func (h *connHandler) OnJoinRoom(ctx context.Context, m *protocol.JoinRoom) error {
	u, err := h.me()
	if err != nil {
		return err
	}
	log.Info().Str("module", "signal").Str("sid", h.sid).Str("room", m.RoomID).Msg("join")
	_, err = h.ctl.Orch.Join(ctx, domain.RoomID(m.RoomID), u, h.conn)
	return err
}

func (h *connHandler) OnLeaveRoom(ctx context.Context, _ *protocol.LeaveRoom) error {
	u, err := h.me()
	if err != nil {
		return err
	}
	room, err := h.ctl.Orch.Leave(ctx, u.ID)
	if err != nil {
		return err
	}
	h.ctl.sendJSON(h.conn, protocol.NewLeftRoom(room))
	h.ctl.sendJSON(h.conn, protocol.NewRoomList(h.ctl.Orch.Rooms()))
	return nil
}

package orch

import (
	"context"
	"strings"

	"github.com/dkeye/Hangout/internal/core"
	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
	"github.com/rs/zerolog/log"
)

// CreateRoom registers a new session hosted by host. The host joins it like
// anyone else, with joinRoom.
func (o *Orchestrator) CreateRoom(ctx context.Context, host *domain.User, name string, private bool) (protocol.RoomInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > domain.MaxRoomNameLen {
		return protocol.RoomInfo{}, domain.Validationf("room name must be 1..%d bytes", domain.MaxRoomNameLen)
	}
	s, err := o.Registry.CreateSession(domain.RoomName(name), host.ID, private)
	if err != nil {
		return protocol.RoomInfo{}, err
	}
	log.Info().Str("module", "orch").Str("room", string(s.Room().ID)).Str("host", string(host.ID)).Msg("room created")
	return s.Info(), nil
}

func (o *Orchestrator) Join(ctx context.Context, room domain.RoomID, user *domain.User, conn core.SignalConnection) (protocol.Snapshot, error) {
	snap, err := o.Registry.Join(ctx, room, user, conn)
	if err != nil {
		log.Info().Err(err).Str("module", "orch").Str("room", string(room)).Str("user", string(user.ID)).Msg("join failed")
		return snap, err
	}
	log.Info().Str("module", "orch").Str("room", string(room)).Str("user", string(user.ID)).Msg("joined")
	return snap, nil
}

func (o *Orchestrator) Leave(ctx context.Context, user domain.UserID) (domain.RoomID, error) {
	room, err := o.Registry.Leave(ctx, user)
	if err != nil {
		return room, err
	}
	log.Info().Str("module", "orch").Str("room", string(room)).Str("user", string(user)).Msg("left")
	return room, nil
}

func (o *Orchestrator) Rooms() []protocol.RoomInfo {
	return o.Registry.List()
}

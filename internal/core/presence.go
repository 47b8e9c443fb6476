package core

import (
	"context"
	"fmt"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
)

// Join admits the user, or swaps the connection of a member already present.
// The joinedRoom snapshot is queued on conn before any later event.
func (s *Session) Join(ctx context.Context, user *domain.User, conn SignalConnection) (protocol.Snapshot, error) {
	var snap protocol.Snapshot
	err := s.do(ctx, func() error {
		snap = s.join(user, conn)
		return nil
	})
	return snap, err
}

func (s *Session) join(user *domain.User, conn SignalConnection) protocol.Snapshot {
	id := user.ID
	if e, ok := s.members[id]; ok {
		e.conn = conn
		e.member.User = user
		s.lg.Info().Str("user", string(id)).Msg("member rejoined")
		snap := s.snapshotFor(id)
		s.deliver(e, s.encode(protocol.NewJoinedRoom(snap)))
		return snap
	}

	if s.emptyTimer != nil {
		s.emptyTimer.Stop()
		s.emptyTimer = nil
	}
	m := domain.NewMember(user, s.deps.Clock.Now())
	s.broadcast(protocol.NewUserJoined(protocol.NewMemberDTO(m)), "")
	s.system(fmt.Sprintf("%s joined the room", user.Username))

	e := &memberEntry{member: m, conn: conn}
	s.members[id] = e
	s.count.Store(int32(len(s.members)))
	s.lg.Info().Str("user", string(id)).Int("members", len(s.members)).Msg("member joined")

	if s.game.Active {
		if _, ok := s.game.Scores[id]; !ok {
			s.game.Scores[id] = 0
		}
	}
	snap := s.snapshotFor(id)
	s.deliver(e, s.encode(protocol.NewJoinedRoom(snap)))
	if s.game.Active {
		s.broadcastGame()
	}
	return snap
}

// Leave removes the member. The last member leaving destroys the session.
func (s *Session) Leave(ctx context.Context, id domain.UserID) error {
	return s.do(ctx, func() error {
		if _, err := s.requireMember(id); err != nil {
			return err
		}
		s.leave(id)
		return nil
	})
}

// Disconnect leaves only if conn is still the member's current connection, so a
// stale socket closing after a reconnect changes nothing.
func (s *Session) Disconnect(ctx context.Context, id domain.UserID, conn SignalConnection) error {
	return s.do(ctx, func() error {
		e, ok := s.members[id]
		if !ok || e.conn != conn {
			return nil
		}
		s.leave(id)
		return nil
	})
}

func (s *Session) leave(id domain.UserID) {
	e, ok := s.members[id]
	if !ok {
		return
	}
	delete(s.members, id)
	s.count.Store(int32(len(s.members)))
	s.lg.Info().Str("user", string(id)).Int("members", len(s.members)).Msg("member left")
	if s.deps.Lifecycle != nil {
		s.deps.Lifecycle.MemberLeft(s.room.ID, id)
	}

	if len(s.members) == 0 {
		s.shutdown("empty")
		return
	}

	s.broadcast(protocol.NewUserLeft(id, e.member.User.Username), "")
	s.system(fmt.Sprintf("%s left the room", e.member.User.Username))

	if id == s.room.HostID {
		s.hostLeft()
	}
	if !s.game.Active {
		return
	}
	switch {
	case len(s.members) < 2:
		s.endGame("not enough players")
	case id == s.game.DrawerID:
		s.drawerLeft()
	}
}

// hostLeft freezes playback where it is; the host regains control on rejoin.
func (s *Session) hostLeft() {
	if s.playback.Playing {
		now := s.deps.Clock.Now()
		s.playback = domain.PlaybackState{
			VideoID:         s.playback.VideoID,
			PositionSeconds: s.playback.PositionAt(now),
			UpdatedAt:       now,
		}
		s.broadcast(protocol.NewYoutubeSync(s.playback), "")
	}
	if s.game.Active {
		s.endGame("host left")
	}
}

func (s *Session) SetMuted(ctx context.Context, id domain.UserID, muted bool) error {
	return s.do(ctx, func() error {
		e, err := s.requireMember(id)
		if err != nil {
			return err
		}
		if e.member.Mute == muted {
			return nil
		}
		e.member.Mute = muted
		s.broadcast(protocol.NewUserUpdated(protocol.NewMemberDTO(e.member)), "")
		return nil
	})
}

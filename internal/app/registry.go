package app

import (
	"context"
	"errors"
	"sync"

	"github.com/dkeye/Hangout/internal/core"
	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

// Registry owns every live session and the member -> session index that keeps
// a member in at most one session. It never calls into a session while holding
// its lock, since sessions call back through the core.Lifecycle methods.
type Registry struct {
	cfg  core.Config
	deps core.Deps

	mu       sync.RWMutex
	sessions map[domain.RoomID]*core.Session
	members  map[domain.UserID]domain.RoomID
	closed   bool
	wg       conc.WaitGroup

	users userLocks
}

func NewRegistry(cfg core.Config, deps core.Deps) *Registry {
	return &Registry{
		cfg:      cfg,
		deps:     deps,
		sessions: make(map[domain.RoomID]*core.Session),
		members:  make(map[domain.UserID]domain.RoomID),
		users:    userLocks{held: make(map[domain.UserID]*userLock)},
	}
}

// Join admits user into the session, leaving any other session first. The
// whole sequence holds the user's lock, so two joins by one user cannot leave
// it in two sessions.
func (r *Registry) Join(ctx context.Context, id domain.RoomID, user *domain.User, conn core.SignalConnection) (protocol.Snapshot, error) {
	defer r.users.lock(user.ID)()

	s, err := r.Get(id)
	if err != nil {
		return protocol.Snapshot{}, err
	}
	if prev, ok := r.roomOf(user.ID); ok && prev != id {
		if _, err := r.leave(ctx, user.ID); err != nil && !errors.Is(err, domain.ErrNotInRoom) {
			return protocol.Snapshot{}, err
		}
		log.Info().Str("module", "app.registry").Str("user", string(user.ID)).Str("from_room", string(prev)).Msg("left previous room")
	}

	r.mu.Lock()
	r.members[user.ID] = id
	r.mu.Unlock()

	snap, err := s.Join(ctx, user, conn)
	if err != nil {
		r.clearMember(user.ID, id)
		return protocol.Snapshot{}, err
	}
	return snap, nil
}

// Leave removes the member from its current session.
func (r *Registry) Leave(ctx context.Context, user domain.UserID) (domain.RoomID, error) {
	defer r.users.lock(user)()
	return r.leave(ctx, user)
}

// leave keeps the index entry when the session may still hold the member,
// such as when ctx ended before the request was handled.
func (r *Registry) leave(ctx context.Context, user domain.UserID) (domain.RoomID, error) {
	s, id, err := r.sessionOf(user)
	if err != nil {
		return "", err
	}
	err = s.Leave(ctx, user)
	if err == nil || errors.Is(err, domain.ErrNotMember) || errors.Is(err, domain.ErrSessionClosed) {
		r.clearMember(user, id)
		return id, nil
	}
	return id, err
}

// Disconnect is Leave for a dropped transport; see core.Session.Disconnect.
func (r *Registry) Disconnect(ctx context.Context, user domain.UserID, conn core.SignalConnection) error {
	defer r.users.lock(user)()
	s, _, err := r.sessionOf(user)
	if err != nil {
		return nil
	}
	if err := s.Disconnect(ctx, user, conn); err != nil && !errors.Is(err, domain.ErrSessionClosed) {
		return err
	}
	return nil
}

// SessionOf resolves the session the member is currently in.
func (r *Registry) SessionOf(user domain.UserID) (*core.Session, error) {
	s, _, err := r.sessionOf(user)
	return s, err
}

func (r *Registry) sessionOf(user domain.UserID) (*core.Session, domain.RoomID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.members[user]
	if !ok {
		return nil, "", domain.ErrNotInRoom
	}
	s, ok := r.sessions[id]
	if !ok {
		return nil, "", domain.ErrNotInRoom
	}
	return s, id, nil
}

func (r *Registry) roomOf(user domain.UserID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.members[user]
	return id, ok
}

func (r *Registry) clearMember(user domain.UserID, id domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[user] == id {
		delete(r.members, user)
	}
}

// MemberLeft implements core.Lifecycle.
func (r *Registry) MemberLeft(room domain.RoomID, user domain.UserID) {
	r.clearMember(user, room)
}

// SessionClosed implements core.Lifecycle.
func (r *Registry) SessionClosed(room domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forgetLocked(room)
	log.Info().Str("module", "app.registry").Str("room", string(room)).Msg("session removed")
}

// userLocks serializes membership changes per user. Sessions never take these
// locks; their Lifecycle callbacks only touch r.mu.
type userLocks struct {
	mu   sync.Mutex
	held map[domain.UserID]*userLock
}

type userLock struct {
	sync.Mutex
	refs int
}

// lock blocks until id is free and returns the unlock func.
func (l *userLocks) lock(id domain.UserID) func() {
	l.mu.Lock()
	ul := l.held[id]
	if ul == nil {
		ul = &userLock{}
		l.held[id] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.Lock()
	return func() {
		ul.Unlock()
		l.mu.Lock()
		if ul.refs--; ul.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}

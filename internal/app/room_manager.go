package app

import (
	"cmp"
	"slices"

	"github.com/dkeye/Hangout/internal/core"
	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CreateSession starts a new session actor. Ids are generated and checked
// under the registry lock so two creations never share one.
func (r *Registry) CreateSession(name domain.RoomName, host domain.UserID, private bool) (*core.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, domain.ErrSessionClosed
	}
	id := domain.RoomID(uuid.NewString())
	for r.sessions[id] != nil {
		id = domain.RoomID(uuid.NewString())
	}
	deps := r.deps
	deps.Lifecycle = r
	s := core.NewSession(domain.Room{ID: id, Name: name, Private: private, HostID: host}, r.cfg, deps)
	r.sessions[id] = s
	r.wg.Go(s.Run)
	log.Info().Str("module", "app.registry").Str("room", string(id)).Str("host", string(host)).Msg("session created")
	return s, nil
}

func (r *Registry) Get(id domain.RoomID) (*core.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Destroy stops a session and forgets its members.
func (r *Registry) Destroy(id domain.RoomID) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.forgetLocked(id)
	r.mu.Unlock()
	if ok {
		s.Close()
		log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("session destroyed")
	}
}

// List returns public sessions ordered by name.
func (r *Registry) List() []protocol.RoomInfo {
	r.mu.RLock()
	out := make([]protocol.RoomInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		if info := s.Info(); !info.IsPrivate {
			out = append(out, info)
		}
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b protocol.RoomInfo) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out
}

// Shutdown closes every session and waits for their goroutines.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	sessions := make([]*core.Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		sessions = append(sessions, s)
		r.forgetLocked(id)
	}
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
	r.wg.Wait()
	log.Info().Str("module", "app.registry").Int("sessions", len(sessions)).Msg("registry shut down")
}

func (r *Registry) forgetLocked(id domain.RoomID) {
	delete(r.sessions, id)
	for member, room := range r.members {
		if room == id {
			delete(r.members, member)
		}
	}
}

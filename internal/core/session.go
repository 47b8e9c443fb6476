package core

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/game"
	"github.com/dkeye/Hangout/internal/protocol"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
)

type Deps struct {
	Clock     Clock
	Picker    game.Picker
	Catalog   *game.Catalog
	Policy    Policy
	Lifecycle Lifecycle
}

type memberEntry struct {
	member *domain.Member
	conn   SignalConnection
}

// Session owns the state of one room. Fields after count are touched only by
// the goroutine running Run; callers go through do and post.
type Session struct {
	room domain.Room
	cfg  Config
	deps Deps
	lg   zerolog.Logger

	inbox     chan func()
	done      chan struct{}
	closeOnce sync.Once
	count     atomic.Int32

	members  map[domain.UserID]*memberEntry
	chat     []domain.ChatMessage
	seq      int64
	playback domain.PlaybackState
	strokes  []domain.DrawStroke
	game     domain.MinigameState
	prevSeat *game.Seat
	hints    int
	slow     []domain.UserID

	phaseTimer Timer
	phaseGen   uint64
	hintTimer  Timer
	hintGen    uint64
	emptyTimer Timer
}

func NewSession(room domain.Room, cfg Config, deps Deps) *Session {
	if deps.Clock == nil {
		deps.Clock = SystemClock()
	}
	if deps.Picker == nil {
		deps.Picker = game.RandomPicker{}
	}
	if deps.Catalog == nil {
		deps.Catalog = game.DefaultCatalog()
	}
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = 64
	}
	return &Session{
		room:    room,
		cfg:     cfg,
		deps:    deps,
		lg:      log.With().Str("module", "core.session").Str("room", string(room.ID)).Logger(),
		inbox:   make(chan func(), cfg.InboxSize),
		done:    make(chan struct{}),
		members: make(map[domain.UserID]*memberEntry),
		game:    domain.IdleMinigame(),
	}
}

func (s *Session) Room() domain.Room { return s.room }

// Info is safe to call from any goroutine; the count is the last one committed
// by the session goroutine.
func (s *Session) Info() protocol.RoomInfo {
	return protocol.RoomInfo{
		ID:          s.room.ID,
		Name:        string(s.room.Name),
		MemberCount: int(s.count.Load()),
		Host:        s.room.HostID,
		IsPrivate:   s.room.Private,
	}
}

func (s *Session) Done() <-chan struct{} { return s.done }

// Run processes queued requests in receipt order until the session closes.
func (s *Session) Run() {
	s.guard(func() error { s.armEmptyGrace(); return nil })
	for {
		select {
		case <-s.done:
			s.stopTimers()
			return
		case task := <-s.inbox:
			if s.closed() {
				s.stopTimers()
				return
			}
			task()
			s.settleSlow()
		}
	}
}

// Close stops the session without notifying the lifecycle observer.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.lg.Info().Msg("session closed")
	})
}

func (s *Session) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// do runs fn on the session goroutine and waits for its result.
func (s *Session) do(ctx context.Context, fn func() error) error {
	errc := make(chan error, 1)
	task := func() { errc <- s.guard(fn) }
	select {
	case s.inbox <- task:
	case <-s.done:
		return domain.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errc:
		return err
	case <-s.done:
		select {
		case err := <-errc:
			return err
		default:
			return domain.ErrSessionClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn without waiting; used by timers.
func (s *Session) post(fn func()) {
	select {
	case s.inbox <- func() { _ = s.guard(func() error { fn(); return nil }) }:
	case <-s.done:
	}
}

// guard isolates a panicking request so the session keeps serving others.
func (s *Session) guard(fn func() error) error {
	var (
		pc  panics.Catcher
		err error
	)
	pc.Try(func() { err = fn() })
	if r := pc.Recovered(); r != nil {
		s.lg.Error().Str("panic", r.String()).Msg("request panicked")
		return r.AsError()
	}
	return err
}

// shutdown tells the registry, then closes the session from its own goroutine.
// Anyone woken by Done already sees the session unregistered.
func (s *Session) shutdown(reason string) {
	s.stopTimers()
	s.lg.Info().Str("reason", reason).Msg("session shutting down")
	if s.deps.Lifecycle != nil {
		s.deps.Lifecycle.SessionClosed(s.room.ID)
	}
	s.Close()
}

func (s *Session) armEmptyGrace() {
	if s.cfg.EmptyGrace <= 0 {
		return
	}
	s.emptyTimer = s.deps.Clock.AfterFunc(s.cfg.EmptyGrace, func() {
		s.post(func() {
			if len(s.members) == 0 {
				s.shutdown("nobody joined")
			}
		})
	})
}

func (s *Session) stopTimers() {
	s.cancelPhase()
	if s.emptyTimer != nil {
		s.emptyTimer.Stop()
		s.emptyTimer = nil
	}
}

func (s *Session) encode(v any) Frame {
	b, err := protocol.Encode(v)
	if err != nil {
		s.lg.Error().Err(err).Msg("encode event")
		return nil
	}
	return Frame(b)
}

func (s *Session) deliver(e *memberEntry, f Frame) {
	if f == nil || e.conn == nil {
		return
	}
	if err := e.conn.TrySend(f); err != nil {
		s.slow = append(s.slow, e.member.ID())
	}
}

func (s *Session) sendTo(id domain.UserID, v any) {
	if e, ok := s.members[id]; ok {
		s.deliver(e, s.encode(v))
	}
}

// broadcast sends one event to every member except the given one.
func (s *Session) broadcast(v any, except domain.UserID) {
	f := s.encode(v)
	sent := 0
	for id, e := range s.members {
		if id == except {
			continue
		}
		s.deliver(e, f)
		sent++
	}
	s.lg.Debug().Int("sent_to", sent).Int("dropped", len(s.slow)).Msg("broadcast result")
}

// settleSlow applies the backpressure policy to members whose queue overflowed.
func (s *Session) settleSlow() {
	for len(s.slow) > 0 {
		ids := slices.Compact(slices.Sorted(slices.Values(s.slow)))
		s.slow = s.slow[:0]
		for _, id := range ids {
			e, ok := s.members[id]
			if !ok {
				continue
			}
			action := NoAction
			if s.deps.Policy != nil {
				action = s.deps.Policy.OnBackPressure(s.room.ID, id)
			}
			switch action {
			case KickMember:
				s.lg.Warn().Str("user", string(id)).Msg("kicking slow member")
				e.conn.Close()
				s.leave(id)
			case DropFrame:
				s.lg.Debug().Str("user", string(id)).Msg("frame dropped")
			}
			if s.closed() {
				return
			}
		}
	}
}

// seats returns current members in drawing order.
func (s *Session) seats() []game.Seat {
	out := make([]game.Seat, 0, len(s.members))
	for id, e := range s.members {
		out = append(out, game.Seat{ID: id, JoinedAt: e.member.JoinedAt})
	}
	slices.SortFunc(out, func(a, b game.Seat) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return out
}

func (s *Session) requireMember(id domain.UserID) (*memberEntry, error) {
	e, ok := s.members[id]
	if !ok {
		return nil, domain.ErrNotMember
	}
	return e, nil
}

func (s *Session) snapshotFor(viewer domain.UserID) protocol.Snapshot {
	members := make([]protocol.MemberDTO, 0, len(s.members))
	for _, seat := range s.seats() {
		members = append(members, protocol.NewMemberDTO(s.members[seat.ID].member))
	}
	return protocol.Snapshot{
		ID:        s.room.ID,
		Name:      string(s.room.Name),
		IsPrivate: s.room.Private,
		Host:      s.room.HostID,
		You:       viewer,
		Members:   members,
		Chat:      slices.Clone(s.chat),
		Playback:  s.playback,
		Strokes:   slices.Clone(s.strokes),
		Minigame:  s.game.View(viewer),
	}
}

// Snapshot returns the room as the viewer would see it after joining.
func (s *Session) Snapshot(ctx context.Context, viewer domain.UserID) (protocol.Snapshot, error) {
	var snap protocol.Snapshot
	err := s.do(ctx, func() error {
		if _, err := s.requireMember(viewer); err != nil {
			return err
		}
		snap = s.snapshotFor(viewer)
		return nil
	})
	return snap, err
}

package core

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/game"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

// fakeClock fires timers only from Advance. With leaky set, stopped timers
// fire anyway so stale-timer handling can be observed.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	leaky  bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return &fakeTimerHandle{c: c, t: t}
}

type fakeTimerHandle struct {
	c *fakeClock
	t *fakeTimer
}

func (h *fakeTimerHandle) Stop() bool {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	active := !h.t.stopped && !h.t.fired
	h.t.stopped = true
	return active
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if t.fired || t.at.After(c.now) || (t.stopped && !c.leaky) {
			continue
		}
		t.fired = true
		due = append(due, t)
	}
	c.mu.Unlock()
	slices.SortStableFunc(due, func(a, b *fakeTimer) int { return a.at.Compare(b.at) })
	for _, t := range due {
		t.f()
	}
}

var errQueueFull = errors.New("queue full")

type fakeConn struct {
	mu     sync.Mutex
	frames []Frame
	full   bool
	closed bool
}

func (c *fakeConn) TrySend(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return errQueueFull
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) setFull(full bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.full = full
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

// events decodes received frames, optionally keeping only one type.
func (c *fakeConn) events(t *testing.T, typ string) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []map[string]any
	for _, f := range c.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(f, &m))
		if typ == "" || m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) last(t *testing.T, typ string) map[string]any {
	t.Helper()
	evs := c.events(t, typ)
	require.NotEmpty(t, evs, "no %s event", typ)
	return evs[len(evs)-1]
}

// firstPicker makes option generation deterministic.
type firstPicker struct{}

func (firstPicker) Pick(options []string, n int) []string {
	return slices.Clone(options[:min(n, len(options))])
}

func (firstPicker) Intn(int) int { return 0 }

type kickPolicy struct{}

func (kickPolicy) OnBackPressure(domain.RoomID, domain.UserID) BackpressureAction { return KickMember }

type recordingLifecycle struct {
	mu     sync.Mutex
	left   []domain.UserID
	closed []domain.RoomID
}

func (l *recordingLifecycle) MemberLeft(_ domain.RoomID, id domain.UserID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.left = append(l.left, id)
}

func (l *recordingLifecycle) SessionClosed(room domain.RoomID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = append(l.closed, room)
}

func (l *recordingLifecycle) leftMembers() []domain.UserID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.left)
}

func (l *recordingLifecycle) closedRooms() []domain.RoomID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.closed)
}

const testWords = `
themes:
  - name: animals
    subjects: [sea turtle, cat, dog]
  - name: food
    subjects: [pizza, ice cream]
  - name: places
    subjects: [école, beach]
`

type harness struct {
	t     *testing.T
	s     *Session
	clock *fakeClock
	life  *recordingLifecycle
}

func newHarness(t *testing.T, tweak ...func(*Config)) *harness {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Game.HintInterval = 0
	for _, fn := range tweak {
		fn(&cfg)
	}
	catalog, err := game.ParseCatalog([]byte(testWords))
	require.NoError(t, err)

	h := &harness{t: t, clock: newFakeClock(), life: &recordingLifecycle{}}
	room := domain.Room{ID: "room-1", Name: "Movie Night", HostID: "alice"}
	h.s = NewSession(room, cfg, Deps{
		Clock:     h.clock,
		Picker:    firstPicker{},
		Catalog:   catalog,
		Policy:    kickPolicy{},
		Lifecycle: h.life,
	})
	go h.s.Run()
	t.Cleanup(h.s.Close)
	return h
}

// join admits a member and moves the clock so join order is unambiguous.
func (h *harness) join(id string) *fakeConn {
	h.t.Helper()
	u, err := domain.NewUser(domain.UserID(id), id, "")
	require.NoError(h.t, err)
	c := &fakeConn{}
	_, err = h.s.Join(context.Background(), u, c)
	require.NoError(h.t, err)
	h.clock.Advance(time.Second)
	h.sync()
	return c
}

// sync waits until every request queued so far has been processed.
func (h *harness) sync() {
	h.t.Helper()
	require.NoError(h.t, h.s.do(context.Background(), func() error { return nil }))
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.sync()
}

func (h *harness) state(viewer domain.UserID) domain.MinigameState {
	h.t.Helper()
	snap, err := h.s.Snapshot(context.Background(), viewer)
	require.NoError(h.t, err)
	return snap.Minigame
}

var ctx = context.Background()

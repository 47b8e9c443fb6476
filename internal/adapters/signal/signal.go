package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/Hangout/internal/app/orch"
	"github.com/dkeye/Hangout/internal/core"
	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

type Options struct {
	ReadLimit     int64
	PingPeriod    time.Duration
	SendBuffer    int
	RatePerSecond float64
	RateBurst     int
}

type SignalWSController struct {
	Orch *orch.Orchestrator
	opts Options

	mu    sync.RWMutex
	conns map[*connHandler]struct{}
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	return &SignalWSController{
		Orch:  o,
		opts:  opts,
		conns: make(map[*connHandler]struct{}),
	}
}

// WsSignalConn implements core.SignalConnection over a websocket. Frames are
// queued for the write pump; a full queue is reported, never waited on.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// connHandler is the per-connection state; it implements protocol.Handler.
type connHandler struct {
	ctl        *SignalWSController
	sid        string
	queryToken string
	conn       *WsSignalConn
	lim        *rateLimiter
	user       atomic.Pointer[domain.User]
}

var (
	_ core.SignalConnection = (*WsSignalConn)(nil)
	_ protocol.Handler      = (*connHandler)(nil)
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and serves the connection until it closes.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := c.GetString("client_token")
	log.Info().Str("module", "signal").Str("sid", sid).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.opts.ReadLimit > 0 {
		ws.SetReadLimit(ctl.opts.ReadLimit)
	}

	h := &connHandler{
		ctl:        ctl,
		sid:        sid,
		queryToken: c.Query("token"),
		conn:       &WsSignalConn{conn: ws, send: make(chan core.Frame, ctl.opts.SendBuffer)},
		lim:        newRateLimiter(ctl.opts.RatePerSecond, ctl.opts.RateBurst),
	}
	ctl.track(h)
	defer ctl.untrack(h)

	ctx, cancel := context.WithCancel(ctx)
	var wg conc.WaitGroup
	wg.Go(func() { ctl.writePump(ctx, h.conn) })
	wg.Go(func() {
		defer cancel()
		ctl.readPump(ctx, h)
	})
	wg.Wait()

	if u := h.user.Load(); u != nil {
		ctl.Orch.OnDisconnect(context.WithoutCancel(ctx), u.ID, h.conn)
	}
	log.Info().Str("module", "signal").Str("sid", sid).Msg("WS connection done")
}

func (ctl *SignalWSController) track(h *connHandler) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.conns[h] = struct{}{}
}

func (ctl *SignalWSController) untrack(h *connHandler) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	delete(ctl.conns, h)
}

// BroadcastRegistered sends v to every connection that has registered.
func (ctl *SignalWSController) BroadcastRegistered(v any) {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	for h := range ctl.conns {
		if h.user.Load() != nil {
			ctl.sendJSON(h.conn, v)
		}
	}
}

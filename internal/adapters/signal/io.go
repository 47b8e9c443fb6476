package signal

import (
	"context"
	"time"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 5 * time.Second
	requestTimeout = 5 * time.Second
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	defer c.Close()

	var ping <-chan time.Time
	if ctl.opts.PingPeriod > 0 {
		t := time.NewTicker(ctl.opts.PingPeriod)
		defer t.Stop()
		ping = t.C
	}
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, h *connHandler) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", h.sid).Msg("readPump closing")
		h.conn.Close()
	}()

	if p := ctl.opts.PingPeriod; p > 0 {
		pongWait := p * 10 / 9
		_ = h.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
		h.conn.conn.SetPongHandler(func(string) error {
			return h.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
		})
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", h.sid).Msg("readPump ctx done")
			return
		default:
			_, data, err := h.conn.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("sid", h.sid).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(ctx, h, data)
		}
	}
}

// handleSignal decodes one frame and dispatches it. Failures are answered to
// this connection only.
func (ctl *SignalWSController) handleSignal(ctx context.Context, h *connHandler, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", h.sid).Msg("bad frame")
		ctl.sendJSON(h.conn, protocol.NewErrorReply(err))
		return
	}
	if msg.Type() != protocol.TypePing && !h.lim.Allow() {
		ctl.sendJSON(h.conn, protocol.NewErrorReply(domain.ErrRateLimited))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	if err := protocol.Dispatch(ctx, h, msg); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", h.sid).Str("type", string(msg.Type())).Msg("request rejected")
		ctl.sendJSON(h.conn, protocol.NewErrorReply(err))
	}
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

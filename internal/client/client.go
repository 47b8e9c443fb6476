// Package client is a Go client for the hangout websocket protocol. Bots, load
// tests and the server's own tests drive sessions through it.
package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// Event is one server frame; Raw holds the whole JSON object.
type Event struct {
	Type protocol.ServerMessageType
	Raw  json.RawMessage
}

// Decode unmarshals the frame into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Raw, v)
}

// ServerError is an error or guessGameError reply.
type ServerError struct {
	Type    protocol.ServerMessageType
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Type, e.Code, e.Message)
}

// Client reads from one goroutine at a time; Send may be called concurrently.
type Client struct {
	ws   *websocket.Conn
	opts Options

	wmu     sync.Mutex
	pending []Event

	mu    sync.Mutex
	state State
}

// Dial connects to a hangout websocket endpoint such as ws://host/ws.
func Dial(ctx context.Context, url string, opts Options) (*Client, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{ws: ws, opts: opts.withDefaults()}, nil
}

func (c *Client) Close() error {
	return c.ws.Close()
}

// Send writes one client message. type is filled from msg.
func (c *Client) Send(msg protocol.ClientMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return err
	}
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields["type"] = msg.Type()
	frame, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, frame)
}

// Next returns the next server event, including ones skipped while waiting
// for a reply.
func (c *Client) Next(ctx context.Context) (Event, error) {
	if len(c.pending) > 0 {
		e := c.pending[0]
		c.pending = c.pending[1:]
		return e, nil
	}
	return c.read(ctx)
}

func (c *Client) read(ctx context.Context) (Event, error) {
	deadline := time.Time{}
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := c.ws.SetReadDeadline(deadline); err != nil {
		return Event{}, err
	}
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return Event{}, err
	}
	var env struct {
		Type protocol.ServerMessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("bad server frame: %w", err)
	}
	return Event{Type: env.Type, Raw: data}, nil
}

// await reads until one of want arrives or the server rejects the request.
// Other events are queued for Next.
func (c *Client) await(ctx context.Context, want ...protocol.ServerMessageType) (Event, error) {
	for {
		e, err := c.read(ctx)
		if err != nil {
			return Event{}, err
		}
		switch {
		case slices.Contains(want, e.Type):
			return e, nil
		case e.Type == protocol.TypeError || e.Type == protocol.TypeGuessGameError:
			var m protocol.ErrorMessage
			if err := e.Decode(&m); err != nil {
				return Event{}, err
			}
			return Event{}, &ServerError{Type: m.Type, Code: m.Code, Message: m.Message}
		default:
			c.pending = append(c.pending, e)
		}
	}
}

func (c *Client) Register(ctx context.Context, req protocol.Register) (domain.User, error) {
	if err := c.Send(&req); err != nil {
		return domain.User{}, err
	}
	e, err := c.await(ctx, protocol.TypeRegistered)
	if err != nil {
		return domain.User{}, err
	}
	var m protocol.Registered
	if err := e.Decode(&m); err != nil {
		return domain.User{}, err
	}
	return m.User, nil
}

func (c *Client) CreateRoom(ctx context.Context, name string, private bool) (protocol.RoomInfo, error) {
	if err := c.Send(&protocol.CreateRoom{Name: name, IsPrivate: private}); err != nil {
		return protocol.RoomInfo{}, err
	}
	e, err := c.await(ctx, protocol.TypeRoomCreated)
	if err != nil {
		return protocol.RoomInfo{}, err
	}
	var m protocol.RoomCreated
	if err := e.Decode(&m); err != nil {
		return protocol.RoomInfo{}, err
	}
	return m.Room, nil
}

func (c *Client) joinOnce(ctx context.Context, room domain.RoomID) (protocol.Snapshot, error) {
	if err := c.Send(&protocol.JoinRoom{RoomID: string(room)}); err != nil {
		return protocol.Snapshot{}, err
	}
	e, err := c.await(ctx, protocol.TypeJoinedRoom)
	if err != nil {
		return protocol.Snapshot{}, err
	}
	var m protocol.JoinedRoom
	if err := e.Decode(&m); err != nil {
		return protocol.Snapshot{}, err
	}
	return m.Room, nil
}

// retryable reports whether a failed join may succeed later: the room or our
// registration may not be visible yet, or the server asked us to slow down.
func retryable(err error) bool {
	var se *ServerError
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code {
	case "not_found", "precondition", "rate_limited", "internal":
		return true
	}
	return false
}

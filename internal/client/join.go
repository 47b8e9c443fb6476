package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/protocol"
)

var ErrJoinFailed = errors.New("join failed")

// State is the position of the join state machine.
type State int

const (
	Idle State = iota
	Joining
	Backoff
	Joined
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Joining:
		return "joining"
	case Backoff:
		return "backoff"
	case Joined:
		return "joined"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Options struct {
	Header http.Header

	// MaxAttempts bounds join attempts, the first one included.
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// OnState observes every join state transition.
	OnState func(from, to State)
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = 200 * time.Millisecond
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = 3 * time.Second
	}
	return o
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(to State) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()
	if c.opts.OnState != nil && from != to {
		c.opts.OnState(from, to)
	}
}

func (c *Client) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.InitialInterval
	b.MaxInterval = c.opts.MaxInterval
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, uint64(c.opts.MaxAttempts-1))
}

// JoinRoom joins room, retrying transient rejections with exponential backoff.
// After MaxAttempts, or on a permanent rejection, the machine ends in Failed
// and the error wraps both ErrJoinFailed and the last server error.
func (c *Client) JoinRoom(ctx context.Context, room domain.RoomID) (protocol.Snapshot, error) {
	b := c.newBackOff()
	attempts := 0
	for {
		c.setState(Joining)
		attempts++
		snap, err := c.joinOnce(ctx, room)
		if err == nil {
			c.setState(Joined)
			return snap, nil
		}
		if !retryable(err) {
			c.setState(Failed)
			return protocol.Snapshot{}, fmt.Errorf("%w after %d attempt(s): %w", ErrJoinFailed, attempts, err)
		}
		wait := b.NextBackOff()
		if wait == backoff.Stop {
			c.setState(Failed)
			return protocol.Snapshot{}, fmt.Errorf("%w after %d attempt(s): %w", ErrJoinFailed, attempts, err)
		}

		c.setState(Backoff)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			c.setState(Failed)
			return protocol.Snapshot{}, fmt.Errorf("%w: %w", ErrJoinFailed, ctx.Err())
		case <-t.C:
		}
	}
}

// Leave leaves the current room and resets the machine to Idle.
func (c *Client) Leave(ctx context.Context) error {
	if err := c.Send(&protocol.LeaveRoom{}); err != nil {
		return err
	}
	if _, err := c.await(ctx, protocol.TypeLeftRoom); err != nil {
		return err
	}
	c.setState(Idle)
	return nil
}

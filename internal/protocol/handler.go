package protocol

import (
	"context"
	"fmt"
)

// Handler has one method per client request type. Dispatch needs a case for
// every type; TestDispatchCoversEveryType fails when one is missing.
type Handler interface {
	OnRegister(ctx context.Context, m *Register) error
	OnCreateRoom(ctx context.Context, m *CreateRoom) error
	OnJoinRoom(ctx context.Context, m *JoinRoom) error
	OnLeaveRoom(ctx context.Context, m *LeaveRoom) error
	OnSendMessage(ctx context.Context, m *SendMessage) error
	OnDraw(ctx context.Context, m *Draw) error
	OnClearCanvas(ctx context.Context, m *ClearCanvas) error
	OnYoutubePlay(ctx context.Context, m *YoutubePlay) error
	OnYoutubePause(ctx context.Context, m *YoutubePause) error
	OnGuessGameStart(ctx context.Context, m *GuessGameStart) error
	OnGuessGameStop(ctx context.Context, m *GuessGameStop) error
	OnGuessGameSelectTheme(ctx context.Context, m *GuessGameSelectTheme) error
	OnGuessGameSelectSubject(ctx context.Context, m *GuessGameSelectSubject) error
	OnSetMute(ctx context.Context, m *SetMute) error
	OnPing(ctx context.Context, m *Ping) error
}

func Dispatch(ctx context.Context, h Handler, msg ClientMessage) error {
	switch m := msg.(type) {
	case *Register:
		return h.OnRegister(ctx, m)
	case *CreateRoom:
		return h.OnCreateRoom(ctx, m)
	case *JoinRoom:
		return h.OnJoinRoom(ctx, m)
	case *LeaveRoom:
		return h.OnLeaveRoom(ctx, m)
	case *SendMessage:
		return h.OnSendMessage(ctx, m)
	case *Draw:
		return h.OnDraw(ctx, m)
	case *ClearCanvas:
		return h.OnClearCanvas(ctx, m)
	case *YoutubePlay:
		return h.OnYoutubePlay(ctx, m)
	case *YoutubePause:
		return h.OnYoutubePause(ctx, m)
	case *GuessGameStart:
		return h.OnGuessGameStart(ctx, m)
	case *GuessGameStop:
		return h.OnGuessGameStop(ctx, m)
	case *GuessGameSelectTheme:
		return h.OnGuessGameSelectTheme(ctx, m)
	case *GuessGameSelectSubject:
		return h.OnGuessGameSelectSubject(ctx, m)
	case *SetMute:
		return h.OnSetMute(ctx, m)
	case *Ping:
		return h.OnPing(ctx, m)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownType, msg)
	}
}

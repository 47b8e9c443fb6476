package protocol

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ClientMessage
	}{
		{"register", `{"type":"register","username":"  alice ","avatar":"a.png"}`, &Register{Username: "alice", Avatar: "a.png"}},
		{"create", `{"type":"createRoom","name":"Movie Night","isPrivate":true}`, &CreateRoom{Name: "Movie Night", IsPrivate: true}},
		{"join", `{"type":"joinRoom","roomId":"r1"}`, &JoinRoom{RoomID: "r1"}},
		{"leave", `{"type":"leaveRoom"}`, &LeaveRoom{}},
		{"chat", `{"type":"sendMessage","message":" hi "}`, &SendMessage{Message: "hi"}},
		{"draw", `{"type":"draw","kind":"start","x":10,"y":20,"color":"#ff0000","width":3}`,
			&Draw{Kind: "start", X: 10, Y: 20, Color: "#ff0000", Width: 3}},
		{"play", `{"type":"youtubePlay","videoId":"dQw4w9WgXcQ","timestamp":0}`, &YoutubePlay{VideoID: "dQw4w9WgXcQ"}},
		{"resume", `{"type":"youtubePlay","timestamp":12.5}`, &YoutubePlay{Timestamp: 12.5}},
		{"pause", `{"type":"youtubePause","timestamp":42.5}`, &YoutubePause{Timestamp: 42.5}},
		{"theme", `{"type":"guessGameSelectTheme","theme":"animals"}`, &GuessGameSelectTheme{Theme: "animals"}},
		{"mute", `{"type":"setMute","muted":true}`, &SetMute{Muted: true}},
		{"ping", `{"type":"ping"}`, &Ping{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `hello`},
		{"unknown type", `{"type":"selfDestruct"}`},
		{"missing type", `{"message":"hi"}`},
		{"blank chat", `{"type":"sendMessage","message":"   "}`},
		{"blank username", `{"type":"register","username":""}`},
		{"bad stroke kind", `{"type":"draw","kind":"erase","x":1,"y":1,"color":"#000","width":1}`},
		{"bad color", `{"type":"draw","kind":"draw","x":1,"y":1,"color":"purple-ish","width":1}`},
		{"zero width", `{"type":"draw","kind":"draw","x":1,"y":1,"color":"#000","width":0}`},
		{"negative x", `{"type":"draw","kind":"draw","x":-1,"y":1,"color":"#000","width":1}`},
		{"negative timestamp", `{"type":"youtubePause","timestamp":-3}`},
		{"wrong field type", `{"type":"joinRoom","roomId":7}`},
		{"long room name", `{"type":"createRoom","name":"` + strings.Repeat("x", 65) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, "invalid", domain.Code(err))
		})
	}
}

type recordingHandler struct {
	got []ClientMessageType
}

func (h *recordingHandler) rec(m ClientMessage) error {
	h.got = append(h.got, m.Type())
	return nil
}

func (h *recordingHandler) OnRegister(_ context.Context, m *Register) error       { return h.rec(m) }
func (h *recordingHandler) OnCreateRoom(_ context.Context, m *CreateRoom) error   { return h.rec(m) }
func (h *recordingHandler) OnJoinRoom(_ context.Context, m *JoinRoom) error       { return h.rec(m) }
func (h *recordingHandler) OnLeaveRoom(_ context.Context, m *LeaveRoom) error     { return h.rec(m) }
func (h *recordingHandler) OnSendMessage(_ context.Context, m *SendMessage) error { return h.rec(m) }
func (h *recordingHandler) OnDraw(_ context.Context, m *Draw) error               { return h.rec(m) }
func (h *recordingHandler) OnClearCanvas(_ context.Context, m *ClearCanvas) error { return h.rec(m) }
func (h *recordingHandler) OnYoutubePlay(_ context.Context, m *YoutubePlay) error { return h.rec(m) }
func (h *recordingHandler) OnYoutubePause(_ context.Context, m *YoutubePause) error {
	return h.rec(m)
}
func (h *recordingHandler) OnGuessGameStart(_ context.Context, m *GuessGameStart) error {
	return h.rec(m)
}
func (h *recordingHandler) OnGuessGameStop(_ context.Context, m *GuessGameStop) error {
	return h.rec(m)
}
func (h *recordingHandler) OnGuessGameSelectTheme(_ context.Context, m *GuessGameSelectTheme) error {
	return h.rec(m)
}
func (h *recordingHandler) OnGuessGameSelectSubject(_ context.Context, m *GuessGameSelectSubject) error {
	return h.rec(m)
}
func (h *recordingHandler) OnSetMute(_ context.Context, m *SetMute) error { return h.rec(m) }
func (h *recordingHandler) OnPing(_ context.Context, m *Ping) error       { return h.rec(m) }

func TestDispatchCoversEveryType(t *testing.T) {
	h := &recordingHandler{}
	for _, typ := range ClientMessageTypes() {
		msg := decoders[typ]()
		require.NoError(t, Dispatch(context.Background(), h, msg), typ)
	}
	assert.ElementsMatch(t, ClientMessageTypes(), h.got)
}

func TestErrorReplyScope(t *testing.T) {
	game := NewErrorReply(domain.GameErr(domain.ErrNotDrawer))
	assert.Equal(t, TypeGuessGameError, game.Type)
	assert.Equal(t, "forbidden", game.Code)

	plain := NewErrorReply(domain.ErrSessionNotFound)
	assert.Equal(t, TypeError, plain.Type)
	assert.Equal(t, "not_found", plain.Code)

	wrapped := NewErrorReply(errors.New("boom"))
	assert.Equal(t, "internal", wrapped.Code)
}

func TestEncodeFlattensState(t *testing.T) {
	raw, err := Encode(NewYoutubeSync(domain.PlaybackState{VideoID: "dQw4w9WgXcQ", Playing: true, PositionSeconds: 3}))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "youtubeSync", got["type"])
	assert.Equal(t, "dQw4w9WgXcQ", got["videoId"])
	assert.Equal(t, true, got["playing"])
	assert.Equal(t, 3.0, got["timestamp"])

	raw, err = Encode(NewGuessGameState(domain.IdleMinigame()))
	require.NoError(t, err)
	got = nil
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "IDLE", got["phase"])
	assert.Equal(t, false, got["active"])
}

func TestRoomListNeverNull(t *testing.T) {
	raw, err := Encode(NewRoomList(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"roomList","rooms":[]}`, string(raw))
}

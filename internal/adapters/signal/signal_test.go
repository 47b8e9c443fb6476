package signal

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Hangout/internal/app"
	"github.com/dkeye/Hangout/internal/app/orch"
	"github.com/dkeye/Hangout/internal/core"
	"github.com/dkeye/Hangout/internal/identity"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame map[string]any

func (f frame) str(key string) string {
	s, _ := f[key].(string)
	return s
}

func newServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := core.DefaultConfig()
	cfg.EmptyGrace = 0
	reg := app.NewRegistry(cfg, core.Deps{Policy: app.KickPolicy{}})
	o := &orch.Orchestrator{Registry: reg, Identity: identity.Trusting{}}
	ctl := NewSignalWSController(o, opts)

	ctx, cancel := context.WithCancel(context.Background())
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("client_token", "tok-"+c.Query("who"))
		ctl.HandleSignal(ctx, c)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
		reg.Shutdown()
	})
	return srv
}

type client struct {
	t  *testing.T
	ws *websocket.Conn
}

func dial(t *testing.T, srv *httptest.Server, who string) *client {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?who=" + who
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return &client{t: t, ws: ws}
}

func (c *client) send(v any) {
	c.t.Helper()
	require.NoError(c.t, c.ws.WriteJSON(v))
}

// expect reads frames until one of type typ arrives.
func (c *client) expect(typ string) frame {
	c.t.Helper()
	seen := c.until(typ)
	return seen[len(seen)-1]
}

// until returns every frame read up to and including the first of type typ.
func (c *client) until(typ string) []frame {
	c.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var seen []frame
	for {
		require.NoError(c.t, c.ws.SetReadDeadline(deadline))
		_, data, err := c.ws.ReadMessage()
		require.NoError(c.t, err, "waiting for %s", typ)
		var f frame
		require.NoError(c.t, json.Unmarshal(data, &f))
		seen = append(seen, f)
		if f.str("type") == typ {
			return seen
		}
	}
}

func (c *client) register(name string) {
	c.t.Helper()
	c.send(frame{"type": "register", "username": name, "userId": name})
	reg := c.expect("registered")
	assert.Equal(c.t, name, reg["user"].(map[string]any)["id"])
	c.expect("roomList")
}

func TestRoomFlow(t *testing.T) {
	srv := newServer(t, Options{})
	alice, bob := dial(t, srv, "a"), dial(t, srv, "b")
	alice.register("alice")
	bob.register("bob")

	alice.send(frame{"type": "createRoom", "name": "Movie Night"})
	created := alice.expect("roomCreated")
	roomID := created.str("roomId")
	require.NotEmpty(t, roomID)

	list := bob.expect("roomList")
	rooms := list["rooms"].([]any)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Movie Night", rooms[0].(map[string]any)["name"])

	alice.send(frame{"type": "joinRoom", "roomId": roomID})
	joined := alice.expect("joinedRoom")
	assert.Equal(t, "alice", joined["room"].(map[string]any)["host"])

	bob.send(frame{"type": "joinRoom", "roomId": roomID})
	bob.expect("joinedRoom")
	assert.Equal(t, "bob", alice.expect("userJoined").str("userId"))

	bob.send(frame{"type": "sendMessage", "message": "hi all"})
	for _, c := range []*client{alice, bob} {
		var msg map[string]any
		for {
			msg = c.expect("newMessage")["message"].(map[string]any)
			if msg["system"] == false {
				break
			}
		}
		assert.Equal(t, "hi all", msg["text"])
		assert.Equal(t, "bob", msg["senderId"])
	}

	alice.send(frame{"type": "youtubePlay", "videoId": "dQw4w9WgXcQ", "timestamp": 12.5})
	sync := bob.expect("youtubeSync")
	assert.Equal(t, "dQw4w9WgXcQ", sync.str("videoId"))
	assert.Equal(t, true, sync["playing"])

	bob.send(frame{"type": "leaveRoom"})
	assert.Equal(t, roomID, bob.expect("leftRoom").str("roomId"))
	assert.Equal(t, "bob", alice.expect("userLeft").str("userId"))
}

func TestErrorsGoOnlyToTheRequester(t *testing.T) {
	srv := newServer(t, Options{})
	alice, bob := dial(t, srv, "a"), dial(t, srv, "b")
	alice.register("alice")
	bob.register("bob")

	alice.send(frame{"type": "createRoom", "name": "Room"})
	roomID := alice.expect("roomCreated").str("roomId")
	alice.send(frame{"type": "joinRoom", "roomId": roomID})
	alice.expect("joinedRoom")
	bob.send(frame{"type": "joinRoom", "roomId": roomID})
	bob.expect("joinedRoom")

	bob.send(frame{"type": "youtubePause", "timestamp": 3})
	e := bob.expect("error")
	assert.Equal(t, "forbidden", e.str("code"))

	bob.send(frame{"type": "guessGameStart"})
	assert.Equal(t, "forbidden", bob.expect("guessGameError").str("code"))

	alice.send(frame{"type": "ping"})
	for _, f := range alice.until("pong") {
		assert.NotContains(t, []string{"error", "guessGameError"}, f.str("type"))
	}
}

func TestRejectsBadFrames(t *testing.T) {
	srv := newServer(t, Options{})
	c := dial(t, srv, "a")

	c.send(frame{"type": "sendMessage", "message": "hi"})
	assert.Equal(t, "precondition", c.expect("error").str("code"))

	c.send(frame{"type": "teleport"})
	assert.Equal(t, "invalid", c.expect("error").str("code"))

	require.NoError(t, c.ws.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, "invalid", c.expect("error").str("code"))

	c.register("carol")
	c.send(frame{"type": "joinRoom", "roomId": "missing"})
	assert.Equal(t, "not_found", c.expect("error").str("code"))
}

func TestRateLimit(t *testing.T) {
	srv := newServer(t, Options{RatePerSecond: 0.001, RateBurst: 1})
	c := dial(t, srv, "a")
	c.register("dave")

	c.send(frame{"type": "createRoom", "name": "Room"})
	assert.Equal(t, "rate_limited", c.expect("error").str("code"))

	c.send(frame{"type": "ping"})
	c.expect("pong")
}

func TestDisconnectLeavesTheRoom(t *testing.T) {
	srv := newServer(t, Options{})
	alice, bob := dial(t, srv, "a"), dial(t, srv, "b")
	alice.register("alice")
	bob.register("bob")

	alice.send(frame{"type": "createRoom", "name": "Room"})
	roomID := alice.expect("roomCreated").str("roomId")
	alice.send(frame{"type": "joinRoom", "roomId": roomID})
	alice.expect("joinedRoom")
	bob.send(frame{"type": "joinRoom", "roomId": roomID})
	bob.expect("joinedRoom")

	require.NoError(t, bob.ws.Close())
	assert.Equal(t, "bob", alice.expect("userLeft").str("userId"))
}

package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Hangout/internal/adapters/signal"
	"github.com/dkeye/Hangout/internal/app/orch"
	"github.com/dkeye/Hangout/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	sessionName    = "HangoutSessions"
	clientTokenKey = "ct"
)

// ClientTokenMiddleware gives every browser a stable id kept in the cookie
// session. It is the user id fallback for register.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(clientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			session.Set(clientTokenKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save client token")
			}
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	ctl := signal.NewSignalWSController(o, signal.Options{
		ReadLimit:     cfg.ReadLimit,
		PingPeriod:    cfg.PingPeriod,
		SendBuffer:    cfg.SendBuffer,
		RatePerSecond: cfg.Rate.PerSecond,
		RateBurst:     cfg.Rate.Burst,
	})
	ws := func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("sid", c.GetString("client_token")).Msg("ws endpoint hit")
		ctl.HandleSignal(ctx, c)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	rooms := func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Rooms())
	}
	r.GET("/ws", ws)
	r.GET("/rooms", rooms)

	api := r.Group("/api")
	api.GET("/rooms", rooms)
	api.GET("/ws/signal", ws)

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}

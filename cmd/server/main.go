package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Hangout/internal/adapters/http"
	"github.com/dkeye/Hangout/internal/app"
	"github.com/dkeye/Hangout/internal/app/orch"
	"github.com/dkeye/Hangout/internal/config"
	"github.com/dkeye/Hangout/internal/core"
	"github.com/dkeye/Hangout/internal/game"
	"github.com/dkeye/Hangout/internal/identity"
	"github.com/dkeye/Hangout/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Console logging until the config says otherwise.
	_ = logging.Setup("info", "console", os.Stderr)

	cfg, err := config.Watch(func(next *config.Config) {
		if err := logging.SetLevel(next.LogLevel); err != nil {
			log.Error().Err(err).Msg("bad log level in reloaded config")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr); err != nil {
		log.Error().Err(err).Msg("bad log level, keeping info")
	}

	catalog, err := game.LoadCatalog(cfg.WordsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word catalog")
	}

	var verifier identity.Verifier = identity.Trusting{}
	if cfg.Identity.JWTSecret != "" {
		verifier = identity.NewJWT(cfg.Identity.JWTSecret)
	}

	reg := app.NewRegistry(cfg.Core(), core.Deps{
		Catalog: catalog,
		Policy:  app.PolicyByName(cfg.Backpressure),
	})
	o := &orch.Orchestrator{
		Registry: reg,
		Identity: verifier,
		Profiles: identity.StaticProfiles{},
	}

	r := router.SetupRouter(ctx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Hangout server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	reg.Shutdown()
	log.Info().Msg("Server exited gracefully")
}

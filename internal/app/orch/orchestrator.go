// Package orch is the entry point transports use: identity, room lifecycle and
// routing a member to the session it is in.
package orch

import (
	"context"

	"github.com/dkeye/Hangout/internal/app"
	"github.com/dkeye/Hangout/internal/core"
	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/identity"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Registry *app.Registry
	Identity identity.Verifier
	Profiles identity.Profiles
}

func (o *Orchestrator) Register(ctx context.Context, req identity.Request) (*domain.User, error) {
	u, err := identity.Resolve(ctx, o.Identity, o.Profiles, req)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Msg("register rejected")
		return nil, err
	}
	log.Info().Str("module", "orch").Str("user", string(u.ID)).Str("username", u.Username).Msg("registered")
	return u, nil
}

// InRoom resolves the session the member currently belongs to.
func (o *Orchestrator) InRoom(user domain.UserID) (*core.Session, error) {
	return o.Registry.SessionOf(user)
}

// OnDisconnect leaves the member's room unless it already reconnected elsewhere.
func (o *Orchestrator) OnDisconnect(ctx context.Context, user domain.UserID, conn core.SignalConnection) {
	if err := o.Registry.Disconnect(ctx, user, conn); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("user", string(user)).Msg("disconnect")
	}
}

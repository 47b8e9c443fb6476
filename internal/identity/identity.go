// Package identity turns a register request into a domain.User. Accounts live
// in an external service; this package only checks what the client presents.
package identity

import (
	"context"
	"fmt"

	"github.com/dkeye/Hangout/internal/domain"
)

// Request is what a connection presents when registering.
type Request struct {
	UserID   string
	Username string
	Avatar   string
	Token    string
	// ClientToken is the cookie-bound id of the browser; the fallback user id.
	ClientToken string
}

type Verifier interface {
	Verify(ctx context.Context, req Request) (*domain.User, error)
}

// Profiles supplies profile pictures kept by the external profile service.
type Profiles interface {
	ProfilePicture(ctx context.Context, id domain.UserID) (string, error)
}

// StaticProfiles is an in-memory Profiles, mostly for tests and dev mode.
type StaticProfiles map[domain.UserID]string

func (p StaticProfiles) ProfilePicture(_ context.Context, id domain.UserID) (string, error) {
	return p[id], nil
}

// Trusting accepts the presented identity as is.
type Trusting struct{}

func (Trusting) Verify(_ context.Context, req Request) (*domain.User, error) {
	id := req.UserID
	if id == "" {
		id = req.ClientToken
	}
	return newUser(domain.UserID(id), req)
}

// Resolve verifies req and decorates the user with its profile picture. A
// failing profile lookup is not fatal.
func Resolve(ctx context.Context, v Verifier, p Profiles, req Request) (*domain.User, error) {
	u, err := v.Verify(ctx, req)
	if err != nil {
		return nil, err
	}
	if p != nil {
		if pic, err := p.ProfilePicture(ctx, u.ID); err == nil {
			u.ProfilePicture = pic
		}
	}
	return u, nil
}

func newUser(id domain.UserID, req Request) (*domain.User, error) {
	u, err := domain.NewUser(id, req.Username, req.Avatar)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return u, nil
}

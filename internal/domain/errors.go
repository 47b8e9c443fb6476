package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound  = errors.New("room not found")
	ErrSessionClosed    = errors.New("room is closing")
	ErrNotMember        = errors.New("not a member of this room")
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotDrawer        = errors.New("only the drawer can do that")
	ErrWrongPhase       = errors.New("not allowed in the current game phase")
	ErrInvalidOption    = errors.New("not one of the offered options")
	ErrGameActive       = errors.New("game already running")
	ErrNotEnoughPlayers = errors.New("at least two players are needed")
	ErrSubjectLeak      = errors.New("the drawer cannot say the subject")
	ErrNotRegistered    = errors.New("register first")
	ErrUnauthorized     = errors.New("identity rejected")
	ErrNotInRoom        = errors.New("not in a room")
	ErrRateLimited      = errors.New("slow down")
	ErrValidation       = errors.New("invalid request")
)

// GameError marks a rejection produced by the minigame rules. The transport
// reports these as guessGameError instead of a generic error.
type GameError struct {
	Err error
}

func (e *GameError) Error() string { return e.Err.Error() }
func (e *GameError) Unwrap() error { return e.Err }

func GameErr(err error) error { return &GameError{Err: err} }

// Validationf wraps a boundary validation failure.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Code maps an error to a stable machine-readable code for clients.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionClosed):
		return "not_found"
	case errors.Is(err, ErrNotHost), errors.Is(err, ErrNotDrawer), errors.Is(err, ErrNotMember),
		errors.Is(err, ErrSubjectLeak):
		return "forbidden"
	case errors.Is(err, ErrWrongPhase), errors.Is(err, ErrInvalidOption),
		errors.Is(err, ErrGameActive), errors.Is(err, ErrNotEnoughPlayers):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrNotRegistered), errors.Is(err, ErrNotInRoom):
		return "precondition"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "internal"
	}
}

func IsGameError(err error) bool {
	var ge *GameError
	return errors.As(err, &ge)
}

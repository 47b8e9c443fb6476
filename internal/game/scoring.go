package game

import (
	"slices"
	"strings"
	"time"

	"github.com/dkeye/Hangout/internal/domain"
)

const (
	GuesserBasePoints = 50
	GuesserTimeBonus  = 50
	DrawerPoints      = 25
)

// GuessPoints rewards faster guesses: the base plus a bonus proportional to the
// time still left in the drawing phase.
func GuessPoints(remaining, total time.Duration) int {
	if total <= 0 || remaining <= 0 {
		return GuesserBasePoints
	}
	if remaining > total {
		remaining = total
	}
	return GuesserBasePoints + int(int64(GuesserTimeBonus)*int64(remaining)/int64(total))
}

// Seat is a member's position in the drawing rotation.
type Seat struct {
	ID       domain.UserID
	JoinedAt time.Time
}

func seatLess(a, b Seat) bool {
	if !a.JoinedAt.Equal(b.JoinedAt) {
		return a.JoinedAt.Before(b.JoinedAt)
	}
	return a.ID < b.ID
}

// NextDrawer picks the seat following prev in join order, wrapping around. prev
// may have left already; its seat still marks the position in the rotation.
func NextDrawer(seats []Seat, prev *Seat) (Seat, bool) {
	if len(seats) == 0 {
		return Seat{}, false
	}
	sorted := slices.Clone(seats)
	slices.SortFunc(sorted, func(a, b Seat) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	if prev == nil {
		return sorted[0], true
	}
	for _, s := range sorted {
		if seatLess(*prev, s) && s.ID != prev.ID {
			return s, true
		}
	}
	return sorted[0], true
}

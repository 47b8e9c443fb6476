package game

import (
	"math/rand/v2"

	"github.com/samber/lo"
)

// Picker is the source of randomness for option generation and hints.
type Picker interface {
	// Pick returns up to n distinct elements of options.
	Pick(options []string, n int) []string
	Intn(n int) int
}

type RandomPicker struct{}

func (RandomPicker) Pick(options []string, n int) []string {
	if n >= len(options) {
		return lo.Shuffle(append([]string(nil), options...))
	}
	return lo.Samples(options, n)
}

func (RandomPicker) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}

package core

import "time"

type Config struct {
	// MaxChat and MaxStrokes bound the replay logs; the oldest entries go first.
	MaxChat    int
	MaxStrokes int
	// EmptyGrace destroys a session nobody joined within this window.
	EmptyGrace time.Duration
	InboxSize  int
	Game       GameConfig
}

type GameConfig struct {
	ThemeChoices   int
	SubjectChoices int
	ThemeSelect    time.Duration
	SubjectSelect  time.Duration
	Draw           time.Duration
	Answer         time.Duration
	// HintInterval reveals one masked character per tick; zero disables hints.
	HintInterval time.Duration
	// MaxRounds ends the game after that many rounds; zero plays until stopped.
	MaxRounds int
}

func DefaultConfig() Config {
	return Config{
		MaxChat:    200,
		MaxStrokes: 10000,
		EmptyGrace: time.Minute,
		InboxSize:  64,
		Game: GameConfig{
			ThemeChoices:   3,
			SubjectChoices: 3,
			ThemeSelect:    15 * time.Second,
			SubjectSelect:  15 * time.Second,
			Draw:           80 * time.Second,
			Answer:         5 * time.Second,
			HintInterval:   20 * time.Second,
		},
	}
}

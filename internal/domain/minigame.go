package domain

import (
	"maps"
	"slices"
	"time"
)

type Phase string

const (
	PhaseIdle          Phase = "IDLE"
	PhaseThemeSelect   Phase = "THEME_SELECT"
	PhaseSubjectSelect Phase = "SUBJECT_SELECT"
	PhaseDraw          Phase = "DRAW"
	PhaseAnswer        Phase = "ANSWER"
)

// MinigameState is the full server-side state of the draw-and-guess game.
// Subject and the option lists are private to the drawer until ANSWER; use View
// before sending it anywhere.
type MinigameState struct {
	Active         bool           `json:"active"`
	Phase          Phase          `json:"phase"`
	Round          int            `json:"round"`
	DrawerID       UserID         `json:"drawerId,omitempty"`
	ThemeOptions   []string       `json:"themeOptions,omitempty"`
	Theme          string         `json:"theme,omitempty"`
	SubjectOptions []string       `json:"subjectOptions,omitempty"`
	Subject        string         `json:"subject,omitempty"`
	SubjectMasked  string         `json:"subjectMasked,omitempty"`
	Scores         map[UserID]int `json:"scores"`
	EndsAt         *time.Time     `json:"endsAt"`
}

func IdleMinigame() MinigameState {
	return MinigameState{Phase: PhaseIdle, Scores: map[UserID]int{}}
}

// View returns a copy of the state as the given member may see it.
func (s MinigameState) View(viewer UserID) MinigameState {
	v := s
	v.Scores = maps.Clone(s.Scores)
	if v.Scores == nil {
		v.Scores = map[UserID]int{}
	}
	v.ThemeOptions = slices.Clone(s.ThemeOptions)
	v.SubjectOptions = slices.Clone(s.SubjectOptions)
	if s.EndsAt != nil {
		t := *s.EndsAt
		v.EndsAt = &t
	}
	if viewer == s.DrawerID || s.Phase == PhaseAnswer {
		return v
	}
	v.ThemeOptions = nil
	v.SubjectOptions = nil
	v.Subject = ""
	return v
}

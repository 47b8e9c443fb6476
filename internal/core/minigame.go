package core

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/game"
	"github.com/dkeye/Hangout/internal/protocol"
)

// StartGame begins the draw-and-guess rotation. Host only, two members minimum.
func (s *Session) StartGame(ctx context.Context, requester domain.UserID) error {
	return s.do(ctx, func() error {
		if _, err := s.requireMember(requester); err != nil {
			return err
		}
		if requester != s.room.HostID {
			return domain.GameErr(domain.ErrNotHost)
		}
		if s.game.Active {
			return domain.GameErr(domain.ErrGameActive)
		}
		if len(s.members) < 2 {
			return domain.GameErr(domain.ErrNotEnoughPlayers)
		}
		scores := make(map[domain.UserID]int, len(s.members))
		for id := range s.members {
			scores[id] = 0
		}
		s.game = domain.MinigameState{Active: true, Phase: domain.PhaseIdle, Scores: scores}
		s.prevSeat = nil
		s.lg.Info().Int("players", len(s.members)).Msg("game started")
		s.beginRound()
		return nil
	})
}

// StopGame is accepted in any phase and always lands in IDLE.
func (s *Session) StopGame(ctx context.Context, requester domain.UserID) error {
	return s.do(ctx, func() error {
		if _, err := s.requireMember(requester); err != nil {
			return err
		}
		if requester != s.room.HostID {
			return domain.GameErr(domain.ErrNotHost)
		}
		s.endGame("stopped by host")
		return nil
	})
}

func (s *Session) SelectTheme(ctx context.Context, requester domain.UserID, theme string) error {
	return s.do(ctx, func() error {
		if err := s.requireDrawer(requester, domain.PhaseThemeSelect); err != nil {
			return err
		}
		if !slices.Contains(s.game.ThemeOptions, theme) {
			return domain.GameErr(domain.ErrInvalidOption)
		}
		s.applyTheme(theme)
		return nil
	})
}

func (s *Session) SelectSubject(ctx context.Context, requester domain.UserID, subject string) error {
	return s.do(ctx, func() error {
		if err := s.requireDrawer(requester, domain.PhaseSubjectSelect); err != nil {
			return err
		}
		if !slices.Contains(s.game.SubjectOptions, subject) {
			return domain.GameErr(domain.ErrInvalidOption)
		}
		s.applySubject(subject)
		return nil
	})
}

func (s *Session) requireDrawer(id domain.UserID, phase domain.Phase) error {
	if _, err := s.requireMember(id); err != nil {
		return err
	}
	if !s.game.Active {
		return domain.GameErr(domain.ErrWrongPhase)
	}
	if id != s.game.DrawerID {
		return domain.GameErr(domain.ErrNotDrawer)
	}
	if s.game.Phase != phase {
		return domain.GameErr(domain.ErrWrongPhase)
	}
	return nil
}

func (s *Session) beginRound() {
	cfg := s.cfg.Game
	if cfg.MaxRounds > 0 && s.game.Round >= cfg.MaxRounds {
		s.endGame("all rounds played")
		return
	}
	seat, ok := game.NextDrawer(s.seats(), s.prevSeat)
	if !ok {
		s.endGame("no players")
		return
	}
	s.prevSeat = &seat
	s.hints = 0
	s.clearCanvas("")

	s.game.Round++
	s.game.Phase = domain.PhaseThemeSelect
	s.game.DrawerID = seat.ID
	s.game.ThemeOptions = s.deps.Picker.Pick(s.deps.Catalog.Themes(), cfg.ThemeChoices)
	s.game.Theme = ""
	s.game.SubjectOptions = nil
	s.game.Subject = ""
	s.game.SubjectMasked = ""
	s.lg.Info().Int("round", s.game.Round).Str("drawer", string(seat.ID)).Msg("round started")

	s.schedule(cfg.ThemeSelect, domain.PhaseThemeSelect, func() {
		if theme, ok := s.randomOption(s.game.ThemeOptions); ok {
			s.applyTheme(theme)
		}
	})
	s.broadcastGame()
}

func (s *Session) applyTheme(theme string) {
	s.game.Theme = theme
	s.game.SubjectOptions = s.deps.Picker.Pick(s.deps.Catalog.Subjects(theme), s.cfg.Game.SubjectChoices)
	s.game.Phase = domain.PhaseSubjectSelect
	s.schedule(s.cfg.Game.SubjectSelect, domain.PhaseSubjectSelect, func() {
		if subject, ok := s.randomOption(s.game.SubjectOptions); ok {
			s.applySubject(subject)
		}
	})
	s.broadcastGame()
}

func (s *Session) applySubject(subject string) {
	s.game.Subject = subject
	s.game.SubjectMasked = game.Mask(subject)
	s.game.Phase = domain.PhaseDraw
	s.schedule(s.cfg.Game.Draw, domain.PhaseDraw, s.reveal)
	s.scheduleHint()
	s.broadcastGame()
}

func (s *Session) randomOption(options []string) (string, bool) {
	if len(options) == 0 {
		s.endGame("no options to pick from")
		return "", false
	}
	return options[s.deps.Picker.Intn(len(options))], true
}

// correctGuess awards the guesser by time left and the drawer a flat share,
// then ends the round.
func (s *Session) correctGuess(guesser domain.UserID) {
	var remaining time.Duration
	if s.game.EndsAt != nil {
		remaining = s.game.EndsAt.Sub(s.deps.Clock.Now())
	}
	points := game.GuessPoints(remaining, s.cfg.Game.Draw)
	s.game.Scores[guesser] += points
	s.game.Scores[s.game.DrawerID] += game.DrawerPoints
	s.lg.Info().Str("user", string(guesser)).Int("points", points).Msg("correct guess")
	s.system(fmt.Sprintf("%s guessed it! +%d", s.members[guesser].member.User.Username, points))
	s.reveal()
}

// reveal moves the round to ANSWER, showing the subject to everyone.
func (s *Session) reveal() {
	s.game.Phase = domain.PhaseAnswer
	s.game.SubjectMasked = s.game.Subject
	s.schedule(s.cfg.Game.Answer, domain.PhaseAnswer, s.beginRound)
	if s.game.Subject != "" {
		s.system(fmt.Sprintf("The answer was %s", s.game.Subject))
	}
	s.broadcastGame()
}

func (s *Session) drawerLeft() {
	switch s.game.Phase {
	case domain.PhaseDraw:
		s.reveal()
	case domain.PhaseThemeSelect, domain.PhaseSubjectSelect:
		s.beginRound()
	}
}

// endGame posts the final leaderboard to chat and resets the game to IDLE.
func (s *Session) endGame(reason string) {
	s.cancelPhase()
	if s.game.Active && len(s.game.Scores) > 0 {
		s.system("Final scores: " + leaderboard(s.game.Scores))
	}
	s.game = domain.IdleMinigame()
	s.prevSeat = nil
	s.hints = 0
	s.lg.Info().Str("reason", reason).Msg("game ended")
	s.broadcastGame()
}

// schedule arms the deadline of phase. A timer that fires after another
// transition finds a newer generation or another phase and does nothing.
func (s *Session) schedule(d time.Duration, phase domain.Phase, fire func()) {
	s.cancelPhase()
	end := s.deps.Clock.Now().Add(d)
	s.game.EndsAt = &end
	gen := s.phaseGen
	s.phaseTimer = s.deps.Clock.AfterFunc(d, func() {
		s.post(func() {
			if gen != s.phaseGen || !s.game.Active || s.game.Phase != phase {
				s.lg.Debug().Str("phase", string(phase)).Msg("stale timer ignored")
				return
			}
			fire()
		})
	})
}

func (s *Session) cancelPhase() {
	s.phaseGen++
	if s.phaseTimer != nil {
		s.phaseTimer.Stop()
		s.phaseTimer = nil
	}
	s.hintGen++
	if s.hintTimer != nil {
		s.hintTimer.Stop()
		s.hintTimer = nil
	}
}

func (s *Session) scheduleHint() {
	if s.cfg.Game.HintInterval <= 0 {
		return
	}
	gen := s.hintGen
	s.hintTimer = s.deps.Clock.AfterFunc(s.cfg.Game.HintInterval, func() {
		s.post(func() {
			if gen != s.hintGen || !s.game.Active || s.game.Phase != domain.PhaseDraw {
				return
			}
			s.revealHint()
		})
	})
}

// revealHint uncovers one character, up to half of the maskable ones.
func (s *Session) revealHint() {
	hidden := game.HiddenPositions(s.game.Subject, s.game.SubjectMasked)
	if s.hints >= game.MaskableCount(s.game.Subject)/2 || len(hidden) <= 1 {
		return
	}
	i := hidden[s.deps.Picker.Intn(len(hidden))]
	s.game.SubjectMasked = game.Reveal(s.game.Subject, s.game.SubjectMasked, i)
	s.hints++
	s.broadcastGame()
	s.scheduleHint()
}

// broadcastGame renders the state per recipient; only the drawer sees the
// subject before ANSWER.
func (s *Session) broadcastGame() {
	for id, e := range s.members {
		s.deliver(e, s.encode(protocol.NewGuessGameState(s.game.View(id))))
	}
}

// leaderboard renders scores best first, ties by id.
func leaderboard(scores map[domain.UserID]int) string {
	ids := slices.Collect(maps.Keys(scores))
	slices.SortFunc(ids, func(a, b domain.UserID) int {
		return cmp.Or(cmp.Compare(scores[b], scores[a]), cmp.Compare(a, b))
	})
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s %d", id, scores[id])
	}
	return strings.Join(parts, ", ")
}

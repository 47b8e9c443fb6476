package core

import (
	"context"
	"strings"

	"github.com/dkeye/Hangout/internal/domain"
	"github.com/dkeye/Hangout/internal/game"
	"github.com/dkeye/Hangout/internal/protocol"
	"github.com/google/uuid"
)

// SendMessage appends a member's chat line. While a subject is being drawn a
// guesser's line is checked as a guess first; a correct guess is not echoed.
func (s *Session) SendMessage(ctx context.Context, sender domain.UserID, text string) error {
	return s.do(ctx, func() error {
		e, err := s.requireMember(sender)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return domain.Validationf("empty message")
		}
		if s.game.Active && s.game.Phase == domain.PhaseDraw {
			if sender == s.game.DrawerID {
				if game.Mentions(text, s.game.Subject) {
					return domain.GameErr(domain.ErrSubjectLeak)
				}
			} else if game.Matches(text, s.game.Subject) {
				s.correctGuess(sender)
				return nil
			}
		}
		s.appendMessage(domain.ChatMessage{
			SenderID: sender,
			Username: e.member.User.Username,
			Text:     text,
		})
		return nil
	})
}

// system appends a server-authored line; no authority check.
func (s *Session) system(text string) {
	s.appendMessage(domain.ChatMessage{System: true, Text: text})
}

func (s *Session) appendMessage(m domain.ChatMessage) domain.ChatMessage {
	s.seq++
	m.ID = uuid.NewString()
	m.Seq = s.seq
	m.SentAt = s.deps.Clock.Now()
	s.chat = append(s.chat, m)
	if s.cfg.MaxChat > 0 && len(s.chat) > s.cfg.MaxChat {
		s.chat = s.chat[len(s.chat)-s.cfg.MaxChat:]
	}
	s.broadcast(protocol.NewNewMessage(m), "")
	return m
}

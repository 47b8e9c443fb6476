package domain

import "time"

type ChatMessage struct {
	ID       string    `json:"id"`
	Seq      int64     `json:"seq"`
	SenderID UserID    `json:"senderId,omitempty"`
	Username string    `json:"username,omitempty"`
	System   bool      `json:"system"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"timestamp"`
}

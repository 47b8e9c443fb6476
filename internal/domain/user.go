// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const (
	MaxUserIDLen   = 64
	MaxUsernameLen = 36
	MaxAvatarLen   = 512
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
	ErrUserIDEmpty     = errors.New("user id empty")
	ErrUserIDTooLong   = errors.New("user id too long")
	ErrAvatarTooLong   = errors.New("avatar too long")
)

type UserID string

// User is the identity handed over by the external identity collaborator.
type User struct {
	ID             UserID `json:"id"`
	Username       string `json:"username"`
	Avatar         string `json:"avatar,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id UserID, username, avatar string) (*User, error) {
	id = UserID(strings.TrimSpace(string(id)))
	if id == "" {
		return nil, ErrUserIDEmpty
	}
	if len(id) > MaxUserIDLen {
		return nil, ErrUserIDTooLong
	}
	u := &User{ID: id}
	if err := u.SetUsername(username); err != nil {
		return nil, err
	}
	if len(avatar) > MaxAvatarLen {
		return nil, ErrAvatarTooLong
	}
	u.Avatar = avatar
	return u, nil
}

func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) == 0 {
		return ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	u.Username = username
	return nil
}

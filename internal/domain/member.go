package domain

import "time"

// Member represents user's participation meta for a room.
// No transport or lifecycle logic here.
type Member struct {
	User     *User
	JoinedAt time.Time
	// Mute is reported on behalf of the voice subsystem; the engine only relays it.
	Mute bool
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(user *User, joinedAt time.Time) *Member {
	return &Member{User: user, JoinedAt: joinedAt}
}

func (m *Member) ID() UserID { return m.User.ID }

package core

import "github.com/dkeye/Hangout/internal/domain"

// Frame is a raw encoded server event.
type Frame []byte

// SignalConnection abstracts the member's messaging transport.
// Owned by the adapter; sessions only Close() it when kicking a slow member.
type SignalConnection interface {
	// TrySend queues a frame without blocking and fails when the queue is full.
	TrySend(Frame) error
	Close()
}

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a member whose send queue is full.
type Policy interface {
	OnBackPressure(room domain.RoomID, member domain.UserID) BackpressureAction
}

// Lifecycle is notified by a session about changes the registry must mirror.
// Calls happen on the session goroutine and must not call back into it.
type Lifecycle interface {
	MemberLeft(room domain.RoomID, member domain.UserID)
	SessionClosed(room domain.RoomID)
}

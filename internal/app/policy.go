package app

import (
	"github.com/dkeye/Hangout/internal/core"
	"github.com/dkeye/Hangout/internal/domain"
)

// KickPolicy disconnects a member as soon as its send queue overflows.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.RoomID, domain.UserID) core.BackpressureAction {
	return core.KickMember
}

// DropPolicy drops the frame and keeps the member; clients resync on rejoin.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.RoomID, domain.UserID) core.BackpressureAction {
	return core.DropFrame
}

// PolicyByName maps the backpressure config value to a policy; unknown names kick.
func PolicyByName(name string) core.Policy {
	if name == "drop" {
		return DropPolicy{}
	}
	return KickPolicy{}
}

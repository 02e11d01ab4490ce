package app

import (
	"fmt"

	"github.com/dkeye/callroom/internal/core"
	"github.com/dkeye/callroom/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a recipient whose send failed.
type Policy interface {
	OnBackPressure(room domain.RoomID, member core.ConnectionID, err error) BackpressureAction
}

// SimplePolicy applies the same action to every failed send.
type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(domain.RoomID, core.ConnectionID, error) BackpressureAction {
	return p.Action
}

// PolicyFromMode maps the config value to a policy.
func PolicyFromMode(mode string) (Policy, error) {
	switch mode {
	case "", "drop":
		return SimplePolicy{Action: DropFrame}, nil
	case "kick":
		return SimplePolicy{Action: KickMember}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure mode %q", mode)
	}
}

package domain

import "github.com/liftctl/liftctl/internal/constants"

// Status is the elevator snapshot produced on every status tick. It
// replaces the prior status wholesale; it is monotone in nothing (§3).
type Status struct {
	LastFloor      Floor          `json:"last_floor"`
	MotorDirection MotorDirection `json:"motor_direction"`
	TargetFloor    *Floor         `json:"target_floor"`
	Errors         bool           `json:"errors"`
	Obstruction    bool           `json:"obstruction"`
}

// UnknownStatus is the status a node reports before its first floor
// sensor event, per §4.1's "last_floor initially unknown" rule.
func UnknownStatus() Status {
	return Status{
		LastFloor:      Floor(constants.UnknownFloor),
		MotorDirection: MotorStop,
	}
}

// HasKnownFloor reports whether the elevator has seen at least one
// floor sensor event.
func (s Status) HasKnownFloor() bool {
	return s.LastFloor.Value() != constants.UnknownFloor
}

// IsIdle reports whether the elevator has no committed target, the
// condition the Master Core's cost function (§4.2) treats specially.
func (s Status) IsIdle() bool {
	return s.TargetFloor == nil
}

// PeerState is the latest known state of one peer, as held by the
// PeerTable (§3, §4.6). LastSeen is process-local bookkeeping for TTL
// expiry and is never serialized on the wire.
type PeerState struct {
	NodeID   NodeID
	Role     Role
	Status   Status
	LastSeen int64 // unix nanos, monotonic source supplied by the caller
}

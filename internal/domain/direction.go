package domain

import "github.com/liftctl/liftctl/internal/constants"

// HallDirection is the direction encoded on a hall call / Order (§3).
type HallDirection uint8

const (
	HallUp   HallDirection = HallDirection(constants.WireHallUp)
	HallDown HallDirection = HallDirection(constants.WireHallDown)
)

func (d HallDirection) String() string {
	if d == HallDown {
		return "down"
	}
	return "up"
}

// MotorDirection is the direction commanded to the physical motor (§3).
//
// The wire format in §6 gives motor UP and motor STOP the same numeric
// code (0), distinguishing them only by context; that is precisely the
// "global numeric codes with overlapping ranges" problem flagged in §9.
// MotorDirection is kept as its own tagged type with its own zero value
// so Go code never has to reconstruct intent from an overloaded byte;
// ToWire is the single place that re-introduces the overlap when a byte
// actually has to go out (to the hardware driver).
type MotorDirection uint8

const (
	MotorStop MotorDirection = iota
	MotorUp
	MotorDown
)

func (d MotorDirection) String() string {
	switch d {
	case MotorUp:
		return "up"
	case MotorDown:
		return "down"
	default:
		return "stop"
	}
}

// ToWire encodes a MotorDirection into the hardware driver's motor
// command byte (§6): 0 for UP or STOP, 255 for DOWN.
func (d MotorDirection) ToWire() uint8 {
	if d == MotorDown {
		return constants.WireMotorDown
	}
	return constants.WireMotorUp
}

// HallToMotor converts a hall direction to the corresponding motor
// direction, per §4.1's should_stop predicate and §9's single
// conversion-function rule.
func HallToMotor(d HallDirection) MotorDirection {
	if d == HallDown {
		return MotorDown
	}
	return MotorUp
}

// MotorToHall converts a motor direction to the corresponding hall
// direction. MotorStop has no hall equivalent; callers must not pass it.
func MotorToHall(d MotorDirection) HallDirection {
	if d == MotorDown {
		return HallDown
	}
	return HallUp
}

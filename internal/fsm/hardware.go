package fsm

import "github.com/liftctl/liftctl/internal/domain"

// Hardware is the narrow set of commands the FSM issues to the
// physical elevator (§6). Sensor polling is not part of this
// interface: pollers push events into the FSM through its public
// On* methods instead.
type Hardware interface {
	SetMotorDirection(domain.MotorDirection) error
	SetDoorLight(on bool) error
	SetCallButtonLight(floor domain.Floor, kind uint8, on bool) error
}

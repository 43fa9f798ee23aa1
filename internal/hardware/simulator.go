package hardware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/liftctl/liftctl/internal/constants"
	"github.com/liftctl/liftctl/internal/domain"
)

// FloorSink receives the floor-sensor events the driver produces as
// the car passes or stops at a floor. Satisfied by *fsm.FSM.
type FloorSink interface {
	OnFloor(ctx context.Context, floor domain.Floor)
}

// StopButtonSink receives stop-button presses polled off the cab
// panel. Satisfied by *fsm.FSM.
type StopButtonSink interface {
	CabStop(ctx context.Context)
}

// ObstructionSink receives the obstruction switch's level whenever it
// changes. Satisfied by *fsm.FSM.
type ObstructionSink interface {
	OnObstruction(ctx context.Context, active bool)
}

// Sink is every sensor event this driver can push into the FSM.
type Sink interface {
	FloorSink
	StopButtonSink
	ObstructionSink
}

// Simulator is a Hardware implementation that moves a virtual car
// between floors on a fixed per-floor travel time, guarded by a
// circuit breaker so a string of failed commands degrades instead of
// wedging the FSM's motor goroutine. A second, independent-period
// ticker polls a simulated stop button and obstruction switch the way
// a real elevio-style poller samples its physical switches (§6).
type Simulator struct {
	mu            sync.Mutex
	numFloors     int
	current       domain.Floor
	direction     domain.MotorDirection
	floorDuration time.Duration
	pollPeriod    time.Duration

	stopPending         bool
	obstructionActive   bool
	obstructionNotified bool

	breaker *CircuitBreaker
	sink    Sink
	logger  *slog.Logger
}

// NewSimulator builds a Simulator starting at floor 0. sink may be nil
// at construction time and set later with SetSink, since the FSM that
// typically serves as sink needs this driver to exist first.
func NewSimulator(numFloors int, floorDuration, pollPeriod time.Duration, breaker *CircuitBreaker, sink Sink) *Simulator {
	return &Simulator{
		numFloors:     numFloors,
		current:       domain.NewFloor(0),
		direction:     domain.MotorStop,
		floorDuration: floorDuration,
		pollPeriod:    pollPeriod,
		breaker:       breaker,
		sink:          sink,
		logger:        slog.With(slog.String("component", constants.ComponentHardware)),
	}
}

// SetSink sets the sensor-event destination. Must be called before Run
// if sink was nil at construction.
func (s *Simulator) SetSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// PressStopButton simulates a momentary stop-button press. It takes
// effect on the next switch poll, same as a real cab button would only
// be observed on the poller's next sample.
func (s *Simulator) PressStopButton() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPending = true
}

// SetObstruction simulates the obstruction switch engaging (true) or
// releasing (false). The driver only reports a level, never an edge,
// so a sink learns about it on the next poll that observes a change.
func (s *Simulator) SetObstruction(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obstructionActive = active
}

// SetMotorDirection implements fsm.Hardware.
func (s *Simulator) SetMotorDirection(d domain.MotorDirection) error {
	return s.breaker.Execute(context.Background(), func() error {
		s.mu.Lock()
		s.direction = d
		s.mu.Unlock()
		return nil
	})
}

// SetDoorLight implements fsm.Hardware.
func (s *Simulator) SetDoorLight(on bool) error {
	return s.breaker.Execute(context.Background(), func() error {
		s.logger.Debug("door light", slog.Bool("on", on))
		return nil
	})
}

// SetCallButtonLight implements fsm.Hardware.
func (s *Simulator) SetCallButtonLight(floor domain.Floor, kind uint8, on bool) error {
	return s.breaker.Execute(context.Background(), func() error {
		s.logger.Debug("call button light",
			slog.Int("floor", floor.Value()), slog.Int("kind", int(kind)), slog.Bool("on", on))
		return nil
	})
}

// Run advances the simulated car one floor per floorDuration while a
// direction is set, reporting each arrival to sink.OnFloor, and polls
// the stop button and obstruction switch every pollPeriod, until ctx is
// cancelled.
func (s *Simulator) Run(ctx context.Context) {
	floorTicker := time.NewTicker(s.floorDuration)
	defer floorTicker.Stop()

	pollTicker := time.NewTicker(s.pollPeriod)
	defer pollTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-floorTicker.C:
			floor, moved := s.advance()
			if moved {
				s.mu.Lock()
				sink := s.sink
				s.mu.Unlock()
				if sink != nil {
					sink.OnFloor(ctx, floor)
				}
			}
		case <-pollTicker.C:
			s.pollSwitches(ctx)
		}
	}
}

func (s *Simulator) pollSwitches(ctx context.Context) {
	s.mu.Lock()
	sink := s.sink
	pressed := s.stopPending
	s.stopPending = false
	obstructed := s.obstructionActive
	changed := obstructed != s.obstructionNotified
	s.obstructionNotified = obstructed
	s.mu.Unlock()

	if sink == nil {
		return
	}
	if pressed {
		sink.CabStop(ctx)
	}
	if changed {
		sink.OnObstruction(ctx, obstructed)
	}
}

func (s *Simulator) advance() (domain.Floor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.direction {
	case domain.MotorUp:
		if s.current.Value() >= s.numFloors-1 {
			return s.current, false
		}
		s.current = domain.NewFloor(s.current.Value() + 1)
		return s.current, true
	case domain.MotorDown:
		if s.current.Value() <= 0 {
			return s.current, false
		}
		s.current = domain.NewFloor(s.current.Value() - 1)
		return s.current, true
	default:
		return s.current, false
	}
}

// CurrentFloor reports the car's last simulated position.
func (s *Simulator) CurrentFloor() domain.Floor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

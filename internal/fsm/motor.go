package fsm

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/liftctl/liftctl/internal/constants"
	"github.com/liftctl/liftctl/internal/domain"
)

type motorCmdKind int

const (
	motorCmdDirect motorCmdKind = iota
	motorCmdStopTemp
)

type motorCommand struct {
	kind    motorCmdKind
	direct  domain.MotorDirection // used when kind == motorCmdDirect
	restore domain.MotorDirection // direction to resume after the door closes, kind == motorCmdStopTemp
}

// motorController owns the physical motor and door light. STOP_TEMP is
// the only operation that blocks (§4.1), so it runs on its own
// goroutine and is reached only through cmdCh, keeping the FSM event
// loop itself non-blocking.
type motorController struct {
	hw             Hardware
	doorOpenPeriod time.Duration
	cmdCh          chan motorCommand
	obstructed     atomic.Bool
	logger         *slog.Logger
}

func newMotorController(hw Hardware, doorOpenPeriod time.Duration) *motorController {
	return &motorController{
		hw:             hw,
		doorOpenPeriod: doorOpenPeriod,
		cmdCh:          make(chan motorCommand, 4),
		logger:         slog.With(slog.String("component", constants.ComponentMotor)),
	}
}

// setObstructed records the obstruction switch's latest level. It is
// read by apply mid-hold, independent of cmdCh, so a STOP_TEMP already
// in progress reacts without waiting for another command.
func (m *motorController) setObstructed(active bool) {
	m.obstructed.Store(active)
}

func (m *motorController) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-m.cmdCh:
			m.apply(ctx, cmd)
		}
	}
}

func (m *motorController) apply(ctx context.Context, cmd motorCommand) {
	switch cmd.kind {
	case motorCmdDirect:
		if err := m.hw.SetMotorDirection(cmd.direct); err != nil {
			m.logger.Warn("motor command failed", slog.String("error", err.Error()))
		}
	case motorCmdStopTemp:
		if err := m.hw.SetMotorDirection(domain.MotorStop); err != nil {
			m.logger.Warn("motor stop failed", slog.String("error", err.Error()))
		}
		if err := m.hw.SetDoorLight(true); err != nil {
			m.logger.Warn("door light on failed", slog.String("error", err.Error()))
		}

		for {
			select {
			case <-time.After(m.doorOpenPeriod):
			case <-ctx.Done():
				return
			}
			if !m.obstructed.Load() {
				break
			}
			m.logger.Debug("door hold re-armed, obstruction present")
		}

		if err := m.hw.SetDoorLight(false); err != nil {
			m.logger.Warn("door light off failed", slog.String("error", err.Error()))
		}
		if cmd.restore != domain.MotorStop {
			if err := m.hw.SetMotorDirection(cmd.restore); err != nil {
				m.logger.Warn("motor resume failed", slog.String("error", err.Error()))
			}
		}
	}
}

// command enqueues a direct motor command without blocking the caller
// for longer than the channel buffer allows.
func (m *motorController) command(ctx context.Context, dir domain.MotorDirection) {
	select {
	case m.cmdCh <- motorCommand{kind: motorCmdDirect, direct: dir}:
	case <-ctx.Done():
	}
}

// stopTemp enqueues a STOP_TEMP: stop, hold the door open for
// doorOpenPeriod, then resume in restore.
func (m *motorController) stopTemp(ctx context.Context, restore domain.MotorDirection) {
	select {
	case m.cmdCh <- motorCommand{kind: motorCmdStopTemp, restore: restore}:
	case <-ctx.Done():
	}
}

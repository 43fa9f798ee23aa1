// Package fsm implements the per-node elevator state machine (§4.1):
// it converts sensor events and an evolving destination set into
// motor/door/light commands, and owns the destination set itself.
package fsm

import (
	"context"
	"log/slog"
	"time"

	"github.com/liftctl/liftctl/internal/constants"
	"github.com/liftctl/liftctl/internal/domain"
)

type callButtonEvent struct {
	floor domain.Floor
	kind  uint8
}

// FSM is the event loop described by §4.1 and §5: one goroutine started
// by Run selects over call-button, floor-sensor and master-order
// channels plus an idle tick, and owns destinations, direction and
// last_floor exclusively.
type FSM struct {
	numFloors      int
	tickPeriod     time.Duration
	doorOpenPeriod time.Duration

	hw    Hardware
	motor *motorController

	destinations map[domain.Order]struct{}
	// cabDestinations is the subset of destinations that originated
	// from this car's own cab buttons rather than a master-assigned
	// hall order. CabStop must only clear local cab calls — hall
	// orders stay in destinations and are still served by this car —
	// and destinations alone can't tell the two apart once inserted, since
	// both share the same domain.Order value type.
	cabDestinations map[domain.Order]struct{}
	lastFloor       domain.Floor
	hasFloor        bool
	direction       domain.MotorDirection
	obstruction     bool

	floorCh       chan domain.Floor
	callButtonCh  chan callButtonEvent
	orderCh       chan domain.Order
	obstructionCh chan bool
	stopCh        chan struct{}
	peerStatusCh  chan domain.Status

	// StatusOut carries the latest Status on every tick and after
	// every state-changing event; capacity 1, overwritten so only the
	// freshest status is ever pending (§3: "replaces prior status
	// wholesale").
	StatusOut chan domain.Status

	// Outbound carries hall-call forwards and order acks bound for
	// Net Send (§4.1's "forward to master" and "reply with ORDER_ACK").
	Outbound chan<- domain.Message

	logger *slog.Logger
}

// Config bundles the tunables the building/Config layer supplies.
type Config struct {
	NumFloors      int
	TickPeriod     time.Duration
	DoorOpenPeriod time.Duration
}

// New builds an FSM. Call Run in its own goroutine before feeding it
// events.
func New(cfg Config, hw Hardware, outbound chan<- domain.Message) *FSM {
	return &FSM{
		numFloors:       cfg.NumFloors,
		tickPeriod:      cfg.TickPeriod,
		doorOpenPeriod:  cfg.DoorOpenPeriod,
		hw:              hw,
		motor:           newMotorController(hw, cfg.DoorOpenPeriod),
		destinations:    make(map[domain.Order]struct{}),
		cabDestinations: make(map[domain.Order]struct{}),
		lastFloor:       domain.NewFloor(constants.UnknownFloor),
		hasFloor:        false,
		direction:       domain.MotorStop,
		floorCh:         make(chan domain.Floor, 1),
		callButtonCh:    make(chan callButtonEvent, 8),
		orderCh:         make(chan domain.Order, 8),
		obstructionCh:   make(chan bool, 1),
		stopCh:          make(chan struct{}, 1),
		peerStatusCh:    make(chan domain.Status, 8),
		StatusOut:       make(chan domain.Status, 1),
		Outbound:        outbound,
		logger:          slog.With(slog.String("component", constants.ComponentFSM)),
	}
}

// Run drives the event loop until ctx is cancelled. It also starts the
// motor controller goroutine.
func (f *FSM) Run(ctx context.Context) {
	go f.motor.run(ctx)

	ticker := time.NewTicker(f.tickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case floor := <-f.floorCh:
			f.onFloor(floor)
		case ev := <-f.callButtonCh:
			f.onCallButton(ev.floor, ev.kind)
		case order := <-f.orderCh:
			f.onOrderFromMaster(order)
		case active := <-f.obstructionCh:
			f.onObstruction(active)
		case <-f.stopCh:
			f.onStopButton()
		case status := <-f.peerStatusCh:
			f.onPeerStatus(status)
		case <-ticker.C:
			f.tick()
		}
	}
}

// OnFloor reports a floor sensor event.
func (f *FSM) OnFloor(ctx context.Context, floor domain.Floor) {
	select {
	case f.floorCh <- floor:
	case <-ctx.Done():
	}
}

// OnCallButton reports a call-button press; kind is one of
// constants.CallHallUp/CallHallDown/CallCab.
func (f *FSM) OnCallButton(ctx context.Context, floor domain.Floor, kind uint8) {
	select {
	case f.callButtonCh <- callButtonEvent{floor: floor, kind: kind}:
	case <-ctx.Done():
	}
}

// OnOrderFromMaster reports a hall order assigned to this node by the
// current master.
func (f *FSM) OnOrderFromMaster(ctx context.Context, order domain.Order) {
	select {
	case f.orderCh <- order:
	case <-ctx.Done():
	}
}

// OnObstruction reports the obstruction switch's current level. While
// active, a door held open by STOP_TEMP keeps re-arming its close timer
// instead of closing, mirroring the poller's reported level rather than
// an edge.
func (f *FSM) OnObstruction(ctx context.Context, active bool) {
	select {
	case f.obstructionCh <- active:
	case <-ctx.Done():
	default:
		// Channel already holds a pending, not-yet-applied level;
		// draining it keeps only the freshest report, matching
		// publishStatus's "replaces prior status wholesale" rule.
		select {
		case <-f.obstructionCh:
		default:
		}
		select {
		case f.obstructionCh <- active:
		case <-ctx.Done():
		}
	}
}

// CabStop reports a stop-button press: halt the motor and clear this
// car's own pending cab calls. Hall orders already assigned by the
// master are left untouched in the destination set and are still
// served by this car.
func (f *FSM) CabStop(ctx context.Context) {
	select {
	case f.stopCh <- struct{}{}:
	case <-ctx.Done():
	}
}

// ReconcilePeerStatus reports a peer's latest broadcast status so this
// car's own hall lights can be resynchronized against it: a peer idle
// at a floor has already serviced any hall call lit there, and a node
// that just joined or reconnected has no memory of which calls are
// actually still outstanding.
func (f *FSM) ReconcilePeerStatus(ctx context.Context, status domain.Status) {
	select {
	case f.peerStatusCh <- status:
	case <-ctx.Done():
	default:
		f.logger.Debug("peer status reconciliation channel full, dropping report")
	}
}

func (f *FSM) onCallButton(floor domain.Floor, kind uint8) {
	switch kind {
	case constants.CallCab:
		order := domain.NewOrder(floor, f.lastFloor)
		f.destinations[order] = struct{}{}
		f.cabDestinations[order] = struct{}{}
		f.setLight(floor, kind, true)
	case constants.CallHallUp, constants.CallHallDown:
		direction := domain.HallUp
		if kind == constants.CallHallDown {
			direction = domain.HallDown
		}
		order := domain.Order{Floor: floor, Direction: direction}
		f.forwardHallCall(order)
		f.setLight(floor, kind, true)
	}
}

func (f *FSM) onOrderFromMaster(order domain.Order) {
	f.destinations[order] = struct{}{}
	f.publishOrderAck(order)
}

func (f *FSM) onFloor(floorNow domain.Floor) {
	f.lastFloor = floorNow
	f.hasFloor = true

	// 1. boundary safety
	atTop := floorNow.Value() == f.numFloors-1
	atBottom := floorNow.Value() == 0
	if (f.direction == domain.MotorUp && atTop) || (f.direction == domain.MotorDown && atBottom) {
		f.direction = domain.MotorStop
		f.motor.command(context.Background(), domain.MotorStop)
	}

	// 2. target
	target := farthest(f.destinations, f.direction, floorNow)

	// 3. should_stop
	matches := stopOrders(f.destinations, floorNow, target, f.direction)
	h := heading(f.direction, floorNow, target)

	if len(matches) > 0 {
		for _, o := range matches {
			delete(f.destinations, o)
			delete(f.cabDestinations, o)
		}
		clearUp, clearDown := lightsToClear(floorNow, f.numFloors, h)
		f.setLight(floorNow, constants.CallCab, false)
		if clearUp {
			f.setLight(floorNow, constants.CallHallUp, false)
		}
		if clearDown {
			f.setLight(floorNow, constants.CallHallDown, false)
		}
		f.motor.stopTemp(context.Background(), h)
	} else if h != f.direction {
		f.motor.command(context.Background(), h)
	}

	f.direction = h
	f.publishStatus()
}

// tick handles the periodic 1s status emission and startup nudge.
func (f *FSM) tick() {
	if f.direction == domain.MotorStop && f.hasFloor {
		if next := startupHeading(f.destinations, f.lastFloor); next != domain.MotorStop {
			f.direction = next
			f.motor.command(context.Background(), next)
		}
	}
	f.publishStatus()
}

func (f *FSM) onObstruction(active bool) {
	f.obstruction = active
	f.motor.setObstructed(active)
	f.publishStatus()
}

func (f *FSM) onStopButton() {
	f.motor.command(context.Background(), domain.MotorStop)
	f.direction = domain.MotorStop

	for o := range f.cabDestinations {
		delete(f.destinations, o)
		delete(f.cabDestinations, o)
		f.setLight(o.Floor, constants.CallCab, false)
	}

	f.publishStatus()
}

// onPeerStatus clears this car's hall lights at a floor a peer reports
// being idle at, unless this car still has its own pending order there
// (it may be about to service the call itself). It never lights a
// button, only extinguishes ones serviced elsewhere — lighting one
// would risk summoning a car to a call nobody actually made.
func (f *FSM) onPeerStatus(status domain.Status) {
	if !status.HasKnownFloor() || !status.IsIdle() {
		return
	}

	floor := status.LastFloor
	for _, d := range []domain.HallDirection{domain.HallUp, domain.HallDown} {
		order := domain.Order{Floor: floor, Direction: d}
		if _, pending := f.destinations[order]; pending {
			continue
		}
		kind := constants.CallHallUp
		if d == domain.HallDown {
			kind = constants.CallHallDown
		}
		f.setLight(floor, kind, false)
	}
}

func (f *FSM) forwardHallCall(order domain.Order) {
	msg := domain.Message{
		Target: domain.TargetMaster,
		Type:   domain.CommOrderTransfer,
		Order:  &order,
	}
	f.send(msg)
}

func (f *FSM) publishOrderAck(order domain.Order) {
	msg := domain.Message{
		Target: domain.TargetMaster,
		Type:   domain.CommOrderAck,
		Order:  &order,
	}
	f.send(msg)
}

func (f *FSM) send(msg domain.Message) {
	select {
	case f.Outbound <- msg:
	default:
		f.logger.Warn("outbound channel full, dropping message", slog.String("comm_type", msg.Type.String()))
	}
}

func (f *FSM) publishStatus() {
	status := f.snapshot()
	select {
	case f.StatusOut <- status:
	default:
		select {
		case <-f.StatusOut:
		default:
		}
		f.StatusOut <- status
	}
}

func (f *FSM) snapshot() domain.Status {
	if !f.hasFloor {
		return domain.UnknownStatus()
	}

	status := domain.Status{
		LastFloor:      f.lastFloor,
		MotorDirection: f.direction,
		Obstruction:    f.obstruction,
	}

	if f.direction != domain.MotorStop || len(f.destinations) > 0 {
		target := farthest(f.destinations, f.direction, f.lastFloor)
		status.TargetFloor = &target
	}

	return status
}

func (f *FSM) setLight(floor domain.Floor, kind uint8, on bool) {
	if err := f.hw.SetCallButtonLight(floor, kind, on); err != nil {
		f.logger.Warn("call button light failed", slog.String("error", err.Error()))
	}
}

// Package master implements the Master Core (§4.2): the hall-call
// queue and the min-cost assignment algorithm, active only while this
// node's role is MASTER.
//
// The wire protocol (§6) has no dedicated message for "a hall button
// was pressed, please dispatch it" — only STATUS_MESSAGE,
// ORDER_TRANSFER and ORDER_ACK. Net Recv's routing rule forwards any
// message addressed to target=MASTER into the master inbound channel
// regardless of comm_type (§4.5), so a hall-call report reuses
// ORDER_TRANSFER targeted at MASTER: an ORDER_TRANSFER a master sends
// always targets a specific NodeId, so one arriving on the master
// inbound channel unambiguously means "new hall call, please assign".
package master

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/liftctl/liftctl/internal/constants"
	"github.com/liftctl/liftctl/internal/domain"
	"github.com/liftctl/liftctl/internal/hallqueue"
	"github.com/liftctl/liftctl/internal/logging"
	"github.com/liftctl/liftctl/internal/metrics"
	"github.com/liftctl/liftctl/internal/peertable"
	"github.com/liftctl/liftctl/internal/telemetry"
)

// Core runs the assignment loop for the lifetime of the node, whatever
// its role; it only receives hall calls and acks while Net Recv sees
// this node as MASTER.
type Core struct {
	self   domain.NodeID
	queue  *hallqueue.Queue
	table  *peertable.Table
	period time.Duration

	// Inbound carries hall-call reports (ORDER_TRANSFER targeted at
	// MASTER) and ORDER_ACKs. Outbound carries ORDER_TRANSFERs this
	// node sends out for assignment.
	Inbound  chan domain.Message
	Outbound chan<- domain.Message
}

// New builds a Core. queue must already have its owner goroutine
// running (see hallqueue.Queue.Run).
func New(self domain.NodeID, queue *hallqueue.Queue, table *peertable.Table, period time.Duration, outbound chan<- domain.Message) *Core {
	return &Core{
		self:     self,
		queue:    queue,
		table:    table,
		period:   period,
		Inbound:  make(chan domain.Message, 32),
		Outbound: outbound,
	}
}

// Run drives the master loop until ctx is cancelled. The hall queue it
// reads is this node's own; it is not shared with other nodes, so
// orders still queued here are not carried over to another node that
// becomes master.
func (c *Core) Run(ctx context.Context) {
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.Inbound:
			c.handle(ctx, msg)
		case <-ticker.C:
			c.assign(ctx)
		}
	}
}

func (c *Core) handle(ctx context.Context, msg domain.Message) {
	switch msg.Type {
	case domain.CommOrderTransfer:
		if msg.Order == nil {
			return
		}
		c.queue.Insert(ctx, *msg.Order)
	case domain.CommOrderAck:
		if msg.Order == nil {
			return
		}
		if !c.queue.Delete(ctx, *msg.Order) {
			slog.Info("duplicate ack or missing order",
				slog.String("component", constants.ComponentMaster),
				slog.Any("order", *msg.Order),
			)
		}
	default:
		slog.Warn("unexpected message on master inbound channel",
			slog.String("component", constants.ComponentMaster),
			slog.String("comm_type", msg.Type.String()),
		)
	}
}

// assign runs one assignment round, tagged end-to-end with a fresh
// correlation id (propagated through ctx the way internal/logging's
// context helpers are meant to) so every log line and the span this
// round opens can be joined back together after the fact.
func (c *Core) assign(ctx context.Context) {
	ctx = logging.NewContextWithCorrelation(ctx)
	correlationID := logging.GetCorrelationID(ctx)

	orders := c.queue.Read(ctx)
	metrics.SetHallQueueDepth(len(orders))
	if len(orders) == 0 {
		return
	}

	peers := c.table.Snapshot()
	metrics.SetPeerCount(len(peers))
	if len(peers) == 0 {
		slog.Warn("no live peers to assign orders to",
			slog.String("component", constants.ComponentMaster),
			slog.String("correlation_id", correlationID))
		return
	}

	ctx, span := telemetry.StartAssignment(ctx, len(orders), len(peers))
	span.SetAttributes(attribute.String("correlation_id", correlationID))
	defer span.End()
	telemetry.AssignmentRoundsCounter().Add(ctx, 1)

	slog.Debug("assignment round started",
		slog.String("component", constants.ComponentMaster),
		slog.String("correlation_id", correlationID),
		slog.Int("orders", len(orders)),
		slog.Int("peers", len(peers)))

	for _, order := range orders {
		target, ok := BestPeer(order, peers)
		if !ok {
			metrics.IncOrdersAssigned("no_peer")
			continue
		}
		msg := domain.NewOrderTransfer(c.self, domain.RoleMaster, target, order)
		select {
		case c.Outbound <- msg:
			metrics.IncOrdersAssigned("ok")
		case <-ctx.Done():
			return
		}
	}
}

// BestPeer picks the minimum-cost live peer for order, breaking ties by
// lowest NodeId (§4.2). Peers with no known status (last_floor unknown)
// are skipped as unassignable.
func BestPeer(order domain.Order, peers []domain.PeerState) (domain.NodeID, bool) {
	var (
		best    domain.NodeID
		bestSet bool
		bestCst int
	)

	for _, peer := range peers {
		if !peer.Status.HasKnownFloor() {
			continue
		}
		cost := CostOf(order, peer.Status)
		if !bestSet || cost < bestCst || (cost == bestCst && peer.NodeID < best) {
			best = peer.NodeID
			bestCst = cost
			bestSet = true
		}
	}

	return best, bestSet
}

// CostOf computes the assignment cost of order against a peer's status,
// per §4.2's three-case cost function.
func CostOf(order domain.Order, status domain.Status) int {
	if status.IsIdle() {
		return abs(status.LastFloor.Value() - order.Floor.Value())
	}

	target := *status.TargetFloor
	onPath := (order.Direction == domain.HallUp && status.LastFloor.Value() < order.Floor.Value() && order.Floor.Value() < target.Value()) ||
		(order.Direction == domain.HallDown && target.Value() < order.Floor.Value() && order.Floor.Value() < status.LastFloor.Value())

	if onPath {
		return abs(status.LastFloor.Value() - order.Floor.Value())
	}

	return abs(status.LastFloor.Value()-target.Value()) + abs(target.Value()-order.Floor.Value())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

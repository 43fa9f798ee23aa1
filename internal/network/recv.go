package network

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/liftctl/liftctl/internal/constants"
	"github.com/liftctl/liftctl/internal/domain"
	"github.com/liftctl/liftctl/internal/peertable"
)

// ElevatorSink receives hall orders assigned by the current master and
// peer status reports used to resynchronize this car's own hall
// lights. Satisfied by *fsm.FSM.
type ElevatorSink interface {
	OnOrderFromMaster(ctx context.Context, order domain.Order)
	ReconcilePeerStatus(ctx context.Context, status domain.Status)
}

// RoleSource reports this node's current role so Net Recv can apply
// §4.5's "forward to master inbound only if self is master" gate.
type RoleSource interface {
	CurrentRole() domain.Role
}

// Receiver is Net Recv (§4.5): one listening socket, dispatched
// synchronously per datagram to the peer table, the local FSM, or the
// local Master Core's inbound channel.
type Receiver struct {
	self     domain.NodeID
	port     int
	table    *peertable.Table
	fsm      ElevatorSink
	role     RoleSource
	master   chan<- domain.Message
	readTO   time.Duration
	backoff  time.Duration
	logger   *slog.Logger
}

// NewReceiver builds a Receiver bound to port.
func NewReceiver(self domain.NodeID, port int, table *peertable.Table, fsm ElevatorSink, role RoleSource, master chan<- domain.Message, readTimeout, backoff time.Duration) *Receiver {
	return &Receiver{
		self:    self,
		port:    port,
		table:   table,
		fsm:     fsm,
		role:    role,
		master:  master,
		readTO:  readTimeout,
		backoff: backoff,
		logger:  slog.With(slog.String("component", constants.ComponentNetRecv)),
	}
}

// Run listens and dispatches until ctx is cancelled.
func (r *Receiver) Run(ctx context.Context) {
	conn := r.bind(ctx)
	if conn == nil {
		return
	}
	defer conn.Close()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(r.readTO))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			r.logger.Warn("socket read failed, rebinding", slog.String("error", err.Error()))
			conn.Close()
			select {
			case <-time.After(r.backoff):
			case <-ctx.Done():
				return
			}
			conn = r.bind(ctx)
			if conn == nil {
				return
			}
			continue
		}

		msg, err := Decode(buf[:n])
		if err != nil {
			r.logger.Debug("dropped malformed datagram", slog.String("error", err.Error()))
			continue
		}

		r.dispatch(ctx, msg)
	}
}

func (r *Receiver) dispatch(ctx context.Context, msg domain.Message) {
	if msg.Target.IsMaster() {
		if r.role.CurrentRole() == domain.RoleMaster {
			r.forwardToMaster(ctx, msg)
		}
		return
	}

	node, isNode := msg.Target.NodeID()
	addressedToMe := msg.Target.IsAll() || (isNode && node == r.self)
	if !addressedToMe {
		return
	}

	switch msg.Type {
	case domain.CommStatus:
		if msg.Status != nil {
			r.table.Upsert(msg.Sender, msg.SenderRole, *msg.Status, time.Now())
			r.fsm.ReconcilePeerStatus(ctx, *msg.Status)
		}
	case domain.CommOrderTransfer:
		if msg.Order != nil {
			r.fsm.OnOrderFromMaster(ctx, *msg.Order)
		}
	case domain.CommOrderAck:
		r.forwardToMaster(ctx, msg)
	}
}

func (r *Receiver) forwardToMaster(ctx context.Context, msg domain.Message) {
	select {
	case r.master <- msg:
	case <-ctx.Done():
	default:
		r.logger.Warn("master inbound channel full, dropping message", slog.String("comm_type", msg.Type.String()))
	}
}

func (r *Receiver) bind(ctx context.Context) *net.UDPConn {
	for {
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: r.port})
		if err == nil {
			return conn
		}
		r.logger.Warn("failed to bind listener, retrying", slog.String("error", err.Error()))
		select {
		case <-time.After(r.backoff):
		case <-ctx.Done():
			return nil
		}
	}
}

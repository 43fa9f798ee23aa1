// Package node wires the per-node components — FSM, Master Core, Role
// Manager, Peer Table, Net Send/Recv and the hardware driver — into one
// running process (§5's nine-thread concurrency model).
package node

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/liftctl/liftctl/internal/config"
	"github.com/liftctl/liftctl/internal/constants"
	"github.com/liftctl/liftctl/internal/domain"
	"github.com/liftctl/liftctl/internal/fsm"
	"github.com/liftctl/liftctl/internal/hallqueue"
	"github.com/liftctl/liftctl/internal/hardware"
	"github.com/liftctl/liftctl/internal/master"
	"github.com/liftctl/liftctl/internal/network"
	"github.com/liftctl/liftctl/internal/peertable"
	"github.com/liftctl/liftctl/internal/rolemanager"
)

// roleHolder publishes the node's current role for readers that cannot
// block on rolemanager.Manager.Views, namely Net Recv's per-datagram
// dispatch decision.
type roleHolder struct {
	v atomic.Int32
}

func (r *roleHolder) set(role domain.Role)    { r.v.Store(int32(role)) }
func (r *roleHolder) CurrentRole() domain.Role { return domain.Role(r.v.Load()) }

// Node owns every component started for one elevator in the cluster.
type Node struct {
	self domain.NodeID
	cfg  *config.Config

	table    *peertable.Table
	queue    *hallqueue.Queue
	roles    *rolemanager.Manager
	masterC  *master.Core
	sender   *network.Sender
	receiver *network.Receiver
	fsmC     *fsm.FSM
	driver   *hardware.Simulator
	role     *roleHolder

	statusMu   sync.RWMutex
	lastStatus domain.Status

	logger *slog.Logger
}

// New assembles a Node from cfg. Call Run to start it.
func New(cfg *config.Config) (*Node, error) {
	self, err := domain.NewNodeID(cfg.NodeID)
	if err != nil {
		return nil, err
	}

	table := peertable.New()
	queue := hallqueue.New()
	sender := network.NewSender(self, cfg.BroadcastPort, cfg.StatusPeriod, cfg.SocketBackoff)
	masterC := master.New(self, queue, table, cfg.AssignPeriod, sender.Outbound)
	roles := rolemanager.New(self, table, cfg.AssignPeriod, cfg.PeerTTL)

	breaker := hardware.NewCircuitBreaker(cfg.CircuitBreakerMaxFailures, cfg.CircuitBreakerResetTimeout, cfg.CircuitBreakerHalfOpenLimit)
	driver := hardware.NewSimulator(cfg.NumFloors, constants.DefaultFloorTravelPeriod, cfg.PollPeriod, breaker, nil)

	fsmC := fsm.New(fsm.Config{
		NumFloors:      cfg.NumFloors,
		TickPeriod:     constants.DefaultFSMTickPeriod,
		DoorOpenPeriod: cfg.DoorOpenPeriod,
	}, driver, sender.Outbound)

	driver.SetSink(fsmC)

	role := &roleHolder{}
	role.set(domain.RoleSlave)

	receiver := network.NewReceiver(self, cfg.BroadcastPort, table, fsmC, role, masterC.Inbound, cfg.SocketReadTimeout, cfg.SocketBackoff)

	return &Node{
		self:     self,
		cfg:      cfg,
		table:    table,
		queue:    queue,
		roles:    roles,
		masterC:  masterC,
		sender:   sender,
		receiver: receiver,
		fsmC:     fsmC,
		driver:   driver,
		role:     role,
		logger:   slog.With(slog.String("component", constants.ComponentNode), slog.Int("node_id", int(self.Value()))),
	}, nil
}

// Run starts every component goroutine and blocks until ctx is
// cancelled.
func (n *Node) Run(ctx context.Context) {
	n.logger.Info("node starting")

	go n.queue.Run(ctx)
	go n.fsmC.Run(ctx)
	go n.driver.Run(ctx)
	go n.masterC.Run(ctx)
	go n.sender.Run(ctx)
	go n.receiver.Run(ctx)
	go n.roles.Run(ctx, n.table.Changed())
	go n.forwardStatus(ctx)
	go n.applyRoleChanges(ctx)

	<-ctx.Done()
	n.logger.Info("node stopping")
}

// forwardStatus wraps every FSM status snapshot into a STATUS_MESSAGE
// envelope and hands it to Net Send (§4.1, §4.4).
func (n *Node) forwardStatus(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case status := <-n.fsmC.StatusOut:
			n.statusMu.Lock()
			n.lastStatus = status
			n.statusMu.Unlock()

			msg := domain.NewStatusMessage(n.self, n.role.CurrentRole(), status)
			select {
			case n.sender.Outbound <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

// ID returns this node's id.
func (n *Node) ID() domain.NodeID { return n.self }

// CurrentRole returns this node's latest elected role.
func (n *Node) CurrentRole() domain.Role { return n.role.CurrentRole() }

// CurrentStatus returns the most recent FSM status snapshot this node
// has produced. The zero value is returned before the FSM emits its
// first snapshot.
func (n *Node) CurrentStatus() domain.Status {
	n.statusMu.RLock()
	defer n.statusMu.RUnlock()
	return n.lastStatus
}

// PeerCount reports how many live peers this node currently sees.
func (n *Node) PeerCount() int {
	return len(n.table.Snapshot())
}

// applyRoleChanges keeps the role holder and Net Send's stamped role in
// sync with the Role Manager's latest election outcome (§4.3, §4.4).
func (n *Node) applyRoleChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case view := <-n.roles.Views:
			n.role.set(view.Role)
			n.sender.SetRole(view.Role)
			n.logger.Debug("role changed",
				slog.String("role", view.Role.String()),
				slog.Int("my_master", int(view.MyMaster)))
		}
	}
}

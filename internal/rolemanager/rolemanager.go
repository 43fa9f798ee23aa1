// Package rolemanager derives this node's role and current master from
// the peer table, implementing the election algorithm of §4.3.
package rolemanager

import (
	"context"
	"log/slog"
	"time"

	"github.com/liftctl/liftctl/internal/constants"
	"github.com/liftctl/liftctl/internal/domain"
	"github.com/liftctl/liftctl/internal/metrics"
	"github.com/liftctl/liftctl/internal/peertable"
)

// View is the published outcome of one election round: this node's
// role and the id it should direct hall calls / order acks to.
type View struct {
	Role     domain.Role
	MyMaster domain.NodeID
}

// Manager runs the election algorithm on a timer and whenever the peer
// table changes, publishing the result on Views.
type Manager struct {
	self   domain.NodeID
	table  *peertable.Table
	ttl    time.Duration
	period time.Duration

	Views chan View
}

// New builds a Manager for node self. period is the evaluation cadence
// (at least every 500ms per §4.3); ttl is the peer liveness window.
func New(self domain.NodeID, table *peertable.Table, period, ttl time.Duration) *Manager {
	return &Manager{
		self:   self,
		table:  table,
		ttl:    ttl,
		period: period,
		Views:  make(chan View, 1),
	}
}

// Run evaluates the election algorithm once at start, then every period
// and on every changed signal, until ctx is cancelled. A lone node with
// an empty peer table evaluates to MASTER on the first round.
func (m *Manager) Run(ctx context.Context, changed <-chan struct{}) {
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	m.evaluate()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evaluate()
		case <-changed:
			m.evaluate()
		}
	}
}

func (m *Manager) evaluate() {
	now := time.Now()
	m.table.Expire(now, m.ttl)
	peers := m.table.Snapshot()

	view := Evaluate(m.self, peers)
	metrics.SetRole(view.Role.String())

	select {
	case m.Views <- view:
	default:
		select {
		case <-m.Views:
		default:
		}
		m.Views <- view
	}

	slog.Debug("role evaluated",
		slog.String("component", constants.ComponentRoleManager),
		slog.String("role", view.Role.String()),
		slog.Int("my_master", int(view.MyMaster)),
	)
}

// Evaluate runs the pure election algorithm of §4.3 given this node's
// own id and a peer-table snapshot. The snapshot may contain self's own
// entry (Net Recv applies a node's own broadcast echoes, so in practice
// it usually does); a self entry is counted like any other peer.
func Evaluate(self domain.NodeID, peers []domain.PeerState) View {
	var masters, backups []domain.NodeID

	for _, p := range peers {
		switch p.Role {
		case domain.RoleMaster:
			masters = append(masters, p.NodeID)
		case domain.RoleMasterBackup:
			backups = append(backups, p.NodeID)
		}
	}

	if len(masters) == 0 {
		return View{Role: domain.RoleMaster, MyMaster: self}
	}

	minMaster := min(masters)

	if len(backups) == 0 {
		return View{Role: domain.RoleMasterBackup, MyMaster: minMaster}
	}

	return View{Role: domain.RoleSlave, MyMaster: minMaster}
}

func min(ids []domain.NodeID) domain.NodeID {
	m := ids[0]
	for _, id := range ids[1:] {
		if id < m {
			m = id
		}
	}
	return m
}

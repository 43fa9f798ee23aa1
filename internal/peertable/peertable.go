// Package peertable implements the one shared-mutable-state exception
// called out by the concurrency model: a keyed map of PeerState guarded
// by a short-held mutex, because it is read on every message received
// (§4.6, §5).
package peertable

import (
	"sync"
	"time"

	"github.com/liftctl/liftctl/internal/domain"
)

// Table is a concurrency-safe NodeId -> PeerState map. Every method
// holds the lock only across the map access itself; callers must never
// hold a reference into the table across a suspension point.
type Table struct {
	mu      sync.Mutex
	peers   map[domain.NodeID]domain.PeerState
	changed chan struct{}
}

// New returns an empty Table.
func New() *Table {
	return &Table{
		peers:   make(map[domain.NodeID]domain.PeerState),
		changed: make(chan struct{}, 1),
	}
}

// Changed reports when Upsert has added a new peer or Expire has removed
// one since the last read; an Upsert that only refreshes an existing
// entry does not signal. It is a coalescing signal, not a queue: a reader that
// drains it once has observed every change up to that point and should
// re-read the table with Snapshot rather than expect one notification
// per mutation (§4.3's Role Manager uses it to re-evaluate roughly as
// soon as a peer appears or disappears, instead of waiting for its
// ticker).
func (t *Table) Changed() <-chan struct{} {
	return t.changed
}

func (t *Table) notify() {
	select {
	case t.changed <- struct{}{}:
	default:
	}
}

// Upsert replaces the entry for id with a fresh PeerState, preserving
// only the most recent report as required by §3's "latest wins" rule.
func (t *Table) Upsert(id domain.NodeID, role domain.Role, status domain.Status, now time.Time) {
	t.mu.Lock()
	_, existed := t.peers[id]
	t.peers[id] = domain.PeerState{
		NodeID:   id,
		Role:     role,
		Status:   status,
		LastSeen: now.UnixNano(),
	}
	t.mu.Unlock()

	if !existed {
		t.notify()
	}
}

// Expire removes every entry that has not been refreshed within ttl of
// now, per §4.3's liveness rule.
func (t *Table) Expire(now time.Time, ttl time.Duration) {
	t.mu.Lock()
	cutoff := now.Add(-ttl).UnixNano()
	removed := false
	for id, peer := range t.peers {
		if peer.LastSeen < cutoff {
			delete(t.peers, id)
			removed = true
		}
	}
	t.mu.Unlock()

	if removed {
		t.notify()
	}
}

// Snapshot returns a copy of the current table contents, the view
// consumed by the Master Core and Role Manager (§4.6).
func (t *Table) Snapshot() []domain.PeerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.PeerState, 0, len(t.peers))
	for _, peer := range t.peers {
		out = append(out, peer)
	}
	return out
}

// Get returns the current entry for id, if present.
func (t *Table) Get(id domain.NodeID) (domain.PeerState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	peer, ok := t.peers[id]
	return peer, ok
}

// Len reports the number of live entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.peers)
}

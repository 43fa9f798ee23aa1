// Package hallqueue implements the hall-call queue as an owner-thread
// encapsulated set, reached only through its request/reply channels
// (§3, §4.2, §5) rather than a shared mutex.
package hallqueue

import (
	"context"

	"github.com/liftctl/liftctl/internal/domain"
)

type insertReq struct {
	order domain.Order
}

type deleteReq struct {
	order domain.Order
	done  chan bool // true if the order was present
}

type readReq struct {
	reply chan []domain.Order
}

// Queue is a set of domain.Order values owned by a single goroutine
// started by Run. All access goes through Insert/Delete/Read.
type Queue struct {
	insertCh chan insertReq
	deleteCh chan deleteReq
	readCh   chan readReq
}

// New constructs a Queue. Call Run in its own goroutine before using it.
func New() *Queue {
	return &Queue{
		insertCh: make(chan insertReq),
		deleteCh: make(chan deleteReq),
		readCh:   make(chan readReq),
	}
}

// Run is the owner loop; it must run in exactly one goroutine for the
// lifetime of the Queue.
func (q *Queue) Run(ctx context.Context) {
	orders := make(map[domain.Order]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-q.insertCh:
			orders[req.order] = struct{}{}
		case req := <-q.deleteCh:
			_, present := orders[req.order]
			delete(orders, req.order)
			if req.done != nil {
				req.done <- present
			}
		case req := <-q.readCh:
			snapshot := make([]domain.Order, 0, len(orders))
			for o := range orders {
				snapshot = append(snapshot, o)
			}
			req.reply <- snapshot
		}
	}
}

// Insert adds order to the queue. Idempotent: a duplicate insert is a
// no-op by set semantics (§4.1's ORDER_ACK idempotence relies on this
// same property in the destination set; the hall queue mirrors it).
func (q *Queue) Insert(ctx context.Context, order domain.Order) {
	select {
	case q.insertCh <- insertReq{order: order}:
	case <-ctx.Done():
	}
}

// Delete removes order, reporting whether it was present. A missing
// order (duplicate ACK) is reported but is not an error (§7).
func (q *Queue) Delete(ctx context.Context, order domain.Order) bool {
	done := make(chan bool, 1)
	select {
	case q.deleteCh <- deleteReq{order: order, done: done}:
	case <-ctx.Done():
		return false
	}
	select {
	case present := <-done:
		return present
	case <-ctx.Done():
		return false
	}
}

// Read returns a snapshot of the current queue contents.
func (q *Queue) Read(ctx context.Context) []domain.Order {
	reply := make(chan []domain.Order, 1)
	select {
	case q.readCh <- readReq{reply: reply}:
	case <-ctx.Done():
		return nil
	}
	select {
	case orders := <-reply:
		return orders
	case <-ctx.Done():
		return nil
	}
}

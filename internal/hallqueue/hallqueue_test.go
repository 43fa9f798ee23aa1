package hallqueue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/liftctl/liftctl/internal/domain"
)

func startQueue(t *testing.T) (*Queue, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	q := New()
	go q.Run(ctx)
	return q, cancel
}

func TestQueue_InsertAndRead(t *testing.T) {
	ctx := context.Background()
	q, cancel := startQueue(t)
	defer cancel()

	order := domain.Order{Floor: domain.NewFloor(3), Direction: domain.HallDown}
	q.Insert(ctx, order)

	assert.Eventually(t, func() bool {
		return len(q.Read(ctx)) == 1
	}, time.Second, time.Millisecond)
}

func TestQueue_InsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	q, cancel := startQueue(t)
	defer cancel()

	order := domain.Order{Floor: domain.NewFloor(1), Direction: domain.HallUp}
	q.Insert(ctx, order)
	q.Insert(ctx, order)
	q.Insert(ctx, order)

	assert.Eventually(t, func() bool {
		return len(q.Read(ctx)) == 1
	}, time.Second, time.Millisecond)
}

func TestQueue_DeleteReportsPresence(t *testing.T) {
	ctx := context.Background()
	q, cancel := startQueue(t)
	defer cancel()

	order := domain.Order{Floor: domain.NewFloor(2), Direction: domain.HallUp}
	q.Insert(ctx, order)

	time.Sleep(10 * time.Millisecond)
	assert.True(t, q.Delete(ctx, order))
	assert.False(t, q.Delete(ctx, order), "deleting an already-removed order is a duplicate ack, not an error")
}

package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liftctl/liftctl/internal/domain"
)

func ordersOf(fs ...domain.Order) map[domain.Order]struct{} {
	m := make(map[domain.Order]struct{}, len(fs))
	for _, f := range fs {
		m[f] = struct{}{}
	}
	return m
}

func TestFarthest_EmptySetReturnsCurrentFloor(t *testing.T) {
	f := domain.NewFloor(2)
	assert.Equal(t, f, farthest(ordersOf(), domain.MotorUp, f))
}

func TestFarthest_UpReturnsMax(t *testing.T) {
	d := ordersOf(
		domain.Order{Floor: domain.NewFloor(2), Direction: domain.HallUp},
		domain.Order{Floor: domain.NewFloor(3), Direction: domain.HallUp},
	)
	assert.Equal(t, domain.NewFloor(3), farthest(d, domain.MotorUp, domain.NewFloor(1)))
}

func TestFarthest_DownReturnsMin(t *testing.T) {
	d := ordersOf(
		domain.Order{Floor: domain.NewFloor(0), Direction: domain.HallDown},
		domain.Order{Floor: domain.NewFloor(1), Direction: domain.HallDown},
	)
	assert.Equal(t, domain.NewFloor(0), farthest(d, domain.MotorDown, domain.NewFloor(3)))
}

func TestHeading(t *testing.T) {
	assert.Equal(t, domain.MotorUp, heading(domain.MotorUp, domain.NewFloor(1), domain.NewFloor(3)))
	assert.Equal(t, domain.MotorStop, heading(domain.MotorUp, domain.NewFloor(3), domain.NewFloor(3)))
	assert.Equal(t, domain.MotorDown, heading(domain.MotorDown, domain.NewFloor(2), domain.NewFloor(0)))
	assert.Equal(t, domain.MotorStop, heading(domain.MotorStop, domain.NewFloor(1), domain.NewFloor(1)))
}

func TestStopOrders_MatchesDirectionOrTarget(t *testing.T) {
	d := ordersOf(domain.Order{Floor: domain.NewFloor(3), Direction: domain.HallUp})
	matches := stopOrders(d, domain.NewFloor(3), domain.NewFloor(3), domain.MotorUp)
	assert.Len(t, matches, 1)
}

func TestStopOrders_NoMatchWhenDirectionDiffersAndNotTarget(t *testing.T) {
	d := ordersOf(domain.Order{Floor: domain.NewFloor(2), Direction: domain.HallDown})
	matches := stopOrders(d, domain.NewFloor(2), domain.NewFloor(5), domain.MotorUp)
	assert.Empty(t, matches)
}

func TestLightsToClear_HeadingStopClearsBoth(t *testing.T) {
	up, down := lightsToClear(domain.NewFloor(2), 4, domain.MotorStop)
	assert.True(t, up)
	assert.True(t, down)
}

func TestLightsToClear_TopFloorAlwaysClearsDown(t *testing.T) {
	_, down := lightsToClear(domain.NewFloor(3), 4, domain.MotorUp)
	assert.True(t, down)
}

func TestLightsToClear_BottomFloorAlwaysClearsUp(t *testing.T) {
	up, _ := lightsToClear(domain.NewFloor(0), 4, domain.MotorDown)
	assert.True(t, up)
}

func TestStartupHeading(t *testing.T) {
	d := ordersOf(domain.Order{Floor: domain.NewFloor(3), Direction: domain.HallUp})
	assert.Equal(t, domain.MotorUp, startupHeading(d, domain.NewFloor(1)))

	d2 := ordersOf(domain.Order{Floor: domain.NewFloor(0), Direction: domain.HallDown})
	assert.Equal(t, domain.MotorDown, startupHeading(d2, domain.NewFloor(1)))

	assert.Equal(t, domain.MotorStop, startupHeading(ordersOf(), domain.NewFloor(1)))
}

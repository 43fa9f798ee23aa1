package fsm

import "github.com/liftctl/liftctl/internal/domain"

// farthest returns the destination that bounds travel in the current
// direction m: the max destination floor for UP, the min for DOWN, and
// f itself for STOP or an empty set (§4.1 step 2).
func farthest(destinations map[domain.Order]struct{}, m domain.MotorDirection, f domain.Floor) domain.Floor {
	if len(destinations) == 0 {
		return f
	}

	switch m {
	case domain.MotorUp:
		best := f
		first := true
		for o := range destinations {
			if first || o.Floor.IsAbove(best) {
				best = o.Floor
				first = false
			}
		}
		return best
	case domain.MotorDown:
		best := f
		first := true
		for o := range destinations {
			if first || o.Floor.IsBelow(best) {
				best = o.Floor
				first = false
			}
		}
		return best
	default:
		return f
	}
}

// stopOrders returns every destination at floor f that matches the
// should_stop predicate of §4.1 step 3: its hall direction matches the
// current motor direction, or f is the journey's target floor.
func stopOrders(destinations map[domain.Order]struct{}, f, target domain.Floor, m domain.MotorDirection) []domain.Order {
	var matches []domain.Order
	for o := range destinations {
		if !o.Floor.IsEqual(f) {
			continue
		}
		if domain.HallToMotor(o.Direction) == m || f.IsEqual(target) {
			matches = append(matches, o)
		}
	}
	return matches
}

// heading computes the next motor command given the current direction,
// current floor and journey target (§4.1 step 4).
func heading(m domain.MotorDirection, f, target domain.Floor) domain.MotorDirection {
	switch {
	case m == domain.MotorUp && f.IsBelow(target):
		return domain.MotorUp
	case m == domain.MotorDown && f.IsAbove(target):
		return domain.MotorDown
	default:
		return domain.MotorStop
	}
}

// lightsToClear reports which indicator lights at floor f should be
// turned off after a stop that resolves to heading h (§4.1's lights
// rule). The cab light at f is always cleared by the caller in
// addition to whichever hall lights this returns.
func lightsToClear(f domain.Floor, numFloors int, h domain.MotorDirection) (clearUp, clearDown bool) {
	topFloor := domain.NewFloor(numFloors - 1)
	clearDown = h == domain.MotorDown || f.IsEqual(topFloor) || h == domain.MotorStop
	clearUp = h == domain.MotorUp || f.IsEqual(domain.NewFloor(0)) || h == domain.MotorStop
	return clearUp, clearDown
}

// startupHeading picks a direction to nudge into when idle and a tick
// fires with pending destinations (§4.1's startup nudge).
func startupHeading(destinations map[domain.Order]struct{}, last domain.Floor) domain.MotorDirection {
	hasAbove, hasBelow := false, false
	for o := range destinations {
		if o.Floor.IsAbove(last) {
			hasAbove = true
		}
		if o.Floor.IsBelow(last) {
			hasBelow = true
		}
	}
	switch {
	case hasAbove:
		return domain.MotorUp
	case hasBelow:
		return domain.MotorDown
	default:
		return domain.MotorStop
	}
}

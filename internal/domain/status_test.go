package domain

import "testing"

func TestUnknownStatus(t *testing.T) {
	s := UnknownStatus()

	if s.HasKnownFloor() {
		t.Errorf("UnknownStatus() should not have a known floor")
	}
	if s.MotorDirection != MotorStop {
		t.Errorf("UnknownStatus() motor direction = %v, want MotorStop", s.MotorDirection)
	}
	if !s.IsIdle() {
		t.Errorf("UnknownStatus() should be idle")
	}
}

func TestStatus_HasKnownFloor(t *testing.T) {
	s := Status{LastFloor: NewFloor(2)}
	if !s.HasKnownFloor() {
		t.Errorf("status at floor 2 should have a known floor")
	}
}

func TestStatus_IsIdle(t *testing.T) {
	target := NewFloor(3)
	s := Status{LastFloor: NewFloor(1), TargetFloor: &target}
	if s.IsIdle() {
		t.Errorf("status with a target floor should not be idle")
	}
}

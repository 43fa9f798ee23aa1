package domain

import "testing"

func TestHallDirection_String(t *testing.T) {
	tests := []struct {
		name string
		d    HallDirection
		want string
	}{
		{"up", HallUp, "up"},
		{"down", HallDown, "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.String(); got != tt.want {
				t.Errorf("HallDirection.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMotorDirection_ToWire(t *testing.T) {
	tests := []struct {
		name string
		d    MotorDirection
		want uint8
	}{
		{"up", MotorUp, 0},
		{"stop", MotorStop, 0},
		{"down", MotorDown, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.ToWire(); got != tt.want {
				t.Errorf("MotorDirection.ToWire() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHallToMotor(t *testing.T) {
	if HallToMotor(HallUp) != MotorUp {
		t.Errorf("HallToMotor(HallUp) should be MotorUp")
	}
	if HallToMotor(HallDown) != MotorDown {
		t.Errorf("HallToMotor(HallDown) should be MotorDown")
	}
}

func TestMotorToHall(t *testing.T) {
	if MotorToHall(MotorUp) != HallUp {
		t.Errorf("MotorToHall(MotorUp) should be HallUp")
	}
	if MotorToHall(MotorDown) != HallDown {
		t.Errorf("MotorToHall(MotorDown) should be HallDown")
	}
}

func TestDirectionRoundTrip(t *testing.T) {
	for _, hd := range []HallDirection{HallUp, HallDown} {
		if got := MotorToHall(HallToMotor(hd)); got != hd {
			t.Errorf("round trip through motor direction changed %v into %v", hd, got)
		}
	}
}

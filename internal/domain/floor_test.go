package domain

import "testing"

func TestNewFloorValidated(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		numFloors int
		wantErr   bool
	}{
		{"lowest floor valid", 0, 4, false},
		{"highest floor valid", 3, 4, false},
		{"negative rejected", -1, 4, true},
		{"at num floors rejected", 4, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFloorValidated(tt.value, tt.numFloors)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFloorValidated(%d, %d) error = %v, wantErr %v", tt.value, tt.numFloors, err, tt.wantErr)
			}
		})
	}
}

func TestFloor_Comparisons(t *testing.T) {
	a := NewFloor(1)
	b := NewFloor(3)

	if !b.IsAbove(a) {
		t.Errorf("expected %v above %v", b, a)
	}
	if !a.IsBelow(b) {
		t.Errorf("expected %v below %v", a, b)
	}
	if !a.IsEqual(NewFloor(1)) {
		t.Errorf("expected floor 1 equal to floor 1")
	}
	if got := a.Distance(b); got != 2 {
		t.Errorf("Distance() = %d, want 2", got)
	}
	if got := b.Distance(a); got != 2 {
		t.Errorf("Distance() should be symmetric, got %d", got)
	}
}

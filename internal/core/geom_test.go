package core

import "testing"

func TestCoordAdjacent(t *testing.T) {
	tests := []struct {
		name string
		a, b Coord
		want bool
	}{
		{"right neighbour", C(1, 1), C(2, 1), true},
		{"upper neighbour", C(1, 1), C(1, 2), true},
		{"diagonal", C(1, 1), C(2, 2), false},
		{"same cell", C(1, 1), C(1, 1), false},
		{"two apart", C(0, 0), C(2, 0), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Adjacent(tc.b); got != tc.want {
				t.Errorf("%v.Adjacent(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestCoordStepToward(t *testing.T) {
	tests := []struct {
		from, to, want Coord
	}{
		{C(0, 7), C(3, 0), C(1, 6)},
		{C(7, 7), C(4, 0), C(6, 6)},
		{C(3, 3), C(3, 0), C(3, 2)},
		{C(3, 0), C(3, 0), C(3, 0)},
	}
	for _, tc := range tests {
		if got := tc.from.StepToward(tc.to); got != tc.want {
			t.Errorf("%v.StepToward(%v) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCoordString(t *testing.T) {
	if got := C(2, 4).String(); got != "(2,4)" {
		t.Errorf("String() = %q, want (2,4)", got)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(2, 3, 4, 2)
	if !r.Contains(2, 3) || !r.Contains(5, 4) {
		t.Error("corners inside the rect should be contained")
	}
	if r.Contains(6, 3) || r.Contains(2, 5) {
		t.Error("right and bottom edges are exclusive")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ v, lo, hi, want int }{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{42, 0, 10, 10},
	}
	for _, tc := range tests {
		if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}

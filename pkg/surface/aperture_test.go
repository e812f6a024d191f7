package surface

import "testing"

func TestApertureShape_Test(t *testing.T) {
	tests := []struct {
		name    string
		shape   ApertureShape
		x, y    float64
		wantOK  bool
	}{
		{"circular inside", NewCircularAperture(5), 3, 4, true}, // r=5 boundary
		{"circular outside", NewCircularAperture(5), 3, 4.1, false},
		{"square inside", NewSquareAperture(10), 4.9, -4.9, true},
		{"square outside", NewSquareAperture(10), 5.1, 0, false},
		{"rectangular inside", NewRectangularAperture(10, 4), 4.9, 1.9, true},
		{"rectangular outside y", NewRectangularAperture(10, 4), 1, 2.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _, _, _ := tt.shape.Test(tt.x, tt.y)
			if ok != tt.wantOK {
				t.Errorf("Test(%v,%v) = %v, want %v", tt.x, tt.y, ok, tt.wantOK)
			}
		})
	}
}

func TestApertureShape_Limit(t *testing.T) {
	if got := NewCircularAperture(5).Limit(); got != 5 {
		t.Errorf("Circular limit = %v, want 5", got)
	}
	if got := NewSquareAperture(10).Limit(); got != 5 {
		t.Errorf("Square limit = %v, want 5", got)
	}
	if got := NewRectangularAperture(10, 4).Limit(); got != 5 {
		t.Errorf("Rectangular limit = %v, want 5", got)
	}
}

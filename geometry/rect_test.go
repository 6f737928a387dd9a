package geometry

import "testing"

func TestCalculateBounds(t *testing.T) {
	tests := []struct {
		name   string
		outer  Rect
		offset Offset
		want   Rect
	}{
		{
			name:   "top inset only",
			outer:  Rect{Width: 800, Height: 600},
			offset: Offset{Top: 40},
			want:   Rect{X: 0, Y: 40, Width: 800, Height: 560},
		},
		{
			name:   "all insets",
			outer:  Rect{X: 100, Y: 50, Width: 1280, Height: 800},
			offset: Offset{Top: 80, Bottom: 20, Left: 200, Right: 10},
			want:   Rect{X: 200, Y: 80, Width: 1070, Height: 700},
		},
		{
			name:   "left and right both subtracted",
			outer:  Rect{Width: 500, Height: 500},
			offset: Offset{Left: 50, Right: 25},
			want:   Rect{X: 50, Y: 0, Width: 425, Height: 500},
		},
		{
			name:   "degenerate offset is not clamped",
			outer:  Rect{Width: 100, Height: 100},
			offset: Offset{Top: 80, Bottom: 80, Left: 60, Right: 60},
			want:   Rect{X: 60, Y: 80, Width: -20, Height: -60},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outer, offset := tt.outer, tt.offset
			got := CalculateBounds(outer, offset)
			if got != tt.want {
				t.Errorf("CalculateBounds() = %v, want %v", got, tt.want)
			}
			if outer != tt.outer || offset != tt.offset {
				t.Error("CalculateBounds() mutated its inputs")
			}
		})
	}
}

func TestRectEmpty(t *testing.T) {
	if !(Rect{Width: 0, Height: 10}).Empty() {
		t.Error("zero width rect should be empty")
	}
	if !(Rect{Width: -5, Height: 10}).Empty() {
		t.Error("negative width rect should be empty")
	}
	if (Rect{Width: 1, Height: 1}).Empty() {
		t.Error("1x1 rect should not be empty")
	}
}

func TestOffsetTotals(t *testing.T) {
	o := Offset{Top: 1, Bottom: 2, Left: 3, Right: 4}
	if got := o.Horizontal(); got != 7 {
		t.Errorf("Horizontal() = %d, want 7", got)
	}
	if got := o.Vertical(); got != 3 {
		t.Errorf("Vertical() = %d, want 3", got)
	}
}

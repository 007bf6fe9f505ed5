package pdf

import "testing"

var a4 = Frame{Width: 210, Height: 297, Margin: 20}

func TestFrame_Reserve(t *testing.T) {
	tests := []struct {
		name      string
		y         float64
		h         float64
		wantBreak bool
	}{
		{"fits", 100, 10, false},
		{"exactly at bottom", 267, 10, false},
		{"crosses bottom", 268, 10, true},
		{"already past bottom", 280, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cursor{Y: tt.y, Page: 3}
			got, broke := a4.Reserve(c, tt.h)
			if broke != tt.wantBreak {
				t.Fatalf("expected break=%v, got %v", tt.wantBreak, broke)
			}
			if broke {
				if got.Page != 4 || got.Y != a4.Margin {
					t.Errorf("expected top of page 4, got %+v", got)
				}
				return
			}
			if got != c {
				t.Errorf("expected cursor unchanged, got %+v", got)
			}
		})
	}
}

func TestCursor_Advance(t *testing.T) {
	c := Cursor{Y: 20, Page: 1}
	next := c.Advance(7)
	if next.Y != 27 || next.Page != 1 {
		t.Errorf("expected {27 1}, got %+v", next)
	}
	if c.Y != 20 {
		t.Error("expected Advance not to modify the receiver")
	}
}

func TestFrame_Geometry(t *testing.T) {
	if a4.Bottom() != 277 {
		t.Errorf("expected bottom 277, got %v", a4.Bottom())
	}
	if a4.PrintableWidth() != 170 {
		t.Errorf("expected printable width 170, got %v", a4.PrintableWidth())
	}
}

package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestGrid_Draw(t *testing.T) {
	src := imaging.New(40, 40, color.Black)

	tests := []struct {
		name  string
		color string
		wantR int
	}{
		{"opaque", "#FF0000", 255},
		{"translucent", "#FF000080", 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Grid{Spacing: 10, Color: tt.color}.Draw(src)
			if err != nil {
				t.Fatalf("Draw failed: %v", err)
			}

			if got := nrgbaAt(out, 10, 5); absDiff(int(got.R), tt.wantR) > 1 || got.G != 0 {
				t.Errorf("vertical line at (10,5): got %v, want R %d", got, tt.wantR)
			}
			if got := nrgbaAt(out, 5, 30); absDiff(int(got.R), tt.wantR) > 1 {
				t.Errorf("horizontal line at (5,30): got %v, want R %d", got, tt.wantR)
			}
			if got := nrgbaAt(out, 5, 5); got.R != 0 {
				t.Errorf("cell interior at (5,5): got %v, want black", got)
			}
		})
	}

	// The source must not be modified
	if got := nrgbaAt(src, 10, 5); got.R != 0 {
		t.Errorf("source modified: got %v", got)
	}
}

func TestGrid_Labels(t *testing.T) {
	out, err := Grid{Spacing: 20, Labels: true}.Draw(imaging.New(60, 60, color.Black))
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	white := 0
	for y := 22; y < 36; y++ {
		for x := 22; x < 60; x++ {
			if c := nrgbaAt(out, x, y); c.R > 200 && c.G > 200 && c.B > 200 {
				white++
			}
		}
	}
	if white == 0 {
		t.Error("no label text drawn next to (20,20)")
	}
}

func TestGrid_Errors(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))

	tests := []struct {
		name string
		grid Grid
	}{
		{"zero spacing", Grid{Spacing: 0}},
		{"negative spacing", Grid{Spacing: -5}},
		{"bad colour", Grid{Spacing: 5, Color: "red"}},
		{"bad alpha", Grid{Spacing: 5, Color: "#FF0000ZZ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.grid.Draw(src); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

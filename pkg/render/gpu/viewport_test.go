package gpu

import (
	"math"
	"testing"
)

func TestLetterbox(t *testing.T) {
	sizes := []struct {
		name string
		w, h int
	}{
		{"Exact", 1600, 900},
		{"Wide", 2000, 500},
		{"Tall", 400, 1200},
		{"Square", 800, 800},
		{"OnePixel", 1, 1},
		{"Zero", 0, 0},
		{"VeryWide", 100000, 3},
		{"VeryTall", 3, 100000},
	}
	for _, tt := range sizes {
		t.Run(tt.name, func(t *testing.T) {
			v := Letterbox(tt.w, tt.h)
			if got := v.Width / v.Height; math.Abs(got-16.0/9.0) > 1e-9 {
				t.Errorf("aspect = %v, want 16:9", got)
			}
			w, h := math.Max(1, float64(tt.w)), math.Max(1, float64(tt.h))
			if math.Abs(2*v.X+v.Width-w) > 1e-9 {
				t.Errorf("not centered horizontally: %+v in %vx%v", v, w, h)
			}
			if math.Abs(2*v.Y+v.Height-h) > 1e-9 {
				t.Errorf("not centered vertically: %+v in %vx%v", v, w, h)
			}
			if v.Width < w-1e-9 || v.Height < h-1e-9 {
				t.Errorf("viewport %+v does not cover %vx%v", v, w, h)
			}
		})
	}
}

func TestLetterboxRectWithinOnePixel(t *testing.T) {
	sizes := [][2]int{{1, 1}, {0, 0}, {3, 2}, {7, 5}, {1601, 899}, {1366, 768}, {1023, 1025}, {100000, 3}, {3, 100000}}
	for _, sz := range sizes {
		x, y, w, h := Letterbox(sz[0], sz[1]).Rect()
		if w < 1 || h < 1 {
			t.Errorf("%dx%d: Rect() = %dx%d, want positive", sz[0], sz[1], w, h)
			continue
		}
		if d := math.Abs(float64(h)*16/9 - float64(w)); d > 1 {
			t.Errorf("%dx%d: width %d is %.2f px off 16:9 for height %d", sz[0], sz[1], w, d, h)
		}
		if d := math.Abs(float64(w)*9/16 - float64(h)); d > 1 {
			t.Errorf("%dx%d: height %d is %.2f px off 16:9 for width %d", sz[0], sz[1], h, d, w)
		}
		if x > 0 && y > 0 {
			t.Errorf("%dx%d: Rect() offset on both axes (%d, %d)", sz[0], sz[1], x, y)
		}
	}
}

func TestLetterboxAxes(t *testing.T) {
	wide := Letterbox(2000, 500)
	if wide.X != 0 || wide.Width != 2000 || wide.Height != 1125 || wide.Y != -312.5 {
		t.Errorf("wide = %+v", wide)
	}
	tall := Letterbox(400, 1200)
	if tall.Y != 0 || tall.Height != 1200 || math.Abs(tall.Width-1200.0/9*16) > 1e-9 {
		t.Errorf("tall = %+v", tall)
	}
	x, y, w, h := Letterbox(1600, 900).Rect()
	if x != 0 || y != 0 || w != 1600 || h != 900 {
		t.Errorf("Rect() = %d %d %d %d", x, y, w, h)
	}
}

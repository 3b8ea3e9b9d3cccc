// seehuhn.de/go/fpdamage - synthetic damage for fingerprint images
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package raster

import (
	"image"
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

func painted(img *image.Gray, value uint8) []image.Point {
	var res []image.Point
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y == value {
				res = append(res, image.Pt(x, y))
			}
		}
	}
	return res
}

func TestDiscSmall(t *testing.T) {
	tests := []struct {
		radius int
		want   int
	}{
		{0, 1},
		{1, 9},
		{2, 21},
	}
	p := NewPainter()
	for _, tc := range tests {
		img := image.NewGray(image.Rect(0, 0, 9, 9))
		p.Disc(img, image.Pt(4, 4), tc.radius, 255)
		if got := len(painted(img, 255)); got != tc.want {
			t.Errorf("radius %d: %d pixels, want %d", tc.radius, got, tc.want)
		}
	}
}

func TestDiscLarge(t *testing.T) {
	p := NewPainter()
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	c := image.Pt(20, 20)
	for _, radius := range []int{3, 5, 12} {
		clear(img.Pix)
		p.Disc(img, c, radius, 200)
		pix := painted(img, 200)

		want := math.Pi * (float64(radius) + 0.5) * (float64(radius) + 0.5)
		if got := float64(len(pix)); math.Abs(got-want) > 0.15*want {
			t.Errorf("radius %d: %v pixels, want about %.0f", radius, got, want)
		}
		for _, q := range pix {
			dx, dy := float64(q.X-c.X), float64(q.Y-c.Y)
			if math.Hypot(dx, dy) > float64(radius)+1 {
				t.Errorf("radius %d: pixel %v too far from centre", radius, q)
			}
		}
		if img.GrayAt(c.X, c.Y).Y != 200 {
			t.Errorf("radius %d: centre not painted", radius)
		}
	}
}

func TestDiscClipped(t *testing.T) {
	p := NewPainter()
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	p.Disc(img, image.Pt(0, 0), 6, 255)
	p.Disc(img, image.Pt(-20, -20), 6, 255)
	if img.GrayAt(0, 0).Y != 255 || img.GrayAt(3, 3).Y != 255 {
		t.Error("clipped disc not painted")
	}
	if img.GrayAt(9, 9).Y != 0 {
		t.Error("disc painted outside its radius")
	}
}

func TestLine(t *testing.T) {
	p := NewPainter()
	img := image.NewGray(image.Rect(0, 0, 30, 20))
	p.Line(img, image.Pt(5, 10), image.Pt(20, 10), 3, 255)

	for x := 5; x <= 20; x++ {
		for y := 9; y <= 11; y++ {
			if img.GrayAt(x, y).Y != 255 {
				t.Errorf("pixel (%d,%d) not painted", x, y)
			}
		}
		if img.GrayAt(x, 8).Y != 0 || img.GrayAt(x, 12).Y != 0 {
			t.Errorf("column %d painted outside the pen", x)
		}
	}
}

func TestStrokeCaps(t *testing.T) {
	for _, tc := range []struct {
		style   graphics.LineCapStyle
		on, off image.Point
	}{
		{graphics.LineCapButt, image.Pt(11, 10), image.Pt(9, 10)},
		{graphics.LineCapSquare, image.Pt(8, 10), image.Pt(6, 10)},
		{graphics.LineCapRound, image.Pt(8, 10), image.Pt(6, 10)},
	} {
		img := image.NewGray(image.Rect(0, 0, 40, 20))
		pen := Pen{Width: 6, Cap: tc.style, Join: graphics.LineJoinRound}
		NewPainter().Stroke(img, []image.Point{{10, 10}, {30, 10}}, pen, 255)
		if img.GrayAt(tc.on.X, tc.on.Y).Y != 255 {
			t.Errorf("cap %v: pixel %v not painted", tc.style, tc.on)
		}
		if img.GrayAt(tc.off.X, tc.off.Y).Y != 0 {
			t.Errorf("cap %v: pixel %v painted", tc.style, tc.off)
		}
	}
}

// TestStrokeJoins checks the outer corner of a right angle turn.
func TestStrokeJoins(t *testing.T) {
	corner := image.Pt(33, 33)
	for _, tc := range []struct {
		join graphics.LineJoinStyle
		want uint8
	}{
		{graphics.LineJoinMiter, 255},
		{graphics.LineJoinBevel, 0},
	} {
		img := image.NewGray(image.Rect(0, 0, 40, 40))
		pen := Pen{Width: 8, Cap: graphics.LineCapButt, Join: tc.join}
		NewPainter().Stroke(img, []image.Point{{10, 30}, {30, 30}, {30, 10}}, pen, 255)
		if got := img.GrayAt(corner.X, corner.Y).Y; got != tc.want {
			t.Errorf("join %v: corner pixel %d, want %d", tc.join, got, tc.want)
		}
		if img.GrayAt(20, 30).Y != 255 || img.GrayAt(30, 20).Y != 255 {
			t.Errorf("join %v: segments not painted", tc.join)
		}
	}
}

func TestPolylineWidthOne(t *testing.T) {
	p := NewPainter()
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	p.Polyline(img, []image.Point{{1, 1}, {15, 9}}, 1, 255)
	checkConnected(t, img, image.Pt(1, 1), image.Pt(15, 9))
}

func TestHairline(t *testing.T) {
	p := NewPainter()
	img := image.NewGray(image.Rect(0, 0, 50, 50))
	pts := []image.Point{{2, 40}, {10, 3}, {10, 3}, {47, 30}}
	p.Hairline(img, pts, 190)
	for _, q := range pts {
		if img.GrayAt(q.X, q.Y).Y != 190 {
			t.Errorf("vertex %v not painted", q)
		}
	}
	checkConnected(t, img, pts[0], pts[len(pts)-1])
}

// checkConnected verifies that to is reachable from from through
// 8-connected nonzero pixels.
func checkConnected(t *testing.T, img *image.Gray, from, to image.Point) {
	t.Helper()
	seen := map[image.Point]bool{from: true}
	stack := []image.Point{from}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := image.Pt(q.X+dx, q.Y+dy)
				if !n.In(img.Rect) || seen[n] || img.GrayAt(n.X, n.Y).Y == 0 {
					continue
				}
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	if !seen[to] {
		t.Errorf("%v not connected to %v", to, from)
	}
}

func TestRing(t *testing.T) {
	p := NewPainter()
	img := image.NewGray(image.Rect(0, 0, 60, 60))
	c := vec.Vec2{X: 30, Y: 30}
	p.Ring(img, c, 10, 20, 255)

	got := float64(len(painted(img, 255)))
	want := math.Pi * (400 - 100)
	if math.Abs(got-want) > 0.05*want {
		t.Errorf("ring has %v pixels, want about %.0f", got, want)
	}
	if img.GrayAt(30, 30).Y != 0 {
		t.Error("ring interior painted")
	}
	if img.GrayAt(45, 30).Y != 255 {
		t.Error("ring body not painted")
	}
}

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
	"math"
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

func polygon(pts ...vec.Vec2) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if !yield(path.CmdMoveTo, pts[:1]) {
			return
		}
		for i := 1; i < len(pts); i++ {
			if !yield(path.CmdLineTo, pts[i:i+1]) {
				return
			}
		}
		yield(path.CmdClose, nil)
	}
}

func openPath(pts ...vec.Vec2) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if !yield(path.CmdMoveTo, pts[:1]) {
			return
		}
		for i := 1; i < len(pts); i++ {
			if !yield(path.CmdLineTo, pts[i:i+1]) {
				return
			}
		}
	}
}

// approaches runs fn once with 2D buffers and once with the active edge
// list.
func approaches(t *testing.T, clip rect.Rect, fn func(t *testing.T, r *Rasteriser)) {
	t.Helper()
	for _, tc := range []struct {
		name      string
		threshold int
	}{
		{"small", math.MaxInt},
		{"large", 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRasteriser(clip)
			r.smallPathThreshold = tc.threshold
			fn(t, r)
		})
	}
}

// grid returns a coverage grid and an emit callback which accumulates
// into it.
func grid(w, h int) ([][]float32, func(y, xMin int, coverage []float32)) {
	g := make([][]float32, h)
	for i := range g {
		g[i] = make([]float32, w)
	}
	return g, func(y, xMin int, coverage []float32) {
		for i, c := range coverage {
			g[y][xMin+i] += c
		}
	}
}

func total(g [][]float32) float64 {
	var sum float64
	for _, row := range g {
		for _, c := range row {
			sum += float64(c)
		}
	}
	return sum
}

// TestTriangleCoverage checks exact coverage values for the triangle
// (0,0)→(10,0)→(10,1), whose diagonal edge is y = x/10.  Pixel x has
// coverage (2x+1)/20.
func TestTriangleCoverage(t *testing.T) {
	clip := rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 1}
	approaches(t, clip, func(t *testing.T, r *Rasteriser) {
		g, emit := grid(10, 1)
		r.Fill(polygon(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 0}, vec.Vec2{X: 10, Y: 1}), emit)
		for x := range 10 {
			want := float32(2*x+1) / 20
			if math.Abs(float64(g[0][x]-want)) > 1e-6 {
				t.Errorf("pixel %d: coverage %.4f, want %.4f", x, g[0][x], want)
			}
		}
	})
}

func TestFillArea(t *testing.T) {
	clip := rect.Rect{LLx: 0, LLy: 0, URx: 64, URy: 64}
	tests := []struct {
		name string
		path path.Path
		area float64
		tol  float64
	}{
		{
			name: "square",
			path: polygon(vec.Vec2{X: 10.25, Y: 10.25}, vec.Vec2{X: 30.25, Y: 10.25},
				vec.Vec2{X: 30.25, Y: 30.25}, vec.Vec2{X: 10.25, Y: 30.25}),
			area: 400,
			tol:  1e-3,
		},
		{
			name: "circle",
			path: circlePath(vec.Vec2{X: 32, Y: 32}, 20, false),
			area: math.Pi * 400,
			tol:  2,
		},
		{
			name: "clipped square",
			path: polygon(vec.Vec2{X: -10, Y: -10}, vec.Vec2{X: 10, Y: -10},
				vec.Vec2{X: 10, Y: 10}, vec.Vec2{X: -10, Y: 10}),
			area: 100,
			tol:  1e-3,
		},
		{
			name: "annulus",
			path: func(yield func(path.Command, []vec.Vec2) bool) {
				for cmd, pts := range circlePath(vec.Vec2{X: 32, Y: 32}, 20, false) {
					if !yield(cmd, pts) {
						return
					}
				}
				for cmd, pts := range circlePath(vec.Vec2{X: 32, Y: 32}, 10, true) {
					if !yield(cmd, pts) {
						return
					}
				}
			},
			area: math.Pi * 300,
			tol:  2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			approaches(t, clip, func(t *testing.T, r *Rasteriser) {
				r.Flatness = 0.01
				g, emit := grid(64, 64)
				r.Fill(tc.path, emit)
				if got := total(g); math.Abs(got-tc.area) > tc.tol {
					t.Errorf("area = %.3f, want %.3f", got, tc.area)
				}
			})
		})
	}
}

func TestStrokeArea(t *testing.T) {
	clip := rect.Rect{LLx: 0, LLy: 0, URx: 40, URy: 20}
	tests := []struct {
		name string
		path path.Path
		cap  graphics.LineCapStyle
		join graphics.LineJoinStyle
		area float64
		tol  float64
	}{
		{
			name: "butt",
			path: openPath(vec.Vec2{X: 2, Y: 5}, vec.Vec2{X: 20, Y: 5}),
			cap:  graphics.LineCapButt,
			area: 18 * 4,
			tol:  1e-3,
		},
		{
			name: "square",
			path: openPath(vec.Vec2{X: 4, Y: 5}, vec.Vec2{X: 20, Y: 5}),
			cap:  graphics.LineCapSquare,
			area: 20 * 4,
			tol:  1e-3,
		},
		{
			name: "round",
			path: openPath(vec.Vec2{X: 4, Y: 5}, vec.Vec2{X: 20, Y: 5}),
			cap:  graphics.LineCapRound,
			area: 16*4 + 4*math.Pi,
			tol:  0.2,
		},
		{
			// the return leg overlaps the first one and must not add
			// coverage
			name: "doubled back",
			path: openPath(vec.Vec2{X: 4, Y: 10}, vec.Vec2{X: 30, Y: 10}, vec.Vec2{X: 4, Y: 10}),
			cap:  graphics.LineCapButt,
			join: graphics.LineJoinRound,
			area: 26*4 + 2*math.Pi,
			tol:  0.2,
		},
		{
			name: "right angle miter",
			path: openPath(vec.Vec2{X: 4, Y: 4}, vec.Vec2{X: 20, Y: 4}, vec.Vec2{X: 20, Y: 16}),
			cap:  graphics.LineCapButt,
			join: graphics.LineJoinMiter,
			area: 112,
			tol:  1e-3,
		},
		{
			name: "right angle bevel",
			path: openPath(vec.Vec2{X: 4, Y: 4}, vec.Vec2{X: 20, Y: 4}, vec.Vec2{X: 20, Y: 16}),
			cap:  graphics.LineCapButt,
			join: graphics.LineJoinBevel,
			area: 110,
			tol:  1e-3,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			approaches(t, clip, func(t *testing.T, r *Rasteriser) {
				r.Flatness = 0.01
				r.Width = 4
				r.Cap = tc.cap
				r.Join = tc.join
				g, emit := grid(40, 20)
				r.Stroke(tc.path, emit)
				if got := total(g); math.Abs(got-tc.area) > tc.tol {
					t.Errorf("area = %.3f, want %.3f", got, tc.area)
				}
				for y, row := range g {
					for x, c := range row {
						if c > 1+1e-6 {
							t.Fatalf("pixel (%d,%d) has coverage %f", x, y, c)
						}
					}
				}
			})
		})
	}
}

func TestStrokeDot(t *testing.T) {
	clip := rect.Rect{LLx: 0, LLy: 0, URx: 20, URy: 20}
	dot := openPath(vec.Vec2{X: 10, Y: 10})

	r := NewRasteriser(clip)
	r.Flatness = 0.01
	r.Width = 6
	r.Cap = graphics.LineCapRound
	g, emit := grid(20, 20)
	r.Stroke(dot, emit)
	if got := total(g); math.Abs(got-9*math.Pi) > 0.3 {
		t.Errorf("round dot area = %.3f, want %.3f", got, 9*math.Pi)
	}

	r.Reset(clip)
	r.Width = 6
	r.Cap = graphics.LineCapButt
	g, emit = grid(20, 20)
	r.Stroke(dot, emit)
	if got := total(g); got != 0 {
		t.Errorf("butt dot area = %.3f, want 0", got)
	}
}

func TestReset(t *testing.T) {
	r := NewRasteriser(rect.Rect{URx: 10, URy: 10})
	r.Width = 7
	r.Cap = graphics.LineCapSquare
	r.Reset(rect.Rect{URx: 5, URy: 5})
	if r.Width != 1 || r.Cap != graphics.LineCapRound || r.Join != graphics.LineJoinRound {
		t.Errorf("Reset left pen %v/%v/%v", r.Width, r.Cap, r.Join)
	}
	if r.Clip.URx != 5 {
		t.Errorf("Reset did not update clip")
	}
}

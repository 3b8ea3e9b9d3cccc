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
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"
)

// BenchmarkPainterRing measures painting an annulus, the shape used for
// synthetic fingerprint ridges.
func BenchmarkPainterRing(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			p := NewPainter()
			dst := image.NewGray(image.Rect(0, 0, size, size))
			c := vec.Vec2{X: float64(size) / 2, Y: float64(size) / 2}
			outer := float64(size) * 0.45
			inner := float64(size) * 0.30

			b.ReportAllocs()
			for b.Loop() {
				p.Ring(dst, c, inner, outer, 255)
			}
		})
	}
}

// BenchmarkVectorRing draws the same annulus with x/image/vector.
func BenchmarkVectorRing(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			z := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{A: 255})

			c := float32(size) / 2
			outer := float32(size) * 0.45
			inner := float32(size) * 0.30

			b.ReportAllocs()
			for b.Loop() {
				z.Reset(size, size)
				vectorCircle(z, c, c, outer, false)
				vectorCircle(z, c, c, inner, true)
				z.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}

// BenchmarkPolyline measures a wide, wavy polyline with round joins, the
// typical shape of a scar.
func BenchmarkPolyline(b *testing.B) {
	const size = 512
	pts := make([]image.Point, 33)
	for i := range pts {
		x := 40 + float64(i)*13
		y := 256 + 30*math.Sin(float64(i)/3)
		pts[i] = image.Pt(int(x), int(y))
	}
	p := NewPainter()
	dst := image.NewGray(image.Rect(0, 0, size, size))

	b.ReportAllocs()
	for b.Loop() {
		p.Polyline(dst, pts, 9, 255)
	}
}

// vectorCircle adds a circle made of four cubic arcs to z.
func vectorCircle(z *vector.Rasterizer, cx, cy, r float32, clockwise bool) {
	const k = float32(0.5522847498)
	kr := k * r
	if clockwise {
		z.MoveTo(cx, cy-r)
		z.CubeTo(cx-kr, cy-r, cx-r, cy-kr, cx-r, cy)
		z.CubeTo(cx-r, cy+kr, cx-kr, cy+r, cx, cy+r)
		z.CubeTo(cx+kr, cy+r, cx+r, cy+kr, cx+r, cy)
		z.CubeTo(cx+r, cy-kr, cx+kr, cy-r, cx, cy-r)
	} else {
		z.MoveTo(cx, cy-r)
		z.CubeTo(cx+kr, cy-r, cx+r, cy-kr, cx+r, cy)
		z.CubeTo(cx+r, cy+kr, cx+kr, cy+r, cx, cy+r)
		z.CubeTo(cx-kr, cy+r, cx-r, cy+kr, cx-r, cy)
		z.CubeTo(cx-r, cy-kr, cx-kr, cy-r, cx, cy-r)
	}
	z.ClosePath()
}

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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Painter draws solid, non anti-aliased shapes into gray images.
// A pixel is painted if at least half of its area is covered.
// Integer points passed to the drawing methods denote pixel centres.
//
// A Painter is not safe for concurrent use.
type Painter struct {
	r *Rasteriser
}

// NewPainter allocates a Painter.
func NewPainter() *Painter {
	return &Painter{r: NewRasteriser(rect.Rect{})}
}

// coverageCutoff is the smallest coverage at which a pixel is painted.
const coverageCutoff = 0.5

// stampRadius is the radius below which discs are stamped pixel by pixel
// instead of being rasterised; at this size the half coverage rule
// produces lopsided shapes.
const stampRadius = 3

func (p *Painter) begin(dst *image.Gray, width float64) {
	b := dst.Rect
	p.r.Reset(rect.Rect{
		LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
		URx: float64(b.Max.X), URy: float64(b.Max.Y),
	})
	p.r.Width = width
}

// paint returns an emit callback which sets covered pixels of dst to value.
func paint(dst *image.Gray, value uint8) func(y, xMin int, coverage []float32) {
	return func(y, xMin int, coverage []float32) {
		off := dst.PixOffset(xMin, y)
		for i, c := range coverage {
			if c >= coverageCutoff {
				dst.Pix[off+i] = value
			}
		}
	}
}

func centre(pt image.Point) vec.Vec2 {
	return vec.Vec2{X: float64(pt.X) + 0.5, Y: float64(pt.Y) + 0.5}
}

// polyline returns the open path through the centres of pts.
func polyline(pts []image.Point) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if len(pts) == 0 {
			return
		}
		if !yield(path.CmdMoveTo, []vec.Vec2{centre(pts[0])}) {
			return
		}
		for _, pt := range pts[1:] {
			if !yield(path.CmdLineTo, []vec.Vec2{centre(pt)}) {
				return
			}
		}
	}
}

// circlePath returns a closed circle made of four cubic arcs.  With ccw
// set, the circle is traversed in the opposite direction.
func circlePath(c vec.Vec2, radius float64, ccw bool) path.Path {
	const kappa = 0.5522847498307936 // 4/3 (√2 - 1)
	k := kappa * radius
	dir := 1.0
	if ccw {
		dir = -1
	}
	return func(yield func(path.Command, []vec.Vec2) bool) {
		pt := func(dx, dy float64) vec.Vec2 {
			return vec.Vec2{X: c.X + dx, Y: c.Y + dir*dy}
		}
		if !yield(path.CmdMoveTo, []vec.Vec2{pt(radius, 0)}) {
			return
		}
		quarters := [][]vec.Vec2{
			{pt(radius, k), pt(k, radius), pt(0, radius)},
			{pt(-k, radius), pt(-radius, k), pt(-radius, 0)},
			{pt(-radius, -k), pt(-k, -radius), pt(0, -radius)},
			{pt(k, -radius), pt(radius, -k), pt(radius, 0)},
		}
		for _, q := range quarters {
			if !yield(path.CmdCubeTo, q) {
				return
			}
		}
		yield(path.CmdClose, nil)
	}
}

// Line draws a straight line of the given width with round ends.
func (p *Painter) Line(dst *image.Gray, a, b image.Point, width int, value uint8) {
	p.Polyline(dst, []image.Point{a, b}, width, value)
}

// Pen describes how [Painter.Stroke] outlines a polyline.
type Pen struct {
	Width int
	Cap   graphics.LineCapStyle
	Join  graphics.LineJoinStyle
}

// RoundPen returns a pen of the given width with round caps and joins.
func RoundPen(width int) Pen {
	return Pen{Width: width, Cap: graphics.LineCapRound, Join: graphics.LineJoinRound}
}

// Polyline draws the open polyline through pts with round caps and
// round joins.  Widths below 2 produce a hairline.
func (p *Painter) Polyline(dst *image.Gray, pts []image.Point, width int, value uint8) {
	p.Stroke(dst, pts, RoundPen(width), value)
}

// Stroke draws the open polyline through pts with the given pen.
// Widths below 2 produce a hairline, whatever the cap and join style.
func (p *Painter) Stroke(dst *image.Gray, pts []image.Point, pen Pen, value uint8) {
	if len(pts) == 0 {
		return
	}
	if pen.Width < 2 {
		p.Hairline(dst, pts, value)
		return
	}
	p.begin(dst, float64(pen.Width))
	p.r.Cap = pen.Cap
	p.r.Join = pen.Join
	p.r.Stroke(polyline(pts), paint(dst, value))
}

// Disc fills the circle of the given radius around c.
// A radius of zero paints the single pixel c.
func (p *Painter) Disc(dst *image.Gray, c image.Point, radius int, value uint8) {
	if radius < 0 {
		return
	}
	if radius < stampRadius {
		stamp(dst, c, radius, value)
		return
	}
	p.begin(dst, 0)
	p.r.Fill(circlePath(centre(c), float64(radius)+0.5, false), paint(dst, value))
}

// stamp paints all pixels whose centre lies within radius of c.
func stamp(dst *image.Gray, c image.Point, radius int, value uint8) {
	r2 := radius*radius + radius // rounds the boundary outwards
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			q := image.Point{X: c.X + dx, Y: c.Y + dy}
			if q.In(dst.Rect) {
				dst.Pix[dst.PixOffset(q.X, q.Y)] = value
			}
		}
	}
}

// Ring fills the annulus between the radii inner and outer around c.
// The radii need not be integers.
func (p *Painter) Ring(dst *image.Gray, c vec.Vec2, inner, outer float64, value uint8) {
	if outer <= inner || outer <= 0 {
		return
	}
	outerPath := circlePath(c, outer, false)
	innerPath := circlePath(c, max(inner, 0), true)
	annulus := func(yield func(path.Command, []vec.Vec2) bool) {
		for cmd, pts := range outerPath {
			if !yield(cmd, pts) {
				return
			}
		}
		if inner <= 0 {
			return
		}
		for cmd, pts := range innerPath {
			if !yield(cmd, pts) {
				return
			}
		}
	}
	p.begin(dst, 0)
	p.r.Fill(annulus, paint(dst, value))
}

// Hairline draws an 8-connected one pixel wide polyline through pts.
func (p *Painter) Hairline(dst *image.Gray, pts []image.Point, value uint8) {
	set := func(q image.Point) {
		if q.In(dst.Rect) {
			dst.Pix[dst.PixOffset(q.X, q.Y)] = value
		}
	}
	if len(pts) == 1 {
		set(pts[0])
		return
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		n := max(abs(dx), abs(dy))
		if n == 0 {
			set(a)
			continue
		}
		for k := 0; k <= n; k++ {
			t := float64(k) / float64(n)
			set(image.Point{
				X: a.X + int(math.Round(t*float64(dx))),
				Y: a.Y + int(math.Round(t*float64(dy))),
			})
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

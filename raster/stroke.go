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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// strokeSegment is a flattened line segment of a path.
type strokeSegment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit tangent A→B
	N    vec.Vec2 // unit normal, T rotated by +90°
}

// Stroke renders the outline of p using Width, Cap, Join and MiterLimit.
// The emit callback receives coverage row by row; its slice argument is
// valid only during the call.
//
// The outline is assembled from simple pieces (one quadrilateral per
// segment, plus cap and join shapes), all with the same orientation, and
// the pieces are filled together with the nonzero rule.  Overlapping
// pieces are therefore painted exactly once.
func (r *Rasteriser) Stroke(p path.Path, emit func(y, xMin int, coverage []float32)) {
	d := r.Width / 2
	if d <= 0 {
		return
	}

	r.flattenPath(p)
	r.polys = r.polys[:0]
	r.polyOffsets = r.polyOffsets[:0]

	for _, pt := range r.dots {
		switch r.Cap {
		case graphics.LineCapRound:
			r.addCircle(pt, d)
		case graphics.LineCapSquare:
			r.addPolygon(
				vec.Vec2{X: pt.X - d, Y: pt.Y - d},
				vec.Vec2{X: pt.X + d, Y: pt.Y - d},
				vec.Vec2{X: pt.X + d, Y: pt.Y + d},
				vec.Vec2{X: pt.X - d, Y: pt.Y + d},
			)
		}
	}
	for i, start := range r.segOffsets {
		end := len(r.segs)
		if i+1 < len(r.segOffsets) {
			end = r.segOffsets[i+1]
		}
		r.strokeSubpath(r.segs[start:end], r.segClosed[i], d)
	}

	r.startEdges()
	for i, start := range r.polyOffsets {
		end := len(r.polys)
		if i+1 < len(r.polyOffsets) {
			end = r.polyOffsets[i+1]
		}
		poly := r.polys[start:end]
		for j := range poly {
			r.addEdge(poly[j], poly[(j+1)%len(poly)])
		}
	}
	r.fillEdges(emit)
}

// flattenPath converts p into line segments, grouped by subpath.
// Subpaths without any extent are collected in r.dots.
func (r *Rasteriser) flattenPath(p path.Path) {
	r.segs = r.segs[:0]
	r.segOffsets = r.segOffsets[:0]
	r.segClosed = r.segClosed[:0]
	r.dots = r.dots[:0]

	var current, start vec.Vec2
	first := 0
	open := false
	finish := func(closed bool) {
		if !open {
			return
		}
		if len(r.segs) == first {
			r.dots = append(r.dots, start)
		} else {
			r.segOffsets = append(r.segOffsets, first)
			r.segClosed = append(r.segClosed, closed)
		}
		first = len(r.segs)
		open = false
	}

	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			finish(false)
			current = pts[0]
			start = current
			open = true
		case path.CmdLineTo:
			if open {
				r.addStrokeSegment(current, pts[0])
				current = pts[0]
			}
		case path.CmdQuadTo:
			if open {
				r.flattenQuadratic(current, pts[0], pts[1], r.addStrokeSegment)
				current = pts[1]
			}
		case path.CmdCubeTo:
			if open {
				r.flattenCubic(current, pts[0], pts[1], pts[2], r.addStrokeSegment)
				current = pts[2]
			}
		case path.CmdClose:
			if open {
				r.addStrokeSegment(current, start)
				current = start
				finish(true)
			}
		}
	}
	finish(false)
}

func (r *Rasteriser) addStrokeSegment(a, b vec.Vec2) {
	delta := b.Sub(a)
	length := delta.Length()
	if length < zeroLengthThreshold {
		return
	}
	t := delta.Mul(1 / length)
	r.segs = append(r.segs, strokeSegment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}})
}

// strokeSubpath adds the outline pieces of one flattened subpath.
func (r *Rasteriser) strokeSubpath(segs []strokeSegment, closed bool, d float64) {
	last := len(segs) - 1
	for i, s := range segs {
		a, b := s.A, s.B
		if !closed && r.Cap == graphics.LineCapSquare {
			if i == 0 {
				a = a.Sub(s.T.Mul(d))
			}
			if i == last {
				b = b.Add(s.T.Mul(d))
			}
		}
		r.addPolygon(a.Sub(s.N.Mul(d)), b.Sub(s.N.Mul(d)), b.Add(s.N.Mul(d)), a.Add(s.N.Mul(d)))
	}

	for i := 1; i <= last; i++ {
		r.addJoin(segs[i-1], segs[i], d)
	}
	if closed && last > 0 {
		r.addJoin(segs[last], segs[0], d)
	}

	if !closed && r.Cap == graphics.LineCapRound {
		r.addCircle(segs[0].A, d)
		r.addCircle(segs[last].B, d)
	}
}

// addJoin fills the gap on the outer side of the corner between s1 and s2.
func (r *Rasteriser) addJoin(s1, s2 strokeSegment, d float64) {
	P := s1.B
	cross := s1.T.X*s2.T.Y - s1.T.Y*s2.T.X
	dot := s1.T.Dot(s2.T)
	if math.Abs(cross) < collinearityThreshold && dot > 0 {
		return
	}

	if r.Join == graphics.LineJoinRound {
		r.addCircle(P, d)
		return
	}

	side := 1.0
	if cross > 0 {
		side = -1
	}
	o1 := P.Add(s1.N.Mul(side * d))
	o2 := P.Add(s2.N.Mul(side * d))

	if r.Join == graphics.LineJoinMiter {
		bisector := s1.N.Add(s2.N)
		if l := bisector.Length(); l > zeroLengthThreshold {
			cosHalf := l / 2
			if 1/cosHalf <= r.MiterLimit {
				tip := P.Add(bisector.Mul(side * d / (l * cosHalf)))
				r.addPolygon(P, o1, tip, o2)
				return
			}
		}
	}
	r.addPolygon(P, o1, o2)
}

// addCircle adds a full circle, flattened to within r.Flatness.
func (r *Rasteriser) addCircle(center vec.Vec2, radius float64) {
	n := 4
	if radius > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/radius)
		if step > 0 && !math.IsNaN(step) {
			n = max(n, int(math.Ceil(2*math.Pi/step)))
		}
	}

	start := len(r.polys)
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.polys = append(r.polys, vec.Vec2{
			X: center.X + radius*math.Cos(phi),
			Y: center.Y + radius*math.Sin(phi),
		})
	}
	r.orient(start)
}

// addPolygon adds a closed polygon to the outline.
func (r *Rasteriser) addPolygon(pts ...vec.Vec2) {
	start := len(r.polys)
	r.polys = append(r.polys, pts...)
	r.orient(start)
}

// orient registers the polygon starting at r.polys[start] and reverses it
// if necessary, so that all pieces have positive signed area.
func (r *Rasteriser) orient(start int) {
	poly := r.polys[start:]
	var area float64
	for i := range poly {
		j := (i + 1) % len(poly)
		area += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	if area < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	r.polyOffsets = append(r.polyOffsets, start)
}

// collinearityThreshold is the sine of the largest angle between two
// segments which is treated as a straight continuation.
const collinearityThreshold = 1e-6

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

// Package raster converts paths into per-pixel coverage and paints the
// resulting shapes into gray-scale images.
//
// Coordinates are pixel coordinates: pixel (x, y) occupies the square
// [x, x+1) × [y, y+1), with y growing downwards.  Coverage is computed
// with the nonzero winding rule and delivered row by row through an emit
// callback.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// edge is a non-horizontal line segment in pixel coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

// Rasteriser converts paths to pixel coverage values.
// One instance is reused for many paths; internal buffers grow as needed
// and are never released.
type Rasteriser struct {
	// Clip is the output region.  It must have integer coordinates.
	Clip rect.Rect

	// Flatness is the curve flattening tolerance in pixels.
	Flatness float64

	// Width is the stroke width in pixels.
	Width float64

	// Cap is the line cap style for the ends of open subpaths.
	Cap graphics.LineCapStyle

	// Join is the line join style between consecutive segments.
	Join graphics.LineJoinStyle

	// MiterLimit limits the length of miter joins, as a multiple of the
	// half width.
	MiterLimit float64

	// smallPathThreshold is the largest bounding box area (in pixels)
	// rasterised with full 2D buffers.  Larger paths use an active edge
	// list and one row buffer.
	smallPathThreshold int

	cover     []float32 // per pixel change of the winding accumulator
	area      []float32 // per pixel partial coverage
	edges     []edge
	activeIdx []int
	rowXMin   []int
	rowXMax   []int
	crossings []float64

	// stroke outline pieces, all contiguous in polys
	polys       []vec.Vec2
	polyOffsets []int
	segs        []strokeSegment
	segOffsets  []int
	segClosed   []bool
	dots        []vec.Vec2

	bboxEmpty          bool
	bboxXMin, bboxXMax float64
	bboxYMin, bboxYMax float64
}

// NewRasteriser returns a Rasteriser for the given clip rectangle with a
// one pixel wide pen, round caps and round joins.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	r := &Rasteriser{smallPathThreshold: smallPathThreshold}
	r.Reset(clip)
	return r
}

// Reset restores the default pen and sets a new clip rectangle, keeping
// the capacity of all internal buffers.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapRound
	r.Join = graphics.LineJoinRound
	r.MiterLimit = defaultMiterLimit
	if r.smallPathThreshold == 0 {
		r.smallPathThreshold = smallPathThreshold
	}

	r.cover = r.cover[:0]
	r.area = r.area[:0]
	r.edges = r.edges[:0]
	r.activeIdx = r.activeIdx[:0]
	r.rowXMin = r.rowXMin[:0]
	r.rowXMax = r.rowXMax[:0]
	r.crossings = r.crossings[:0]
	r.polys = r.polys[:0]
	r.polyOffsets = r.polyOffsets[:0]
	r.segs = r.segs[:0]
	r.segOffsets = r.segOffsets[:0]
	r.segClosed = r.segClosed[:0]
	r.dots = r.dots[:0]
}

// flattenQuadratic splits a quadratic Bézier curve into line segments
// whose distance from the curve is at most r.Flatness.
func (r *Rasteriser) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(from, to vec.Vec2)) {
	e := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)

	n := 1
	if dev := e.Length(); dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic splits a cubic Bézier curve into line segments, choosing
// the number of segments with Wang's formula.
func (r *Rasteriser) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(from, to vec.Vec2)) {
	d1 := p0.Sub(p1.Mul(2)).Add(p2)
	d2 := p1.Sub(p2.Mul(2)).Add(p3)

	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		emit(prev, pt)
		prev = pt
	}
}

// Fill rasterises p using the nonzero winding rule.
// The coverage slice passed to emit is only valid during the call.
func (r *Rasteriser) Fill(p path.Path, emit func(y, xMin int, coverage []float32)) {
	r.startEdges()

	var current, start vec.Vec2
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			if current != start {
				r.addEdge(current, start)
			}
			current = pts[0]
			start = current
		case path.CmdLineTo:
			r.addEdge(current, pts[0])
			current = pts[0]
		case path.CmdQuadTo:
			r.flattenQuadratic(current, pts[0], pts[1], r.addEdge)
			current = pts[1]
		case path.CmdCubeTo:
			r.flattenCubic(current, pts[0], pts[1], pts[2], r.addEdge)
			current = pts[2]
		case path.CmdClose:
			if current != start {
				r.addEdge(current, start)
			}
			current = start
		}
	}
	// open subpaths are closed implicitly
	if current != start {
		r.addEdge(current, start)
	}

	r.fillEdges(emit)
}

// fillEdges rasterises the collected edge list.
func (r *Rasteriser) fillEdges(emit func(y, xMin int, coverage []float32)) {
	xMin, xMax, yMin, yMax, ok := r.edgeBounds()
	if !ok {
		return
	}
	if (xMax-xMin)*(yMax-yMin) < r.smallPathThreshold {
		r.fillSmallPath(xMin, xMax, yMin, yMax, emit)
	} else {
		r.fillLargePath(xMin, xMax, yMin, yMax, emit)
	}
}

func (r *Rasteriser) startEdges() {
	r.edges = r.edges[:0]
	r.bboxEmpty = true
}

// addEdge appends the segment from p0 to p1 to the edge list.
// Horizontal segments do not contribute to coverage and are dropped.
func (r *Rasteriser) addEdge(p0, p1 vec.Vec2) {
	dy := p1.Y - p0.Y
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: p0.X, y0: p0.Y,
		x1: p1.X, y1: p1.Y,
		dxdy: (p1.X - p0.X) / dy,
	})

	if r.bboxEmpty {
		r.bboxXMin, r.bboxXMax = min(p0.X, p1.X), max(p0.X, p1.X)
		r.bboxYMin, r.bboxYMax = min(p0.Y, p1.Y), max(p0.Y, p1.Y)
		r.bboxEmpty = false
		return
	}
	r.bboxXMin = min(r.bboxXMin, p0.X, p1.X)
	r.bboxXMax = max(r.bboxXMax, p0.X, p1.X)
	r.bboxYMin = min(r.bboxYMin, p0.Y, p1.Y)
	r.bboxYMax = max(r.bboxYMax, p0.Y, p1.Y)
}

// edgeBounds returns the integer bounding box of the edge list, clamped
// to the clip rectangle.
func (r *Rasteriser) edgeBounds() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	xMin = max(int(math.Floor(r.bboxXMin)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.bboxXMax))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.bboxYMin)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.bboxYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// Coverage accumulation:
//
// An edge crossing pixel i of a scanline with vertical extent dy adds
//
//	cover[i] += sign*dy
//	area[i]  += sign*dy*(1-xFrac)
//
// where sign is +1 for downward edges and xFrac is the horizontal position
// of the crossing inside the pixel.  The coverage of pixel i is then
// clamp(|sum(cover[:i]) + area[i]|, 0, 1).  Contributions left of the
// buffer are folded into index 0.

// accumulateEdge adds the contribution of e within scanline y.
func (r *Rasteriser) accumulateEdge(e *edge, y int, cover, area []float32, bufXMin, bufXMax int) {
	yTop := max(float64(y), min(e.y0, e.y1))
	yBot := min(float64(y+1), max(e.y0, e.y1))
	if yBot <= yTop {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xTop := e.x0 + e.dxdy*(yTop-e.y0)
	xBot := e.x0 + e.dxdy*(yBot-e.y0)
	pixLeft := int(math.Floor(min(xTop, xBot)))
	pixRight := int(math.Floor(max(xTop, xBot)))

	if pixRight < bufXMin {
		c := sign * float32(yBot-yTop)
		cover[0] += c
		area[0] += c
		return
	}
	if pixLeft >= bufXMax {
		return
	}
	if pixLeft == pixRight {
		r.accumulatePiece(e, yTop, yBot, sign, cover, area, bufXMin, bufXMax)
		return
	}

	// split the edge where it crosses vertical pixel boundaries
	dydx := 1 / e.dxdy
	r.crossings = append(r.crossings[:0], yTop, yBot)
	for x := pixLeft + 1; x <= pixRight; x++ {
		yx := e.y0 + dydx*(float64(x)-e.x0)
		if yx > yTop && yx < yBot {
			r.crossings = append(r.crossings, yx)
		}
	}
	slices.Sort(r.crossings)
	for i := range len(r.crossings) - 1 {
		r.accumulatePiece(e, r.crossings[i], r.crossings[i+1], sign, cover, area, bufXMin, bufXMax)
	}
}

// accumulatePiece handles a part of an edge which stays within a single
// pixel column.
func (r *Rasteriser) accumulatePiece(e *edge, yTop, yBot float64, sign float32, cover, area []float32, bufXMin, bufXMax int) {
	if yBot <= yTop {
		return
	}
	c := sign * float32(yBot-yTop)

	xMid := e.x0 + e.dxdy*((yTop+yBot)/2-e.y0)
	pix := int(math.Floor(xMid))
	switch {
	case pix < bufXMin:
		cover[0] += c
		area[0] += c
	case pix < bufXMax:
		idx := pix - bufXMin
		cover[idx] += c
		area[idx] += c * float32(1-(xMid-float64(pix)))
	}
}

// integrateScanline turns accumulated cover/area values into coverage,
// in place in cover.
func integrateScanline(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		if raw < 0 {
			raw = -raw
		}
		cover[i] = min(raw, 1)
	}
}

// trimZeros returns the part of coverage between the first and last
// nonzero value, and the offset of that part.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	for hi > lo && coverage[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return coverage[lo:hi], lo
}

// edgeRows returns the range of scanlines touched by e, clamped to
// [yMin, yMax).
func edgeRows(e *edge, yMin, yMax int) (int, int) {
	top := int(math.Floor(min(e.y0, e.y1)))
	bot := int(math.Floor(max(e.y0, e.y1))) + 1
	return max(top, yMin), min(bot, yMax)
}

// edgeColumn returns the pixel column where e crosses the middle of the
// part of scanline y it covers, clamped to [xMin, xMax).
func edgeColumn(e *edge, y, xMin, xMax int) (int, bool) {
	yTop := max(float64(y), min(e.y0, e.y1))
	yBot := min(float64(y+1), max(e.y0, e.y1))
	if yBot <= yTop {
		return 0, false
	}
	x := int(math.Floor(e.x0 + e.dxdy*((yTop+yBot)/2-e.y0)))
	return min(max(x, xMin), xMax-1), true
}

// fillSmallPath accumulates all edges into a 2D buffer covering the
// bounding box and then integrates row by row.
func (r *Rasteriser) fillSmallPath(xMin, xMax, yMin, yMax int, emit func(y, xMin int, coverage []float32)) {
	width := xMax - xMin
	height := yMax - yMin
	size := width * height
	r.cover = slices.Grow(r.cover[:0], size)[:size]
	r.area = slices.Grow(r.area[:0], size)[:size]
	clear(r.cover)
	clear(r.area)

	r.rowXMin = slices.Grow(r.rowXMin[:0], height)[:height]
	r.rowXMax = slices.Grow(r.rowXMax[:0], height)[:height]
	for i := range height {
		r.rowXMin[i] = width
		r.rowXMax[i] = -1
	}

	for i := range r.edges {
		e := &r.edges[i]
		top, bot := edgeRows(e, yMin, yMax)
		for y := top; y < bot; y++ {
			row := y - yMin
			off := row * width
			r.accumulateEdge(e, y, r.cover[off:off+width], r.area[off:off+width], xMin, xMax)
			if x, ok := edgeColumn(e, y, xMin, xMax); ok {
				r.rowXMin[row] = min(r.rowXMin[row], x-xMin)
				r.rowXMax[row] = max(r.rowXMax[row], x-xMin)
			}
		}
	}

	for row := range height {
		if r.rowXMax[row] < 0 {
			continue
		}
		off := row * width
		coverage := r.cover[off : off+width]
		integrateScanline(coverage, r.area[off:off+width])
		if trimmed, lo := trimZeros(coverage); trimmed != nil {
			emit(yMin+row, xMin+lo, trimmed)
		}
	}
}

// fillLargePath walks the scanlines with an active edge list and a
// single row buffer.
func (r *Rasteriser) fillLargePath(xMin, xMax, yMin, yMax int, emit func(y, xMin int, coverage []float32)) {
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(min(a.y0, a.y1), min(b.y0, b.y1))
	})

	r.activeIdx = r.activeIdx[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yf := float64(y)
		for next < len(r.edges) && min(r.edges[next].y0, r.edges[next].y1) < yf+1 {
			r.activeIdx = append(r.activeIdx, next)
			next++
		}
		if len(r.activeIdx) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.activeIdx); {
			e := &r.edges[r.activeIdx[i]]
			if max(e.y0, e.y1) <= yf {
				last := len(r.activeIdx) - 1
				r.activeIdx[i] = r.activeIdx[last]
				r.activeIdx = r.activeIdx[:last]
				continue
			}
			r.accumulateEdge(e, y, r.cover, r.area, xMin, xMax)
			if _, ok := edgeColumn(e, y, xMin, xMax); ok {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		integrateScanline(r.cover, r.area)
		if trimmed, lo := trimZeros(r.cover); trimmed != nil {
			emit(y, xMin+lo, trimmed)
		}
	}
}

const (
	// defaultFlatness is the default curve flattening tolerance in pixels.
	defaultFlatness = 0.25

	// defaultMiterLimit matches the PDF default.
	defaultMiterLimit = 10.0

	// horizontalEdgeThreshold is the smallest vertical extent of an edge
	// which contributes to coverage.
	horizontalEdgeThreshold = 1e-10

	// smallPathThreshold is the bounding box area up to which fills use
	// 2D buffers.
	smallPathThreshold = 65536

	// zeroLengthThreshold is the shortest stroke segment which is kept.
	zeroLengthThreshold = 1e-10
)

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

// Package mask finds the fingerprint region of a raster.
//
// The fingerprint is assumed to be dark ridges on a light background.
// [Build] smooths the raster, selects everything darker than near-white,
// wraps every connected region in its convex hull and fills the result, so
// that the mask is one smooth blob without holes.  [Extent] then measures
// the footprint, the bounding box of the largest region, which is used to
// scale all damage geometry.
package mask

import (
	"image"
	"slices"

	"golang.org/x/image/vector"

	"seehuhn.de/go/fpdamage/errors"
	"seehuhn.de/go/fpdamage/filter"
)

const (
	// Inside is the mask value of fingerprint pixels.
	Inside = 255

	blurSize  = 7
	whiteness = 240
)

// BuildOptions controls mask construction.
type BuildOptions struct {
	// Hull wraps every region in its convex hull before filling.
	// Without it, the regions are filled as they are.
	Hull bool
}

// Build computes the fingerprint mask of img.  The result has the size of
// img, values 0 and 255, and no interior holes.
func Build(img *image.Gray) (*image.Gray, error) {
	return BuildWith(img, BuildOptions{Hull: true})
}

// BuildWith is like [Build] but allows to choose the options.
func BuildWith(img *image.Gray, opt BuildOptions) (*image.Gray, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New(errors.ErrCodeInputUnavailable, "empty raster")
	}
	fg := filter.Threshold(filter.BoxBlur(img, blurSize), whiteness, true)
	regions := components(fg)
	if len(regions) == 0 {
		return nil, errors.New(errors.ErrCodeDegenerateMask, "no fingerprint region in %dx%d raster", b.Dx(), b.Dy())
	}

	w, h := b.Dx(), b.Dy()
	res := image.NewGray(image.Rect(0, 0, w, h))
	if opt.Hull {
		fillHulls(res, regions)
	} else {
		for _, region := range regions {
			for _, p := range region {
				res.Pix[p.Y*res.Stride+p.X] = Inside
			}
		}
	}
	fillHoles(res)
	return res, nil
}

// Extent returns the bounding box of the largest region of the mask.
func Extent(m *image.Gray) (image.Rectangle, error) {
	regions := components(m)
	if len(regions) == 0 {
		return image.Rectangle{}, errors.New(errors.ErrCodeDegenerateMask, "empty mask")
	}
	largest := slices.MaxFunc(regions, func(a, b []image.Point) int {
		return len(a) - len(b)
	})
	r := image.Rectangle{Min: largest[0], Max: largest[0].Add(image.Pt(1, 1))}
	for _, p := range largest[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return r, nil
}

var neighbours8 = []image.Point{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// components returns the 8-connected regions of nonzero pixels of img.
// Coordinates are relative to the image origin.
func components(img *image.Gray) [][]image.Point {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	seen := make([]bool, w*h)
	value := func(x, y int) uint8 {
		return img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)]
	}

	var regions [][]image.Point
	var stack []image.Point
	for y := range h {
		for x := range w {
			if seen[y*w+x] || value(x, y) == 0 {
				continue
			}
			seen[y*w+x] = true
			var region []image.Point
			stack = append(stack[:0], image.Point{X: x, Y: y})
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				region = append(region, p)
				for _, d := range neighbours8 {
					q := p.Add(d)
					if q.X < 0 || q.Y < 0 || q.X >= w || q.Y >= h {
						continue
					}
					if seen[q.Y*w+q.X] || value(q.X, q.Y) == 0 {
						continue
					}
					seen[q.Y*w+q.X] = true
					stack = append(stack, q)
				}
			}
			regions = append(regions, region)
		}
	}
	return regions
}

// fillHulls paints the convex hull of every region into dst.
func fillHulls(dst *image.Gray, regions [][]image.Point) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	z := vector.NewRasterizer(w, h)
	for _, region := range regions {
		hull := convexHull(pixelCorners(region))
		z.MoveTo(float32(hull[0].X), float32(hull[0].Y))
		for _, p := range hull[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
	}
	cover := image.NewAlpha(dst.Rect)
	z.Draw(cover, cover.Bounds(), image.Opaque, image.Point{})
	for i, a := range cover.Pix {
		if a >= 128 {
			dst.Pix[i] = Inside
		}
	}
}

// pixelCorners returns the corners of the pixels of region which are
// relevant for the convex hull: for every row the outer corners of the
// leftmost and rightmost pixel.
func pixelCorners(region []image.Point) []image.Point {
	type span struct{ lo, hi int }
	rows := make(map[int]span)
	for _, p := range region {
		s, ok := rows[p.Y]
		if !ok {
			rows[p.Y] = span{p.X, p.X}
			continue
		}
		rows[p.Y] = span{min(s.lo, p.X), max(s.hi, p.X)}
	}
	pts := make([]image.Point, 0, 4*len(rows))
	for y, s := range rows {
		pts = append(pts,
			image.Pt(s.lo, y), image.Pt(s.lo, y+1),
			image.Pt(s.hi+1, y), image.Pt(s.hi+1, y+1))
	}
	return pts
}

// convexHull returns the convex hull of pts using the monotone chain
// algorithm.  Collinear points are dropped.
func convexHull(pts []image.Point) []image.Point {
	slices.SortFunc(pts, func(a, b image.Point) int {
		if a.X != b.X {
			return a.X - b.X
		}
		return a.Y - b.Y
	})
	pts = slices.Compact(pts)
	if len(pts) < 3 {
		return pts
	}

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	hull := make([]image.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// fillHoles sets all zero pixels which are not 4-connected to the image
// border to [Inside].
func fillHoles(m *image.Gray) {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	outside := make([]bool, w*h)
	var stack []image.Point
	push := func(x, y int) {
		i := y*w + x
		if outside[i] || m.Pix[y*m.Stride+x] != 0 {
			return
		}
		outside[i] = true
		stack = append(stack, image.Point{X: x, Y: y})
	}
	for x := range w {
		push(x, 0)
		push(x, h-1)
	}
	for y := range h {
		push(0, y)
		push(w-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.X > 0 {
			push(p.X-1, p.Y)
		}
		if p.X < w-1 {
			push(p.X+1, p.Y)
		}
		if p.Y > 0 {
			push(p.X, p.Y-1)
		}
		if p.Y < h-1 {
			push(p.X, p.Y+1)
		}
	}
	for y := range h {
		for x := range w {
			if !outside[y*w+x] {
				m.Pix[y*m.Stride+x] = Inside
			}
		}
	}
}

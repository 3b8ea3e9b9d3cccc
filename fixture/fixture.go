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

// Package fixture provides synthetic fingerprint rasters for tests,
// benchmarks and demonstrations.
//
// All fixtures show black ridges on a white background, like the output
// of fingerprint synthesis tools.
package fixture

import (
	"image"
	"math"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/fpdamage/raster"
)

// Fixture defines a single synthetic raster.
type Fixture struct {
	Name   string // lowercase a-z and _ only
	Width  int
	Height int
	Draw   func(p *raster.Painter, dst *image.Gray)
}

// Image renders the fixture.
func (f Fixture) Image() *image.Gray {
	img := blank(f.Width, f.Height)
	if f.Draw != nil {
		f.Draw(raster.NewPainter(), img)
	}
	return img
}

// All contains all fixtures, grouped by category.
// The category name is used as a prefix in file names.
var All = map[string][]Fixture{
	"whorl": {
		{Name: "small", Width: 128, Height: 128, Draw: whorl(64, 64, 50, 6)},
		{Name: "medium", Width: 512, Height: 512, Draw: whorl(256, 256, 200, 8)},
		{Name: "offset", Width: 400, Height: 300, Draw: whorl(180, 160, 120, 7)},
	},
	"arch": {
		{Name: "portrait", Width: 300, Height: 400,
			Draw: arches(150, 200, 120, 170, 7, graphics.LineCapButt, graphics.LineJoinMiter)},
		{Name: "landscape", Width: 480, Height: 320,
			Draw: arches(240, 160, 200, 130, 8, graphics.LineCapSquare, graphics.LineJoinBevel)},
	},
	"solid": {
		{Name: "disc", Width: 200, Height: 200, Draw: solidDisc(100, 100, 70)},
	},
	"degenerate": {
		{Name: "blank", Width: 64, Height: 64},
	},
}

// RidgeDisc returns a size×size raster with concentric ridges of the
// given period inside a disc of the given radius around the centre.
func RidgeDisc(size, radius, period int) *image.Gray {
	img := blank(size, size)
	whorl(size/2, size/2, radius, period)(raster.NewPainter(), img)
	return img
}

// SolidDisc returns a size×size raster with a black disc around the
// centre.
func SolidDisc(size, radius int) *image.Gray {
	img := blank(size, size)
	solidDisc(size/2, size/2, radius)(raster.NewPainter(), img)
	return img
}

func blank(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// whorl draws concentric rings.  The outermost ring is solid up to
// radius, so that the fingerprint region is exactly the disc.
func whorl(cx, cy, radius, period int) func(*raster.Painter, *image.Gray) {
	return func(p *raster.Painter, dst *image.Gray) {
		c := vec.Vec2{X: float64(cx) + 0.5, Y: float64(cy) + 0.5}
		p.Disc(dst, image.Pt(cx, cy), period/4, 0)
		outer := float64(radius) + 0.5
		p.Ring(dst, c, outer-float64(period)/2, outer, 0)
		for r := float64(period); r < outer-float64(period)/2; r += float64(period) {
			p.Ring(dst, c, r-float64(period)/4, r+float64(period)/4, 0)
		}
	}
}

// arches draws wavy horizontal ridges inside an ellipse.  The ridge ends
// and bends use the given cap and join styles.
func arches(cx, cy, rx, ry, period int, capStyle graphics.LineCapStyle, joinStyle graphics.LineJoinStyle) func(*raster.Painter, *image.Gray) {
	return func(p *raster.Painter, dst *image.Gray) {
		ridges := blank(dst.Rect.Dx(), dst.Rect.Dy())
		pen := raster.Pen{Width: max(period/2, 2), Cap: capStyle, Join: joinStyle}
		for y := cy - ry; y <= cy+ry; y += period {
			var pts []image.Point
			for x := cx - rx; x <= cx+rx; x += 4 {
				u := float64(x-cx) / float64(rx)
				lift := float64(ry) / 3 * (1 - u*u) * (1 - math.Abs(float64(y-cy))/float64(ry))
				pts = append(pts, image.Pt(x, y-int(lift)))
			}
			p.Stroke(ridges, pts, pen, 0)
		}

		for y := range dst.Rect.Dy() {
			for x := range dst.Rect.Dx() {
				u := float64(x-cx) / float64(rx)
				v := float64(y-cy) / float64(ry)
				if u*u+v*v <= 1 {
					dst.Pix[y*dst.Stride+x] = ridges.Pix[y*ridges.Stride+x]
				}
			}
		}
	}
}

func solidDisc(cx, cy, radius int) func(*raster.Painter, *image.Gray) {
	return func(p *raster.Painter, dst *image.Gray) {
		p.Disc(dst, image.Pt(cx, cy), radius, 0)
	}
}

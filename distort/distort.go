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

// Package distort implements radial pixel remapping of gray rasters.
//
// Three coordinate systems are used.  Image coordinates are integer pixel
// positions.  Normalized coordinates map the image, or a square window
// around a circle, onto [-1, 1]×[-1, 1].  Polar coordinates give the angle
// and the distance from the origin of the normalized system.
//
// The soak operator pulls pixel values along rays from the centre of a
// circle, which looks like skin pulled together around a scar.
package distort

import (
	"image"
	"math"

	"seehuhn.de/go/geom/vec"
)

// Field holds a raster which is transformed in place by successive
// distortion operations.
type Field struct {
	img *image.Gray

	// Bilinear enables bilinear interpolation when sampling between
	// pixels.  Otherwise the value of the pixel containing the sample
	// point is used.
	Bilinear bool
}

// New returns a field operating on a copy of img.
func New(img *image.Gray) *Field {
	b := img.Bounds()
	c := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		copy(c.Pix[y*c.Stride:y*c.Stride+b.Dx()], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return &Field{img: c}
}

// Image returns the current raster.
func (f *Field) Image() *image.Gray {
	return f.img
}

func (f *Field) size() (w, h int) {
	return f.img.Rect.Dx(), f.img.Rect.Dy()
}

// At returns the value of pixel (x, y), or 0 if the pixel is outside the
// image.
func (f *Field) At(x, y int) float64 {
	w, h := f.size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0
	}
	return float64(f.img.Pix[y*f.img.Stride+x])
}

// sample returns the value at the real-valued image position (x, y).
func (f *Field) sample(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	ix, iy := int(x0), int(y0)
	if !f.Bilinear {
		return f.At(ix, iy)
	}
	fx, fy := x-x0, y-y0
	return (1-fx)*(1-fy)*f.At(ix, iy) +
		fx*(1-fy)*f.At(ix+1, iy) +
		(1-fx)*fy*f.At(ix, iy+1) +
		fx*fy*f.At(ix+1, iy+1)
}

// Norm converts image coordinates into normalized coordinates, where the
// first and last pixel of each row and column map to -1 and 1.
func (f *Field) Norm(p image.Point) vec.Vec2 {
	w, h := f.size()
	return vec.Vec2{X: toUnit(p.X, w-1), Y: toUnit(p.Y, h-1)}
}

func toUnit(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(i)/float64(n)*2 - 1
}

// ValueAtNorm samples the raster at normalized coordinates.
func (f *Field) ValueAtNorm(n vec.Vec2) float64 {
	w, h := f.size()
	return f.sample((n.X+1)/2*float64(w), (n.Y+1)/2*float64(h))
}

// Polar converts image coordinates into polar coordinates.
func (f *Field) Polar(p image.Point) (phi, r float64) {
	return ToPolar(f.Norm(p))
}

// ValueAtPolar samples the raster at polar coordinates.
func (f *Field) ValueAtPolar(phi, r float64) float64 {
	return f.ValueAtNorm(FromPolar(phi, r))
}

// ToPolar converts normalized coordinates to angle and radius.
func ToPolar(n vec.Vec2) (phi, r float64) {
	return math.Atan2(n.Y, n.X), n.Length()
}

// FromPolar converts angle and radius to normalized coordinates.
func FromPolar(phi, r float64) vec.Vec2 {
	return vec.Vec2{X: r * math.Cos(phi), Y: r * math.Sin(phi)}
}

// Window is the square around a circle, used as the domain of local
// coordinate systems.
type Window struct {
	Center image.Point
	Radius int
}

// Bounds returns the pixels covered by the window.
func (w Window) Bounds() image.Rectangle {
	return image.Rect(w.Center.X-w.Radius, w.Center.Y-w.Radius,
		w.Center.X+w.Radius+1, w.Center.Y+w.Radius+1)
}

// Fits reports whether the window lies inside the raster.
func (f *Field) Fits(win Window) bool {
	if win.Radius < 1 {
		return false
	}
	return win.Bounds().In(f.img.Rect)
}

// NormIn converts image coordinates into the normalized coordinates of the
// window.  The second return value is false if the window does not fit
// into the raster.
func (f *Field) NormIn(win Window, p image.Point) (vec.Vec2, bool) {
	if !f.Fits(win) {
		return vec.Vec2{}, false
	}
	d := float64(2 * win.Radius)
	return vec.Vec2{
		X: float64(p.X-(win.Center.X-win.Radius))/d*2 - 1,
		Y: float64(p.Y-(win.Center.Y-win.Radius))/d*2 - 1,
	}, true
}

// ValueAtNormIn samples the raster at normalized window coordinates.
func (f *Field) ValueAtNormIn(win Window, n vec.Vec2) float64 {
	d := float64(2 * win.Radius)
	x := (n.X+1)/2*d + float64(win.Center.X-win.Radius)
	y := (n.Y+1)/2*d + float64(win.Center.Y-win.Radius)
	return f.sample(x, y)
}

// ValueAtPolarIn samples the raster at polar window coordinates.
func (f *Field) ValueAtPolarIn(win Window, phi, r float64) float64 {
	return f.ValueAtNormIn(win, FromPolar(phi, r))
}

// SoakRadius maps the normalized radius r of a target pixel to the radius
// where its value is taken from.  With linear set the mapping is
// r² + (1-r)·c·√r, which pins the centre and the rim of the circle;
// otherwise it is c·√r.
func SoakRadius(r, c float64, linear bool) float64 {
	if linear {
		return r*r + (1-r)*c*math.Sqrt(r)
	}
	return c * math.Sqrt(r)
}

// Soak applies the pincushion distortion of intensity c to the disc
// described by win.  All samples are taken from the raster as it was
// before the call.  If the window does not fit into the raster, nothing
// is changed and false is returned.
func (f *Field) Soak(win Window, c float64, linear bool) bool {
	if !f.Fits(win) {
		return false
	}
	res := cloneGray(f.img)
	b := win.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n, _ := f.NormIn(win, image.Point{X: x, Y: y})
			if n.X*n.X+n.Y*n.Y >= 1 {
				continue
			}
			phi, r := ToPolar(n)
			v := f.ValueAtPolarIn(win, phi, SoakRadius(r, c, linear))
			res.Pix[y*res.Stride+x] = toUint8(v)
		}
	}
	f.img = res
	return true
}

// SoakMasked applies the soak distortion in global coordinates to every
// pixel where area is nonzero.  The area must have the size of the raster.
func (f *Field) SoakMasked(area *image.Gray, c float64, linear bool) {
	res := cloneGray(f.img)
	w, h := f.size()
	for y := range h {
		for x := range w {
			if area.Pix[area.PixOffset(area.Rect.Min.X+x, area.Rect.Min.Y+y)] == 0 {
				continue
			}
			phi, r := f.Polar(image.Point{X: x, Y: y})
			v := f.ValueAtPolar(phi, SoakRadius(r, c, linear))
			res.Pix[y*res.Stride+x] = toUint8(v)
		}
	}
	f.img = res
}

func toUint8(v float64) uint8 {
	return uint8(min(max(math.Round(v), 0), 255))
}

func cloneGray(img *image.Gray) *image.Gray {
	res := image.NewGray(img.Rect)
	copy(res.Pix, img.Pix)
	return res
}

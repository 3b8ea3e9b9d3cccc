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

// Package filter implements the small set of neighbourhood filters used on
// fingerprint rasters: box and median blur, binary thresholds and edge
// detection.
//
// All functions take and return *image.Gray.  Results are newly allocated
// and have their origin at (0, 0).
package filter

import (
	"image"
	"slices"
)

// Clone returns a copy of src with its origin moved to (0, 0).
func Clone(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return dst
}

// reflect maps i into [0, n) by mirroring at the borders without
// repeating the border pixel.
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

func clampIndex(i, n int) int {
	return min(max(i, 0), n-1)
}

// BoxBlur averages src over k×k windows, with mirrored borders.
// k must be odd.
func BoxBlur(src *image.Gray, k int) *image.Gray {
	src = Clone(src)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(src.Rect)
	if w == 0 || h == 0 {
		return dst
	}
	half := k / 2

	rows := make([]int, w*h)
	for y := range h {
		line := src.Pix[y*src.Stride:]
		for x := range w {
			sum := 0
			for d := -half; d <= half; d++ {
				sum += int(line[reflect(x+d, w)])
			}
			rows[y*w+x] = sum
		}
	}

	n := k * k
	for y := range h {
		for x := range w {
			sum := 0
			for d := -half; d <= half; d++ {
				sum += rows[reflect(y+d, h)*w+x]
			}
			dst.Pix[y*dst.Stride+x] = uint8((sum + n/2) / n)
		}
	}
	return dst
}

// MedianBlur replaces every pixel by the median of its k×k neighbourhood.
// Border pixels are replicated.  k must be odd.
func MedianBlur(src *image.Gray, k int) *image.Gray {
	src = Clone(src)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(src.Rect)
	half := k / 2

	window := make([]uint8, 0, k*k)
	for y := range h {
		for x := range w {
			window = window[:0]
			for dy := -half; dy <= half; dy++ {
				line := src.Pix[clampIndex(y+dy, h)*src.Stride:]
				for dx := -half; dx <= half; dx++ {
					window = append(window, line[clampIndex(x+dx, w)])
				}
			}
			slices.Sort(window)
			dst.Pix[y*dst.Stride+x] = window[len(window)/2]
		}
	}
	return dst
}

// Threshold returns a binary image which is 255 where src is greater
// than t and 0 elsewhere.  With invert set, the two values are swapped.
func Threshold(src *image.Gray, t uint8, invert bool) *image.Gray {
	src = Clone(src)
	dst := image.NewGray(src.Rect)
	hi, lo := uint8(255), uint8(0)
	if invert {
		hi, lo = lo, hi
	}
	for i, v := range src.Pix {
		if v > t {
			dst.Pix[i] = hi
		} else {
			dst.Pix[i] = lo
		}
	}
	return dst
}

var neighbours4 = []image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// Edges returns the nonzero pixels of src which have a zero pixel among
// their four direct neighbours, in row-major order.  Pixels outside the
// image do not count as zero.
func Edges(src *image.Gray) []image.Point {
	b := src.Bounds()
	var res []image.Point
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if src.Pix[src.PixOffset(x, y)] == 0 {
				continue
			}
			for _, d := range neighbours4 {
				q := image.Point{X: x + d.X, Y: y + d.Y}
				if q.In(b) && src.Pix[src.PixOffset(q.X, q.Y)] == 0 {
					res = append(res, image.Point{X: x, Y: y})
					break
				}
			}
		}
	}
	return res
}

// NonZero returns the coordinates of all nonzero pixels, in row-major
// order.
func NonZero(src *image.Gray) []image.Point {
	b := src.Bounds()
	var res []image.Point
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := src.PixOffset(b.Min.X, y)
		for x, v := range src.Pix[off : off+b.Dx()] {
			if v != 0 {
				res = append(res, image.Point{X: b.Min.X + x, Y: y})
			}
		}
	}
	return res
}

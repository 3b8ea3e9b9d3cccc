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

package mask

import "image"

// Fingerprint is the region of interest of a fingerprint raster.
// It is shared read-only by all generators working on the same raster.
type Fingerprint struct {
	// Mask has the size of the raster.  Fingerprint pixels are 255,
	// background pixels are 0.
	Mask *image.Gray

	// Footprint is the bounding box of the largest mask region.
	Footprint image.Rectangle
}

// New computes mask and footprint of img.
func New(img *image.Gray) (*Fingerprint, error) {
	return NewWith(img, BuildOptions{Hull: true})
}

// NewWith is like [New] but allows to choose the mask options.
func NewWith(img *image.Gray, opt BuildOptions) (*Fingerprint, error) {
	m, err := BuildWith(img, opt)
	if err != nil {
		return nil, err
	}
	fp, err := Extent(m)
	if err != nil {
		return nil, err
	}
	return &Fingerprint{Mask: m, Footprint: fp}, nil
}

// Inside reports whether p is a fingerprint pixel.
// Points outside the raster are never inside.
func (f *Fingerprint) Inside(p image.Point) bool {
	if !p.In(f.Mask.Rect) {
		return false
	}
	return f.Mask.Pix[f.Mask.PixOffset(p.X, p.Y)] != 0
}

// Width returns the width of the footprint.
func (f *Fingerprint) Width() int { return f.Footprint.Dx() }

// Height returns the height of the footprint.
func (f *Fingerprint) Height() int { return f.Footprint.Dy() }

// BiggerSide returns the larger of footprint width and height.
func (f *Fingerprint) BiggerSide() int {
	return max(f.Footprint.Dx(), f.Footprint.Dy())
}

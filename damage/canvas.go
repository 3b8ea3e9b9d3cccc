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

package damage

import (
	"image"

	"seehuhn.de/go/fpdamage/errors"
	"seehuhn.de/go/fpdamage/filter"
	"seehuhn.de/go/fpdamage/mask"
	"seehuhn.de/go/fpdamage/raster"
)

// Canvas holds the rasters a generator works on.
//
// Damage shapes are first drawn onto the scratch raster Damage.
// [Canvas.DrawOnBackground] copies them into the working raster, and
// [Canvas.CropByMask] then restores every pixel outside the fingerprint
// from the untouched original.  DrawOnBackground must come first.
type Canvas struct {
	// Original is a copy of the input raster.  It is never modified.
	Original *image.Gray

	// Background is the working raster which receives the damage.
	Background *image.Gray

	// Damage is the scratch raster of the current attempt.  Nonzero
	// pixels are proposed damage.
	Damage *image.Gray

	// Fingerprint is the region where damage may appear.
	Fingerprint *mask.Fingerprint

	paint *raster.Painter
}

// NewCanvas prepares a canvas for img.  The caller's raster is copied and
// never modified.
func NewCanvas(img *image.Gray, fp *mask.Fingerprint) (*Canvas, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New(errors.ErrCodeInputUnavailable, "no raster")
	}
	if fp == nil || fp.Mask == nil {
		return nil, errors.New(errors.ErrCodeDegenerateMask, "no fingerprint mask")
	}
	orig := filter.Clone(img)
	if fp.Mask.Rect != orig.Rect {
		return nil, errors.New(errors.ErrCodeDegenerateMask,
			"mask size %v does not match raster size %v", fp.Mask.Rect.Size(), orig.Rect.Size())
	}
	if fp.Mask.Stride != orig.Stride {
		fp = &mask.Fingerprint{Mask: filter.Clone(fp.Mask), Footprint: fp.Footprint}
	}
	c := &Canvas{
		Original:    orig,
		Background:  filter.Clone(orig),
		Fingerprint: fp,
		paint:       raster.NewPainter(),
	}
	c.NewDamage()
	return c, nil
}

// Width returns the width of the raster.
func (c *Canvas) Width() int { return c.Original.Rect.Dx() }

// Height returns the height of the raster.
func (c *Canvas) Height() int { return c.Original.Rect.Dy() }

// NewDamage replaces the scratch raster by a fresh, all zero one.
func (c *Canvas) NewDamage() *image.Gray {
	c.Damage = image.NewGray(c.Original.Rect)
	return c.Damage
}

// DrawOnBackground overwrites the working raster with every nonzero pixel
// of the scratch raster.
func (c *Canvas) DrawOnBackground() {
	for i, v := range c.Damage.Pix {
		if v != 0 {
			c.Background.Pix[i] = v
		}
	}
}

// CropByMask restores all pixels outside the fingerprint from the
// original raster.  Calling it twice has the same effect as calling it
// once.
func (c *Canvas) CropByMask() {
	m := c.Fingerprint.Mask
	for i, v := range m.Pix {
		if v == 0 {
			c.Background.Pix[i] = c.Original.Pix[i]
		}
	}
}

// DamagePixels returns the nonzero pixels of the scratch raster.
func (c *Canvas) DamagePixels() []image.Point {
	return filter.NonZero(c.Damage)
}

// MaskPixels returns all fingerprint pixels.
func (c *Canvas) MaskPixels() []image.Point {
	return filter.NonZero(c.Fingerprint.Mask)
}

// BackgroundPixels returns all pixels outside the fingerprint.
func (c *Canvas) BackgroundPixels() []image.Point {
	m := c.Fingerprint.Mask
	var res []image.Point
	for y := range c.Height() {
		for x := range c.Width() {
			if m.Pix[y*m.Stride+x] == 0 {
				res = append(res, image.Point{X: x, Y: y})
			}
		}
	}
	return res
}

// BiggerSide returns the larger of raster width and height.
func (c *Canvas) BiggerSide() int {
	return max(c.Width(), c.Height())
}

// BiggerFingerprintSide returns the larger side of the footprint.
func (c *Canvas) BiggerFingerprintSide() int {
	return c.Fingerprint.BiggerSide()
}

// Inside reports whether p is a fingerprint pixel.
func (c *Canvas) Inside(p image.Point) bool {
	return c.Fingerprint.Inside(p)
}

// Snapshot returns a copy of the working raster.
func (c *Canvas) Snapshot() *image.Gray {
	return filter.Clone(c.Background)
}

// Restore makes a copy of s the working raster.
func (c *Canvas) Restore(s *image.Gray) {
	copy(c.Background.Pix, s.Pix)
}

// clamp moves p to the nearest pixel of the raster.
func (c *Canvas) clamp(p image.Point) image.Point {
	return image.Point{
		X: min(max(p.X, 0), c.Width()-1),
		Y: min(max(p.Y, 0), c.Height()-1),
	}
}

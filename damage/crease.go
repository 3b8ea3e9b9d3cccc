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
	"math/rand/v2"

	"seehuhn.de/go/fpdamage/filter"
)

// Crease draws thin white skin creases.
type Crease struct {
	curve *Curve
}

// NewCrease returns a crease generator working on c.
func NewCrease(c *Canvas, rng *rand.Rand, opt *Options) *Crease {
	return &Crease{curve: newCurve(c, rng, opt.withDefaults())}
}

// Curve returns the curve of the most recent crease.
func (cr *Crease) Curve() *Curve {
	return cr.curve
}

// Generate draws one crease into the working raster.  Random classes are
// replaced by concrete ones.  On failure the working raster is left
// unchanged.
func (cr *Crease) Generate(length Length, orientation Orientation, thickness Thickness) (*Stroke, error) {
	c := cr.curve
	c.reset(length, orientation, thickness)
	if err := c.place(cr); err != nil {
		return nil, err
	}
	c.thicken(cr)
	cr.roughen()

	c.DrawOnBackground()
	c.CropByMask()
	c.log.Debug("crease", "length", c.Length, "orientation", c.Orientation,
		"thickness", c.Thickness, "points", len(c.Points), "width", c.MaxWidth)
	return c.stroke(KindCrease), nil
}

// accept densifies the control points and keeps the attempt if strictly
// more than half of the points lie inside the fingerprint.
func (cr *Crease) accept(c *Curve) bool {
	c.densify()
	if c.Thickness == ThicknessThick {
		c.densify()
		c.densify()
	}
	return c.outside() < len(c.Points)/2
}

func (cr *Crease) widths(c *Curve) (int, int) {
	switch c.Thickness {
	case ThicknessThick:
		return c.maxWidth(20, 1, 2), 2
	case ThicknessMedium:
		return c.maxWidth(35, 1, 2), 2
	default:
		return c.maxWidth(60, 2, 3), 2
	}
}

func (cr *Crease) peak(c *Curve, segments int) int {
	return c.rng.IntN(segments)
}

func (cr *Crease) segment(*Curve, image.Point, image.Point, int) {}

// roughen erases small discs along the border of the crease.
func (cr *Crease) roughen() {
	c := cr.curve
	for _, p := range filter.Edges(c.Damage) {
		if chance(c.rng, 4, 10) {
			c.erase(p, c.MaxWidth/7)
		}
		if chance(c.rng, 1, 2) {
			c.erase(p, 1)
		}
	}
}

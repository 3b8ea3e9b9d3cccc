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

	"seehuhn.de/go/fpdamage/distort"
	"seehuhn.de/go/fpdamage/errors"
	"seehuhn.de/go/fpdamage/filter"
	"seehuhn.de/go/fpdamage/mask"
)

const (
	medianSize         = 5
	distortedThreshold = 100
	finalThreshold     = 200
)

// Scar draws scars: wide white curves with lumpy borders, optionally
// surrounded by distorted ridges, a black outline and black speckles.
type Scar struct {
	curve     *Curve
	intensity float64

	// Clean disables the stippling along the segments and uses wider
	// strokes instead.
	Clean bool

	// Distortion pulls the ridges around the scar towards its centre
	// line.  It is only available for thin scars.
	Distortion bool

	// Outline draws black speckles along the border of the scar.
	Outline bool

	// Artifacts adds black dots and patches inside the scar.
	Artifacts bool

	// Cluster adds one region of denser patches when Artifacts is set.
	Cluster bool
}

// NewScar returns a scar generator working on c.
func NewScar(c *Canvas, rng *rand.Rand, opt *Options) *Scar {
	opt = opt.withDefaults()
	return &Scar{
		curve:     newCurve(c, rng, opt),
		intensity: opt.Intensity,
		Cluster:   true,
	}
}

// Curve returns the curve of the most recent scar.
func (s *Scar) Curve() *Curve {
	return s.curve
}

// Generate draws one scar into the working raster.
//
// Distortion can only be combined with thin scars; a random thickness is
// then resolved to thin, any other thickness is rejected with
// [errors.ErrCodeUnsupportedCombination] before anything is drawn.
func (s *Scar) Generate(length Length, orientation Orientation, thickness Thickness) (*Stroke, error) {
	if s.Distortion {
		switch thickness {
		case ThicknessRandom:
			thickness = ThicknessThin
		case ThicknessThin:
		default:
			return nil, errors.New(errors.ErrCodeUnsupportedCombination,
				"distortion is only supported for thin scars, not %s", thickness)
		}
	}

	c := s.curve
	c.reset(length, orientation, thickness)
	if err := c.place(s); err != nil {
		return nil, err
	}
	c.densify()
	switch {
	case s.Clean && c.Thickness == ThicknessThick:
		c.densify()
		c.densify()
	case !s.Clean:
		for range c.rng.IntN(3) {
			c.densify()
		}
	}
	c.thicken(s)
	s.roughen()

	if s.Distortion {
		s.distort()
		bg := filter.Threshold(filter.MedianBlur(c.Background, medianSize), distortedThreshold, false)
		copy(c.Background.Pix, bg.Pix)
		if s.Outline || s.Artifacts {
			s.remask()
		}
	}
	if s.Outline {
		s.outline()
	}
	c.DrawOnBackground()
	if s.Artifacts {
		s.artifacts()
	}
	c.CropByMask()
	if !s.Distortion {
		bg := filter.Threshold(c.Background, finalThreshold, false)
		copy(c.Background.Pix, bg.Pix)
	}

	c.log.Debug("scar", "length", c.Length, "orientation", c.Orientation,
		"thickness", c.Thickness, "points", len(c.Points), "width", c.MaxWidth)
	return c.stroke(KindScar), nil
}

// accept keeps an attempt if at most one control point lies outside the
// fingerprint.
func (s *Scar) accept(c *Curve) bool {
	return c.outside() <= 1
}

func (s *Scar) widths(c *Curve) (int, int) {
	floor := 2
	if c.Thickness == ThicknessThick {
		floor = 5
	}
	divisor := map[Thickness]int{ThicknessThin: 60, ThicknessMedium: 35, ThicknessThick: 25}
	if s.Clean {
		divisor = map[Thickness]int{ThicknessThin: 30, ThicknessMedium: 10, ThicknessThick: 6}
	}
	return c.maxWidth(divisor[c.Thickness], 1, 2), floor
}

// peak avoids the two outermost segments at both ends where possible.
func (s *Scar) peak(c *Curve, segments int) int {
	if segments > 3 {
		return randRange(c.rng, 2, segments-1)
	}
	return segments / 2
}

// segment stipples discs along the segment from a to b, so that the
// border of the scar becomes lumpy.
func (s *Scar) segment(c *Curve, a, b image.Point, width int) {
	if s.Clean {
		return
	}
	radius := max(width-3, 1)
	if v := radius / 3; v > 0 {
		radius += randRange(c.rng, 0, v+1)
	}
	n := 2 * distance(a, b) / radius
	if n == 0 {
		n = c.rng.IntN(2)
	}

	variance := 2
	if width > 5 {
		variance = radius / 3
	}
	for _, p := range linspace(a, b, n) {
		for range c.rng.IntN(10) {
			var d image.Point
			if variance > 0 {
				d.X = randRange(c.rng, -variance, variance+1)
				d.Y = randRange(c.rng, -variance, variance+1)
			} else {
				d.X = []int{-1, 2}[c.rng.IntN(2)]
				d.Y = []int{-1, 2}[c.rng.IntN(2)]
			}
			c.paint.Disc(c.Damage, p.Add(d), radius, 255)
		}
	}
}

// roughen erases discs along the border of the scar.  Short scars get
// fewer and smaller bites.
func (s *Scar) roughen() {
	c := s.curve
	for _, p := range filter.Edges(c.Damage) {
		if c.Length != LengthShort {
			if chance(c.rng, 2, 10) {
				radius := c.MaxWidth / 3
				if c.Thickness == ThicknessThick {
					radius = c.MaxWidth / 4
				}
				c.erase(p, radius)
			}
		} else if chance(c.rng, 1, 30) {
			c.erase(p, c.MaxWidth/5)
		}
		if chance(c.rng, 1, 40) {
			c.erase(p, 2)
		}
	}
}

// distort soaks the working raster in circles along the control points
// inside the fingerprint.  Long segments get extra circles in between.
func (s *Scar) distort() {
	c := s.curve
	radius := 4 * c.MaxWidth
	if c.Length == LengthShort {
		radius = 3 * c.MaxWidth
	}
	step := max(radius/3, 1)

	f := distort.New(c.Background)
	soak := func(p image.Point) {
		s.soak(f, p, radius)
	}

	var pending image.Point
	waiting := false
	for i := 0; i+1 < len(c.Points); i++ {
		a, b := c.Points[i], c.Points[i+1]
		if !c.Inside(a) {
			continue
		}
		d := distance(a, b)
		switch {
		case d > step:
			soak(a)
		case !waiting:
			pending, waiting = a, true
		case distance(pending, a) > step:
			soak(a)
			waiting = false
		}
		if n := d / step; n > 2 {
			between := linspace(a, b, n)
			for _, p := range between[1 : n-1] {
				soak(p)
			}
		}
	}
	copy(c.Background.Pix, f.Image().Pix)
}

// soak applies the rim-preserving soak distortion in the circle of the
// given radius around p.
func (s *Scar) soak(f *distort.Field, p image.Point, radius int) {
	win := distort.Window{Center: p, Radius: radius}
	if !f.Soak(win, s.intensity, true) {
		s.curve.log.Debug("soak window outside raster", "center", p, "radius", radius)
	}
}

// remask replaces the fingerprint mask by the plain region mask of the
// distorted raster.  If no region can be found, the old mask is kept.
func (s *Scar) remask() {
	c := s.curve
	fp, err := mask.NewWith(c.Background, mask.BuildOptions{})
	if err != nil {
		c.log.Debug("keeping mask of undistorted raster", "err", err)
		return
	}
	c.Fingerprint = fp
}

// outline scatters black dots along the border of the scar.
func (s *Scar) outline() {
	c := s.curve
	variance := c.MaxWidth / 6
	for _, p := range filter.Edges(c.Damage) {
		if !chance(c.rng, 8, 10) {
			continue
		}
		c.paint.Disc(c.Background, p, 1, 0)
		q := p
		for range randRange(c.rng, 3, 10) {
			q.X += randRange(c.rng, -variance, variance+1)
			q.Y += randRange(c.rng, -variance, variance+1)
			c.paint.Disc(c.Background, q, 1, 0)
		}
	}
}

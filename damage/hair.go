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
	"slices"

	"github.com/charmbracelet/log"

	"seehuhn.de/go/fpdamage/errors"
)

// hairSamples is the number of steps of the curve parameter.
const hairSamples = 1000

// Hair draws a stray hair: a thin gray quadratic Bézier curve over a
// faint crease.
type Hair struct {
	*Canvas

	rng    *rand.Rand
	limits Limits
	log    *log.Logger

	// Length is the resolved length class of the most recent hair.
	Length HairLength

	// Samples are the points of the most recent hair, clamped to the
	// raster.
	Samples []image.Point
}

// NewHair returns a hair generator working on c.
func NewHair(c *Canvas, rng *rand.Rand, opt *Options) *Hair {
	opt = opt.withDefaults()
	return &Hair{Canvas: c, rng: rng, limits: opt.Limits, log: opt.Logger}
}

// Generate draws one hair into the working raster.
//
// Short hairs connect two distant fingerprint pixels.  Long hairs cross
// the whole raster from one side to the opposite one and end outside the
// fingerprint.
func (h *Hair) Generate(length HairLength) (*Stroke, error) {
	h.Length = length.resolve(h.rng)

	var inside []image.Point
	if h.Length == HairShort {
		inside = h.MaskPixels()
		if len(inside) == 0 {
			return nil, errors.New(errors.ErrCodeDegenerateMask, "no fingerprint pixels")
		}
	}

	var ctrl [3]image.Point
	accepted := false
	for attempt := range h.limits.PlacementAttempts {
		var err error
		ctrl, err = h.controlPoints(inside)
		if err != nil {
			return nil, err
		}
		h.Samples = h.bezier(ctrl)
		if h.acceptable() {
			accepted = true
			break
		}
		h.log.Debug("hair rejected", "attempt", attempt, "start", ctrl[0], "end", ctrl[2])
	}
	if !accepted {
		return nil, errors.New(errors.ErrCodeGeometryInfeasible,
			"no %s hair crossing the fingerprint after %d attempts", h.Length, h.limits.PlacementAttempts)
	}

	width := h.draw()
	h.fade()
	h.log.Debug("hair", "length", h.Length, "width", width)
	return &Stroke{
		Kind:     KindHair,
		Hair:     h.Length,
		Points:   ctrl[:],
		MaxWidth: width,
		Span:     distance(h.Samples[0], h.Samples[len(h.Samples)-1]),
	}, nil
}

// controlPoints returns start, control and end point of a new hair.
func (h *Hair) controlPoints(inside []image.Point) ([3]image.Point, error) {
	w, ht := h.Width(), h.Height()
	var start, end image.Point
	if h.Length == HairLong {
		if h.rng.IntN(2) == 0 {
			start = image.Point{X: 0, Y: h.rng.IntN(ht)}
			end = image.Point{X: w, Y: h.rng.IntN(ht)}
		} else {
			start = image.Point{X: h.rng.IntN(w), Y: 0}
			end = image.Point{X: h.rng.IntN(w), Y: ht}
		}
	} else {
		var err error
		start, end, err = h.distantPair(inside)
		if err != nil {
			return [3]image.Point{}, err
		}
	}
	ctrl := image.Point{X: h.rng.IntN(w), Y: h.rng.IntN(ht)}
	return [3]image.Point{start, ctrl, end}, nil
}

// distantPair draws two fingerprint pixels further apart than a quarter
// of the larger raster side.
func (h *Hair) distantPair(inside []image.Point) (image.Point, image.Point, error) {
	minDist := float64(h.BiggerSide()) / 4
	for range h.limits.SampleAttempts {
		a := inside[h.rng.IntN(len(inside))]
		b := inside[h.rng.IntN(len(inside))]
		d := a.Sub(b)
		if float64(d.X*d.X+d.Y*d.Y) > minDist*minDist {
			return a, b, nil
		}
	}
	return image.Point{}, image.Point{}, errors.New(errors.ErrCodeGeometryInfeasible,
		"no two fingerprint pixels %.0f pixels apart after %d attempts", minDist, h.limits.SampleAttempts)
}

// bezier samples the quadratic Bézier curve with the given control
// points.
func (h *Hair) bezier(ctrl [3]image.Point) []image.Point {
	p0, p1, p2 := ctrl[0], ctrl[1], ctrl[2]
	res := make([]image.Point, hairSamples+1)
	for i := range res {
		t := float64(i) / hairSamples
		a, b, c := (1-t)*(1-t), 2*(1-t)*t, t*t
		res[i] = h.clamp(image.Point{
			X: int(a*float64(p0.X) + b*float64(p1.X) + c*float64(p2.X)),
			Y: int(a*float64(p0.Y) + b*float64(p1.Y) + c*float64(p2.Y)),
		})
	}
	return res
}

func (h *Hair) acceptable() bool {
	someInside := slices.ContainsFunc(h.Samples, h.Inside)
	if h.Length == HairLong {
		return someInside && !h.Inside(h.Samples[len(h.Samples)-1])
	}
	return someInside
}

// draw paints the crease under the hair and then the hair itself.
// It returns the width of the crease.
func (h *Hair) draw() int {
	width := h.BiggerFingerprintSide() / 150
	width = max(width+randRange(h.rng, 0, width), 3)

	pts := slices.Compact(slices.Clone(h.Samples))
	h.NewDamage()
	h.paint.Polyline(h.Damage, pts, width, 255)
	h.dab(width)
	h.DrawOnBackground()
	h.CropByMask()

	opacity := uint8(randRange(h.rng, 180, 210))
	h.paint.Hairline(h.Background, pts, opacity)
	h.CropByMask()
	return width
}

// dab paints discs with random offsets along the crease, which makes its
// border irregular.
func (h *Hair) dab(width int) {
	radius := max(width-1, 1)
	variance := 2
	if width > 5 {
		variance = radius / 3
	}
	for _, p := range h.Samples {
		for range h.rng.IntN(3) {
			var d image.Point
			if variance > 0 {
				d.X = randRange(h.rng, -variance, variance+1)
				d.Y = randRange(h.rng, -variance, variance+1)
			} else {
				d.X = 2*h.rng.IntN(2) - 1
				d.Y = 2*h.rng.IntN(2) - 1
			}
			h.paint.Disc(h.Damage, p.Add(d), radius, 255)
		}
	}
}

// fade lowers the opacity of the hair by white dots.
func (h *Hair) fade() {
	level := randRange(h.rng, 1, 6)
	for _, p := range h.Samples {
		if chance(h.rng, level, 10) {
			h.paint.Disc(h.Background, p, 1, 255)
		}
	}
	h.CropByMask()
}

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
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"seehuhn.de/go/fpdamage/errors"
)

// Wrinkle composes several creases into a wrinkled fingerprint.
type Wrinkle struct {
	crease *Crease
	canvas *Canvas
	rng    *rand.Rand
	log    *log.Logger

	maxOverlap float64
	attempts   int

	// union marks all pixels covered by accepted creases.
	union []bool
}

// NewWrinkle returns a wrinkle generator working on c.
func NewWrinkle(c *Canvas, rng *rand.Rand, opt *Options) *Wrinkle {
	opt = opt.withDefaults()
	return &Wrinkle{
		crease:     NewCrease(c, rng, opt),
		canvas:     c,
		rng:        rng,
		log:        opt.Logger,
		maxOverlap: opt.MaxOverlap,
		attempts:   opt.Limits.OverlapAttempts,
		union:      make([]bool, c.Width()*c.Height()),
	}
}

// Generate draws the creases of the given severity level (1 to 3).
// Level 0 chooses a random level.  If any crease cannot be placed, the
// working raster is restored to its state before the call.
func (w *Wrinkle) Generate(level int) (int, []*Stroke, error) {
	if level == 0 {
		level = 1 + w.rng.IntN(3)
	}
	snap := w.canvas.Snapshot()
	union := append([]bool(nil), w.union...)

	var strokes []*Stroke
	var err error
	switch level {
	case 1:
		strokes, err = w.level1()
	case 2:
		strokes, err = w.level2()
	case 3:
		strokes, err = w.level3()
	default:
		return level, nil, errors.New(errors.ErrCodeInvalidConfig, "invalid wrinkle level %d", level)
	}
	if err != nil {
		w.canvas.Restore(snap)
		w.union = union
		return level, nil, err
	}
	return level, strokes, nil
}

// orientation draws x uniformly from [0, n) and returns horizontal for
// x < horizontal, vertical for x < vertical and diagonal otherwise.
func (w *Wrinkle) orientation(n, horizontal, vertical int) Orientation {
	x := w.rng.IntN(n)
	switch {
	case x < horizontal:
		return OrientationHorizontal
	case x < vertical:
		return OrientationVertical
	default:
		return OrientationDiagonal
	}
}

func (w *Wrinkle) longOrMedium() Length {
	if w.rng.IntN(2) == 0 {
		return LengthLong
	}
	return LengthMedium
}

func (w *Wrinkle) level1() ([]*Stroke, error) {
	total := randRange(w.rng, 4, 7)
	primary := randRange(w.rng, 2, 4)
	return w.mixed(total, primary, 15)
}

func (w *Wrinkle) level2() ([]*Stroke, error) {
	total := randRange(w.rng, 6, 13)
	primary := randRange(w.rng, 2, 7)
	return w.mixed(total, primary, 16)
}

// mixed draws primary long or medium creases followed by short ones up
// to the total.  Short creases are horizontal in shortHorizontal out of
// 20 cases and vertical otherwise.
func (w *Wrinkle) mixed(total, primary, shortHorizontal int) ([]*Stroke, error) {
	var res []*Stroke
	for range primary {
		s, err := w.add(w.longOrMedium(), w.orientation(20, 16, 18), ThicknessThin)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	for range max(total-primary, 0) {
		s, err := w.add(LengthShort, w.orientation(20, shortHorizontal, 20), ThicknessThin)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}

func (w *Wrinkle) level3() ([]*Stroke, error) {
	var res []*Stroke
	add := func(l Length, o Orientation, t Thickness) error {
		s, err := w.add(l, o, t)
		if err == nil {
			res = append(res, s)
		}
		return err
	}

	total := randRange(w.rng, 12, 21)
	if w.rng.IntN(2) == 1 {
		if err := add(LengthLong, OrientationRandom, ThicknessThick); err != nil {
			return nil, err
		}
	}
	medium := randRange(w.rng, 1, 3)
	for range medium {
		if err := add(w.longOrMedium(), w.orientation(20, 16, 18), ThicknessMedium); err != nil {
			return nil, err
		}
	}
	long := randRange(w.rng, 0, 9)
	for range long {
		if err := add(LengthLong, w.orientation(20, 15, 18), ThicknessThin); err != nil {
			return nil, err
		}
	}
	for range total - medium - long {
		l := LengthShort
		if w.rng.IntN(2) == 1 {
			l = LengthMedium
		}
		if err := add(l, w.orientation(11, 6, 9), ThicknessThin); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// add draws one crease.  A crease which shares more than the allowed
// fraction of its pixels with earlier creases is removed again and
// replaced by a new one.
func (w *Wrinkle) add(l Length, o Orientation, t Thickness) (*Stroke, error) {
	for attempt := range w.attempts {
		snap := w.canvas.Snapshot()
		s, err := w.crease.Generate(l, o, t)
		if err != nil {
			return nil, err
		}

		pixels := w.canvas.DamagePixels()
		overlap := 0
		for _, p := range pixels {
			if w.union[p.Y*w.canvas.Width()+p.X] {
				overlap++
			}
		}
		ratio := 0.0
		if len(pixels) > 0 {
			ratio = float64(overlap) / float64(len(pixels))
		}
		if ratio > w.maxOverlap {
			w.log.Debug("crease overlaps", "attempt", attempt, "ratio", ratio)
			w.canvas.Restore(snap)
			continue
		}

		for _, p := range pixels {
			w.union[p.Y*w.canvas.Width()+p.X] = true
		}
		s.Overlap = ratio
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeGeometryInfeasible,
		"no crease with at most %.0f%% overlap after %d attempts", 100*w.maxOverlap, w.attempts)
}

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

	"seehuhn.de/go/fpdamage/errors"
	"seehuhn.de/go/fpdamage/mask"
)

// Kind is the type of damage.
type Kind int

// Damage kinds.
const (
	KindCrease Kind = iota
	KindScar
	KindHair
)

func (k Kind) String() string {
	switch k {
	case KindCrease:
		return "crease"
	case KindScar:
		return "scar"
	case KindHair:
		return "hair"
	default:
		return "invalid"
	}
}

// Stroke describes one curve drawn into a raster.
type Stroke struct {
	Kind        Kind
	Length      Length
	Orientation Orientation
	Thickness   Thickness
	Hair        HairLength

	// Points are the control points.  For hairs these are start point,
	// Bézier control point and end point.
	Points []image.Point

	// Widths holds the stroke width of each segment of a crease or scar.
	Widths []int

	MaxWidth int

	// Span is the distance between the end points.
	Span int

	// Overlap is the fraction of pixels shared with earlier creases of
	// the same wrinkle composition.
	Overlap float64
}

// Request describes the damage to apply to one raster.
type Request struct {
	Kind Kind

	// Level is the wrinkle severity, 1 to 3, or 0 for random.
	Level int

	// Length, Orientation and Thickness select the scar classes.
	Length      Length
	Orientation Orientation
	Thickness   Thickness

	// Hair selects the hair length class.
	Hair HairLength

	// Scar toggles.
	Clean      bool
	Outline    bool
	Patches    bool
	Distortion bool
}

// Validate checks that the request describes damage which can be
// generated.
func (r *Request) Validate() error {
	switch {
	case r.Kind < KindCrease || r.Kind > KindHair:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid damage kind %d", r.Kind)
	case r.Level < 0 || r.Level > 3:
		return errors.New(errors.ErrCodeInvalidConfig, "wrinkle level %d not in 1-3", r.Level)
	case !r.Length.valid():
		return errors.New(errors.ErrCodeInvalidConfig, "invalid length class %d", r.Length)
	case !r.Orientation.valid():
		return errors.New(errors.ErrCodeInvalidConfig, "invalid orientation class %d", r.Orientation)
	case !r.Thickness.valid():
		return errors.New(errors.ErrCodeInvalidConfig, "invalid thickness class %d", r.Thickness)
	case !r.Hair.valid():
		return errors.New(errors.ErrCodeInvalidConfig, "invalid hair class %d", r.Hair)
	}
	if r.Kind == KindScar && r.Distortion && r.Thickness != ThicknessRandom && r.Thickness != ThicknessThin {
		return errors.New(errors.ErrCodeUnsupportedCombination,
			"distortion is only supported for thin scars, not %s", r.Thickness)
	}
	return nil
}

// Result is a damaged raster together with a description of the damage.
type Result struct {
	Image *image.Gray

	// Level is the resolved wrinkle level, or 0 for other kinds.
	Level int

	Strokes []*Stroke
}

// Generate applies the damage described by req to a copy of img.
// The raster img is not modified.
func Generate(img *image.Gray, req *Request, rng *rand.Rand, opt *Options) (*Result, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New(errors.ErrCodeInputUnavailable, "no raster")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	opt = opt.withDefaults()

	fp, err := mask.New(img)
	if err != nil {
		return nil, err
	}
	c, err := NewCanvas(img, fp)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	switch req.Kind {
	case KindCrease:
		w := NewWrinkle(c, rng, opt)
		res.Level, res.Strokes, err = w.Generate(req.Level)
	case KindScar:
		s := NewScar(c, rng, opt)
		s.Clean = req.Clean
		s.Outline = req.Outline
		s.Artifacts = req.Patches
		s.Distortion = req.Distortion
		var st *Stroke
		st, err = s.Generate(req.Length, req.Orientation, req.Thickness)
		res.Strokes = []*Stroke{st}
	case KindHair:
		var st *Stroke
		st, err = NewHair(c, rng, opt).Generate(req.Hair)
		res.Strokes = []*Stroke{st}
	}
	if err != nil {
		return nil, err
	}
	opt.Logger.Debug("generated", "kind", req.Kind, "strokes", len(res.Strokes))
	res.Image = c.Background
	return res, nil
}

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
	"strings"

	"seehuhn.de/go/fpdamage/errors"
)

// Length is the length class of a curve.  The zero value asks for a
// random choice.
type Length int

// Length classes.
const (
	LengthRandom Length = iota
	LengthShort
	LengthMedium
	LengthLong
)

// Orientation is the direction class of a curve.
type Orientation int

// Orientation classes.
const (
	OrientationRandom Orientation = iota
	OrientationHorizontal
	OrientationVertical
	OrientationDiagonal
)

// Thickness is the width class of a curve.
type Thickness int

// Thickness classes.
const (
	ThicknessRandom Thickness = iota
	ThicknessThin
	ThicknessMedium
	ThicknessThick
)

// HairLength is the length class of a hair.
type HairLength int

// Hair length classes.
const (
	HairRandom HairLength = iota
	HairShort
	HairLong
)

var (
	lengthNames      = []string{"random", "short", "medium", "long"}
	orientationNames = []string{"random", "horizontal", "vertical", "diagonal"}
	thicknessNames   = []string{"random", "thin", "medium", "thick"}
	hairNames        = []string{"random", "short", "long"}
)

func className(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "invalid"
	}
	return names[i]
}

func parseClass(kind string, names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	for i, name := range names {
		if s == name {
			return i, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown %s %q (valid: %s)",
		kind, s, strings.Join(names, ", "))
}

func (l Length) String() string      { return className(lengthNames, int(l)) }
func (o Orientation) String() string { return className(orientationNames, int(o)) }
func (t Thickness) String() string   { return className(thicknessNames, int(t)) }
func (h HairLength) String() string  { return className(hairNames, int(h)) }

// ParseLength converts a name like "short" into a Length.
// The empty string gives [LengthRandom].
func ParseLength(s string) (Length, error) {
	i, err := parseClass("length", lengthNames, s)
	return Length(i), err
}

// ParseOrientation converts a name like "diagonal" into an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	i, err := parseClass("orientation", orientationNames, s)
	return Orientation(i), err
}

// ParseThickness converts a name like "thin" into a Thickness.
func ParseThickness(s string) (Thickness, error) {
	i, err := parseClass("thickness", thicknessNames, s)
	return Thickness(i), err
}

// ParseHairLength converts "short" or "long" into a HairLength.
func ParseHairLength(s string) (HairLength, error) {
	i, err := parseClass("hair length", hairNames, s)
	return HairLength(i), err
}

func (l Length) valid() bool      { return l >= LengthRandom && l <= LengthLong }
func (o Orientation) valid() bool { return o >= OrientationRandom && o <= OrientationDiagonal }
func (t Thickness) valid() bool   { return t >= ThicknessRandom && t <= ThicknessThick }
func (h HairLength) valid() bool  { return h >= HairRandom && h <= HairLong }

// resolve replaces a random class by a concrete one.
func (l Length) resolve(rng *rand.Rand) Length {
	if l == LengthRandom {
		return Length(1 + rng.IntN(3))
	}
	return l
}

func (o Orientation) resolve(rng *rand.Rand) Orientation {
	if o == OrientationRandom {
		return Orientation(1 + rng.IntN(3))
	}
	return o
}

func (t Thickness) resolve(rng *rand.Rand) Thickness {
	if t == ThicknessRandom {
		return Thickness(1 + rng.IntN(3))
	}
	return t
}

func (h HairLength) resolve(rng *rand.Rand) HairLength {
	if h == HairRandom {
		return HairLength(1 + rng.IntN(2))
	}
	return h
}

// randRange returns a uniformly distributed integer in [lo, hi).
// If the range is empty, lo is returned.
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo)
}

// chance returns true with probability k/n.
func chance(rng *rand.Rand, k, n int) bool {
	return rng.IntN(n) < k
}

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
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"seehuhn.de/go/fpdamage/errors"
)

// style supplies the parts of curve construction which differ between
// creases and scars.
type style interface {
	// accept is called with the jittered control points of a fresh
	// attempt.  It may densify the points and reports whether the
	// attempt is kept.
	accept(c *Curve) bool

	// widths returns the maximum stroke width and the smallest width
	// used for any segment.
	widths(c *Curve) (peak, floor int)

	// peak chooses the index of the widest segment.
	peak(c *Curve, segments int) int

	// segment is called after each segment has been drawn.
	segment(c *Curve, a, b image.Point, width int)
}

// Curve is an irregular open polyline of varying width, the common
// skeleton of creases and scars.
type Curve struct {
	*Canvas

	rng    *rand.Rand
	limits Limits
	log    *log.Logger

	Length      Length
	Orientation Orientation
	Thickness   Thickness

	// Span is the distance between the end points, in pixels.
	Span int

	// Points are the control points of the accepted curve.
	Points []image.Point

	// Widths holds the stroke width of every segment.
	Widths []int

	// MaxWidth is the width of the widest segment.
	MaxWidth int
}

func newCurve(c *Canvas, rng *rand.Rand, opt *Options) *Curve {
	return &Curve{
		Canvas: c,
		rng:    rng,
		limits: opt.Limits,
		log:    opt.Logger,
	}
}

func (c *Curve) reset(l Length, o Orientation, t Thickness) {
	c.Length = l.resolve(c.rng)
	c.Orientation = o.resolve(c.rng)
	c.Thickness = t.resolve(c.rng)
	c.Span = 0
	c.Points = nil
	c.Widths = nil
	c.MaxWidth = 0
	c.NewDamage()
}

// place finds control points which s accepts.
func (c *Curve) place(s style) error {
	for attempt := range c.limits.PlacementAttempts {
		start, end, err := c.endpoints()
		if err != nil {
			return err
		}
		c.Span = distance(start, end)
		c.Points = linspace(start, end, c.controlCount())
		c.jitter()
		if s.accept(c) {
			return nil
		}
		c.log.Debug("curve rejected", "attempt", attempt, "start", start, "end", end)
	}
	return errors.New(errors.ErrCodeGeometryInfeasible,
		"no %s %s curve inside the fingerprint after %d attempts",
		c.Length, c.Orientation, c.limits.PlacementAttempts)
}

// endpoints chooses start and end point of a curve of the requested
// length and orientation which both lie inside the raster.
func (c *Curve) endpoints() (image.Point, image.Point, error) {
	w, h := c.Fingerprint.Width(), c.Fingerprint.Height()
	diagonal := math.Floor(math.Hypot(float64(w), float64(h)))

	for range c.limits.EndpointAttempts {
		var angle, scale float64
		switch c.Orientation {
		case OrientationHorizontal:
			angle = float64(180*c.rng.IntN(2) + randRange(c.rng, -10, 10))
			scale = float64(w)
		case OrientationVertical:
			angle = float64(90+180*c.rng.IntN(2)) + float64(randRange(c.rng, -10, 10))
			scale = float64(h)
		default:
			angle = float64(45+90*c.rng.IntN(4)) + float64(randRange(c.rng, -35, 35))
			scale = 0.7 * diagonal
		}
		lo, hi := c.lengthRange(scale)
		length := max(randRange(c.rng, lo, hi+1), 2)

		rad := angle * math.Pi / 180
		start := image.Point{X: c.rng.IntN(c.Width()), Y: c.rng.IntN(c.Height())}
		end := image.Point{
			X: int(float64(start.X) + float64(length)*math.Cos(rad)),
			Y: int(float64(start.Y) + float64(length)*math.Sin(rad)),
		}
		if end.In(c.Original.Rect) {
			return start, end, nil
		}
	}
	return image.Point{}, image.Point{}, errors.New(errors.ErrCodeGeometryInfeasible,
		"no %s %s end points in %dx%d raster after %d attempts",
		c.Length, c.Orientation, c.Width(), c.Height(), c.limits.EndpointAttempts)
}

// lengthRange returns the range of curve lengths for the length class,
// relative to scale.
func (c *Curve) lengthRange(scale float64) (lo, hi int) {
	switch c.Length {
	case LengthShort:
		return int(math.Floor(scale / 10)), int(scale * 0.3)
	case LengthMedium:
		return int(scale * 0.4), int(scale * 0.7)
	default:
		return int(scale * 0.7), int(scale)
	}
}

func (c *Curve) controlCount() int {
	switch c.Length {
	case LengthShort:
		return randRange(c.rng, 3, 6)
	case LengthMedium:
		return randRange(c.rng, 3, 7)
	default:
		return randRange(c.rng, 3, 9)
	}
}

// jitter moves every control point by a random offset.  Offsets across
// the curve direction are twice as large as offsets along it; diagonal
// curves get the full offset in both directions.
func (c *Curve) jitter() {
	full := max(c.Span/9, 3)
	half := max(full/2, 1)
	dx, dy := full, full
	switch c.Orientation {
	case OrientationHorizontal:
		dx = half
	case OrientationVertical:
		dy = half
	}
	for i, p := range c.Points {
		p.X += randRange(c.rng, -dx, dx+1)
		p.Y += randRange(c.rng, -dy, dy+1)
		c.Points[i] = c.clamp(p)
	}
}

// densify inserts the midpoint between all consecutive control points.
func (c *Curve) densify() {
	if len(c.Points) < 2 {
		return
	}
	res := make([]image.Point, 0, 2*len(c.Points)-1)
	for i, p := range c.Points {
		if i > 0 {
			q := c.Points[i-1]
			res = append(res, image.Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2})
		}
		res = append(res, p)
	}
	c.Points = res
}

// outside counts the control points outside the fingerprint.
func (c *Curve) outside() int {
	n := 0
	for _, p := range c.Points {
		if !c.Inside(p) {
			n++
		}
	}
	return n
}

// thicken draws the curve onto the scratch raster.  The widest segment
// is chosen by s; the width drops by one pixel per segment away from it
// until the floor is reached.
func (c *Curve) thicken(s style) {
	segments := len(c.Points) - 1
	if segments < 1 {
		return
	}
	peak, floor := s.widths(c)
	c.MaxWidth = peak
	k := s.peak(c, segments)

	c.Widths = make([]int, segments)
	for j := range segments {
		c.Widths[j] = max(peak-abs(j-k), floor)
	}
	for j, width := range c.Widths {
		a, b := c.Points[j], c.Points[j+1]
		c.paint.Line(c.Damage, a, b, width, 255)
		s.segment(c, a, b, width)
	}
}

// maxWidth computes the width of the widest segment as a fraction of the
// footprint.  The variance is drawn from [0, max·num/den).
func (c *Curve) maxWidth(divisor, num, den int) int {
	w := max(c.BiggerFingerprintSide()/divisor, 1)
	return w + randRange(c.rng, 0, w*num/den)
}

// erase punches a zero disc into the scratch raster.
func (c *Curve) erase(p image.Point, radius int) {
	c.paint.Disc(c.Damage, p, radius, 0)
}

// stroke summarises the accepted curve.
func (c *Curve) stroke(kind Kind) *Stroke {
	return &Stroke{
		Kind:        kind,
		Length:      c.Length,
		Orientation: c.Orientation,
		Thickness:   c.Thickness,
		Points:      append([]image.Point(nil), c.Points...),
		Widths:      append([]int(nil), c.Widths...),
		MaxWidth:    c.MaxWidth,
		Span:        c.Span,
	}
}

// linspace returns n points evenly spaced from a to b, truncated to
// integer coordinates.
func linspace(a, b image.Point, n int) []image.Point {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []image.Point{a}
	}
	res := make([]image.Point, n)
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	for i := range res {
		t := float64(i) / float64(n-1)
		res[i] = image.Point{
			X: int(math.Floor(float64(a.X) + t*dx)),
			Y: int(math.Floor(float64(a.Y) + t*dy)),
		}
	}
	return res
}

func distance(a, b image.Point) int {
	return int(math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y)))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

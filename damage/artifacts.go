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

import "image"

// artifactFrequency is the inverse probability of a black dot or patch
// per scar pixel.
const artifactFrequency = 100

// artifacts speckles the scar with black pixels and small black patches.
// Patches are erased from the scratch raster first; every scar pixel
// which was erased is then painted black on the working raster.
func (s *Scar) artifacts() {
	c := s.curve
	pixels := c.DamagePixels()
	if len(pixels) == 0 {
		return
	}
	stride := c.Background.Stride
	for _, p := range pixels {
		if c.rng.IntN(artifactFrequency) == 0 {
			c.Background.Pix[p.Y*stride+p.X] = 0
		}
		if c.rng.IntN(artifactFrequency) == 0 {
			s.patch(p)
		}
	}
	if s.Cluster {
		s.cluster(pixels)
	}
	for _, p := range pixels {
		if c.Damage.Pix[p.Y*c.Damage.Stride+p.X] == 0 {
			c.Background.Pix[p.Y*stride+p.X] = 0
		}
	}
}

// patch erases a random walk of 3 to 9 small discs, starting next to p.
func (s *Scar) patch(p image.Point) {
	c := s.curve
	for range randRange(c.rng, 3, 10) {
		p.X += randRange(c.rng, -1, 2)
		p.Y += randRange(c.rng, -1, 2)
		c.erase(p, 1)
	}
}

// cluster places patches with raised density in a square around a random
// scar pixel.
func (s *Scar) cluster(pixels []image.Point) {
	c := s.curve
	freq := max(artifactFrequency/randRange(c.rng, 5, 11), 1)
	center := pixels[c.rng.IntN(len(pixels))]

	radius := c.Span / 4
	radius += randRange(c.rng, 0, max(radius/2, 1))
	area := image.Rect(center.X-radius/2, center.Y-radius/2, center.X+radius/2, center.Y+radius/2)
	area = area.Intersect(c.Original.Rect)

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if c.rng.IntN(freq) == 0 {
				s.patch(image.Point{X: x, Y: y})
			}
		}
	}
}

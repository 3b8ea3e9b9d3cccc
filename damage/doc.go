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

// Package damage draws synthetic creases, scars and hairs into
// fingerprint rasters.
//
// All generators work on a [Canvas], which holds the original raster, the
// working copy and the fingerprint mask.  Every random choice is taken
// from an explicit *rand.Rand, so that results are reproducible:
//
//	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
//	res, err := damage.Generate(img, &damage.Request{Kind: damage.KindScar}, rng, nil)
//
// Creases and scars share the [Curve] skeleton: end points are sampled
// for the requested length and orientation, a jittered polyline is laid
// between them and rejected until it lies inside the fingerprint, and
// segments are drawn with widths falling off from one widest segment.
// All rejection loops are bounded by [Limits]; running out of attempts
// gives an error with code [errors.ErrCodeGeometryInfeasible].
package damage

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

package distort

import (
	"image"
	"math"
	"slices"
	"testing"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/fpdamage/raster"
)

func uniformDisc() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	raster.NewPainter().Disc(img, image.Pt(32, 32), 28, 128)
	return img
}

// TestSoakIdentityOnUniformDisc checks that intensity 1 leaves a uniform
// region unchanged: all sample radii stay inside the unit circle.
func TestSoakIdentityOnUniformDisc(t *testing.T) {
	for _, bilinear := range []bool{false, true} {
		img := uniformDisc()
		f := New(img)
		f.Bilinear = bilinear
		if !f.Soak(Window{Center: image.Pt(32, 32), Radius: 10}, 1, true) {
			t.Fatal("window rejected")
		}
		if !slices.Equal(f.Image().Pix, img.Pix) {
			t.Errorf("bilinear=%t: soak at c=1 changed the raster", bilinear)
		}
	}
}

// TestSoakKeepsRim uses a raster which is uniform slightly beyond the
// soak circle and black further out.  The linear formula keeps every
// sample inside the circle; the plain formula reaches past the rim.
func TestSoakKeepsRim(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 160, 160))
	raster.NewPainter().Disc(img, image.Pt(80, 80), 63, 200)
	win := Window{Center: image.Pt(80, 80), Radius: 60}

	f := New(img)
	if !f.Soak(win, 1.1, true) {
		t.Fatal("window rejected")
	}
	if !slices.Equal(f.Image().Pix, img.Pix) {
		t.Error("linear soak at c=1.1 changed the raster")
	}

	f = New(img)
	f.Soak(win, 1.1, false)
	if slices.Equal(f.Image().Pix, img.Pix) {
		t.Error("plain soak at c=1.1 did not sample beyond the rim")
	}
}

func TestSoakOutsideIsNoop(t *testing.T) {
	img := uniformDisc()
	f := New(img)
	for _, win := range []Window{
		{Center: image.Pt(5, 32), Radius: 10},
		{Center: image.Pt(32, 54), Radius: 10},
		{Center: image.Pt(32, 32), Radius: 0},
	} {
		if f.Soak(win, 1.1, false) {
			t.Errorf("window %v accepted", win)
		}
	}
	if !slices.Equal(f.Image().Pix, img.Pix) {
		t.Error("rejected windows changed the raster")
	}
}

func TestSoakOnlyTouchesDisc(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	for y := range 40 {
		for x := range 40 {
			img.Pix[y*40+x] = uint8(6 * x)
		}
	}
	f := New(img)
	win := Window{Center: image.Pt(20, 20), Radius: 8}
	if !f.Soak(win, 1.1, false) {
		t.Fatal("window rejected")
	}
	out := f.Image()

	changed := 0
	for y := range 40 {
		for x := range 40 {
			dx, dy := float64(x-20), float64(y-20)
			inDisc := dx*dx+dy*dy < 64
			if !inDisc && out.Pix[y*40+x] != img.Pix[y*40+x] {
				t.Fatalf("pixel (%d,%d) outside the disc changed", x, y)
			}
			if inDisc && out.Pix[y*40+x] != img.Pix[y*40+x] {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Error("soak did not change anything")
	}
	if out.Pix[20*40+20] != img.Pix[20*40+20] {
		t.Error("centre pixel moved")
	}
}

func TestSoakMasked(t *testing.T) {
	img := uniformDisc()
	img.Pix[10*64+40] = 7
	f := New(img)
	area := image.NewGray(img.Rect)
	for y := 28; y < 36; y++ {
		for x := 28; x < 36; x++ {
			area.Pix[y*64+x] = 255
		}
	}
	f.SoakMasked(area, 1, true)
	out := f.Image()
	for y := range 64 {
		for x := range 64 {
			if area.Pix[y*64+x] == 0 && out.Pix[y*64+x] != img.Pix[y*64+x] {
				t.Fatalf("unmasked pixel (%d,%d) changed", x, y)
			}
		}
	}
	if out.GrayAt(32, 32).Y != 128 {
		t.Errorf("centre = %d, want 128", out.GrayAt(32, 32).Y)
	}
}

func TestCoordinates(t *testing.T) {
	f := New(image.NewGray(image.Rect(0, 0, 11, 21)))
	if n := f.Norm(image.Pt(0, 0)); n != (vec.Vec2{X: -1, Y: -1}) {
		t.Errorf("Norm(0,0) = %v", n)
	}
	if n := f.Norm(image.Pt(10, 20)); n != (vec.Vec2{X: 1, Y: 1}) {
		t.Errorf("Norm(10,20) = %v", n)
	}
	if n := f.Norm(image.Pt(5, 10)); n != (vec.Vec2{}) {
		t.Errorf("Norm(5,10) = %v", n)
	}

	win := Window{Center: image.Pt(5, 8), Radius: 4}
	n, ok := f.NormIn(win, image.Pt(5, 8))
	if !ok || n != (vec.Vec2{}) {
		t.Errorf("NormIn(centre) = %v, %t", n, ok)
	}
	n, _ = f.NormIn(win, image.Pt(9, 4))
	if n != (vec.Vec2{X: 1, Y: -1}) {
		t.Errorf("NormIn(corner) = %v", n)
	}
	if _, ok := f.NormIn(Window{Center: image.Pt(1, 1), Radius: 4}, image.Pt(1, 1)); ok {
		t.Error("window outside the raster accepted")
	}

	phi, r := ToPolar(vec.Vec2{X: 0, Y: 0.5})
	if math.Abs(phi-math.Pi/2) > 1e-12 || math.Abs(r-0.5) > 1e-12 {
		t.Errorf("ToPolar = %v, %v", phi, r)
	}
	back := FromPolar(phi, r)
	if math.Abs(back.X) > 1e-12 || math.Abs(back.Y-0.5) > 1e-12 {
		t.Errorf("FromPolar = %v", back)
	}
}

func TestSampling(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.Pix[1] = 100
	f := New(img)
	if v := f.At(-1, 0); v != 0 {
		t.Errorf("At outside = %v", v)
	}
	if v := f.sample(0.5, 0); v != 0 {
		t.Errorf("nearest sample = %v, want 0", v)
	}
	f.Bilinear = true
	if v := f.sample(0.5, 0); math.Abs(v-50) > 1e-9 {
		t.Errorf("bilinear sample = %v, want 50", v)
	}
}

func TestSoakRadius(t *testing.T) {
	for _, c := range []float64{0.5, 1, 1.1} {
		if r := SoakRadius(0, c, true); r != 0 {
			t.Errorf("c=%g: centre maps to %g", c, r)
		}
		if r := SoakRadius(1, c, true); r != 1 {
			t.Errorf("c=%g: rim maps to %g", c, r)
		}
	}
	if r := SoakRadius(0.25, 1.1, false); math.Abs(r-0.55) > 1e-12 {
		t.Errorf("plain soak radius = %g, want 0.55", r)
	}
}

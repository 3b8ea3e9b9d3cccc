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
	"bytes"
	"image"
	"math/rand/v2"
	"testing"

	"seehuhn.de/go/fpdamage/errors"
	"seehuhn.de/go/fpdamage/fixture"
	"seehuhn.de/go/fpdamage/mask"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// ridgeCanvas returns a canvas for a 512x512 raster with concentric
// ridges inside a disc of radius 200.
func ridgeCanvas(t *testing.T) *Canvas {
	t.Helper()
	img := fixture.RidgeDisc(512, 200, 8)
	fp, err := mask.New(img)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCanvas(img, fp)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// tinyCanvas returns a canvas for a single black pixel, which is also
// the whole fingerprint.
func tinyCanvas(t *testing.T) *Canvas {
	t.Helper()
	r := image.Rect(0, 0, 1, 1)
	m := image.NewGray(r)
	m.Pix[0] = mask.Inside
	c, err := NewCanvas(image.NewGray(r), &mask.Fingerprint{Mask: m, Footprint: r})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewCanvasErrors(t *testing.T) {
	img := fixture.SolidDisc(64, 20)
	fp, err := mask.New(img)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewCanvas(nil, fp); !errors.Is(err, errors.ErrCodeInputUnavailable) {
		t.Errorf("nil raster: got %v", err)
	}
	if _, err := NewCanvas(image.NewGray(image.Rectangle{}), fp); !errors.Is(err, errors.ErrCodeInputUnavailable) {
		t.Errorf("empty raster: got %v", err)
	}
	if _, err := NewCanvas(img, nil); !errors.Is(err, errors.ErrCodeDegenerateMask) {
		t.Errorf("nil mask: got %v", err)
	}
	if _, err := NewCanvas(fixture.SolidDisc(65, 20), fp); !errors.Is(err, errors.ErrCodeDegenerateMask) {
		t.Errorf("size mismatch: got %v", err)
	}
}

func TestNewCanvasSubImage(t *testing.T) {
	big := fixture.SolidDisc(100, 30)
	sub := big.SubImage(image.Rect(10, 10, 90, 90)).(*image.Gray)
	fp, err := mask.New(sub)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCanvas(sub, fp)
	if err != nil {
		t.Fatal(err)
	}
	if c.Width() != 80 || c.Height() != 80 {
		t.Errorf("size %dx%d, want 80x80", c.Width(), c.Height())
	}
	if !c.Inside(image.Pt(40, 40)) {
		t.Error("centre not inside")
	}
}

func TestCropByMaskIdempotent(t *testing.T) {
	c := ridgeCanvas(t)
	c.paint.Line(c.Damage, image.Pt(0, 256), image.Pt(511, 256), 9, 255)
	c.DrawOnBackground()

	c.CropByMask()
	once := bytes.Clone(c.Background.Pix)
	c.CropByMask()
	if !bytes.Equal(once, c.Background.Pix) {
		t.Error("second crop changed the raster")
	}

	if v := c.Background.Pix[256*c.Background.Stride+3]; v != c.Original.Pix[256*c.Original.Stride+3] {
		t.Errorf("pixel outside the fingerprint changed to %d", v)
	}
	if v := c.Background.Pix[256*c.Background.Stride+256]; v != 255 {
		t.Errorf("pixel inside the fingerprint is %d, want 255", v)
	}
}

func TestCanvasCopiesInput(t *testing.T) {
	img := fixture.RidgeDisc(128, 50, 6)
	keep := bytes.Clone(img.Pix)
	fp, err := mask.New(img)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCanvas(img, fp)
	if err != nil {
		t.Fatal(err)
	}
	for i := range c.Background.Pix {
		c.Background.Pix[i] = 255 - c.Background.Pix[i]
	}
	if !bytes.Equal(img.Pix, keep) {
		t.Error("input raster modified")
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := ridgeCanvas(t)
	snap := c.Snapshot()
	c.Background.Pix[1000] ^= 0xff
	c.Restore(snap)
	if !bytes.Equal(c.Background.Pix, c.Original.Pix) {
		t.Error("restore did not undo the change")
	}
}

func TestPixelSets(t *testing.T) {
	c := ridgeCanvas(t)
	inside := len(c.MaskPixels())
	outside := len(c.BackgroundPixels())
	if inside+outside != c.Width()*c.Height() {
		t.Errorf("%d + %d pixels, want %d", inside, outside, c.Width()*c.Height())
	}
	if len(c.DamagePixels()) != 0 {
		t.Error("fresh scratch raster not empty")
	}
}

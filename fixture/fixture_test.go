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

package fixture

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/disintegration/imaging"

	"seehuhn.de/go/fpdamage/errors"
	"seehuhn.de/go/fpdamage/mask"
)

var validName = regexp.MustCompile(`^[a-z_]+$`)

func TestNames(t *testing.T) {
	seen := make(map[string]bool)
	for category, fixtures := range All {
		for _, f := range fixtures {
			if !validName.MatchString(f.Name) {
				t.Errorf("%s: invalid name %q", category, f.Name)
			}
			key := category + "_" + f.Name
			if seen[key] {
				t.Errorf("duplicate fixture %s", key)
			}
			seen[key] = true
		}
	}
}

func TestMasks(t *testing.T) {
	for category, fixtures := range All {
		for _, f := range fixtures {
			t.Run(category+"_"+f.Name, func(t *testing.T) {
				img := f.Image()
				if img.Rect.Dx() != f.Width || img.Rect.Dy() != f.Height {
					t.Fatalf("size %v", img.Rect.Size())
				}
				fp, err := mask.New(img)
				if category == "degenerate" {
					if !errors.Is(err, errors.ErrCodeDegenerateMask) {
						t.Errorf("got %v, want degenerate mask", err)
					}
					return
				}
				if err != nil {
					t.Fatal(err)
				}
				if fp.BiggerSide() < f.Width/3 {
					t.Errorf("footprint %v too small", fp.Footprint)
				}
			})
		}
	}
}

func TestRidgeDisc(t *testing.T) {
	img := RidgeDisc(512, 200, 8)
	fp, err := mask.New(img)
	if err != nil {
		t.Fatal(err)
	}
	if w := fp.Width(); w < 398 || w > 412 {
		t.Errorf("footprint width %d, want about 405", w)
	}
	for _, p := range [][2]int{{256, 256}, {256, 60}, {100, 256}} {
		if fp.Mask.Pix[p[1]*512+p[0]] == 0 {
			t.Errorf("pixel %v not in mask", p)
		}
	}
	if fp.Mask.Pix[5*512+5] != 0 {
		t.Error("corner in mask")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	saved, err := Save(dir)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, fixtures := range All {
		n += len(fixtures)
	}
	if len(saved) != n {
		t.Fatalf("%d files written, want %d", len(saved), n)
	}
	img, err := imaging.Open(filepath.Join(dir, saved[0].File))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != saved[0].Width {
		t.Errorf("width %d, want %d", img.Bounds().Dx(), saved[0].Width)
	}
	if _, err := os.Stat(filepath.Join(dir, "whorl_medium.png")); err != nil {
		t.Error(err)
	}
}

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

package cli

import (
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"seehuhn.de/go/fpdamage/errors"
)

// inputExtensions lists the file types accepted in input directories.
var inputExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true,
}

// source supplies the input rasters of a batch: either one fixed image,
// or a random image from a directory for every job.
type source struct {
	fixed     *image.Gray
	fixedName string
	files     []string
}

func openSource(imagePath, directory string) (*source, error) {
	if imagePath != "" {
		img, err := loadGray(imagePath)
		if err != nil {
			return nil, err
		}
		return &source{fixed: img, fixedName: imagePath}, nil
	}
	if directory == "" {
		return nil, errors.New(errors.ErrCodeInputUnavailable,
			"specify the input fingerprint with --image or --directory")
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputUnavailable, err, "read directory %s", directory)
	}
	s := &source{}
	for _, e := range entries {
		if e.IsDir() || !inputExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		s.files = append(s.files, filepath.Join(directory, e.Name()))
	}
	if len(s.files) == 0 {
		return nil, errors.New(errors.ErrCodeInputUnavailable, "no images in %s", directory)
	}
	return s, nil
}

// pick returns the input raster for one job, together with its file name.
// The returned raster must not be modified.
func (s *source) pick(rng *rand.Rand) (*image.Gray, string, error) {
	if s.fixed != nil {
		return s.fixed, s.fixedName, nil
	}
	fname := s.files[rng.IntN(len(s.files))]
	img, err := loadGray(fname)
	return img, fname, err
}

func loadGray(fname string) (*image.Gray, error) {
	img, err := imaging.Open(fname)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputUnavailable, err, "open %s", fname)
	}
	return toGray(img), nil
}

// toGray converts img to 8-bit gray with its origin at (0, 0).
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Rect, img, b.Min, draw.Src)
	return g
}

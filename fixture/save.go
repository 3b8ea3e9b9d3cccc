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
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/disintegration/imaging"

	"seehuhn.de/go/fpdamage/errors"
)

// Saved describes a fixture written to disk.
type Saved struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	File     string `json:"file"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Save writes all fixtures as PNG files named <category>_<name>.png into
// dir, which is created if needed.
func Save(dir string) ([]Saved, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
	}
	var res []Saved
	for _, category := range slices.Sorted(maps.Keys(All)) {
		for _, f := range All[category] {
			name := category + "_" + f.Name + ".png"
			if err := imaging.Save(f.Image(), filepath.Join(dir, name)); err != nil {
				return res, errors.Wrap(errors.ErrCodeIO, err, "write fixture %s", name)
			}
			res = append(res, Saved{
				Category: category,
				Name:     f.Name,
				File:     name,
				Width:    f.Width,
				Height:   f.Height,
			})
		}
	}
	return res, nil
}

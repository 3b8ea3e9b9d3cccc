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

// Command export writes the synthetic fixtures as PNG files, together with
// a JSON index.  Run from the module root directory.
package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"seehuhn.de/go/fpdamage/fixture"
)

const dir = "testdata/fixtures"

func main() {
	saved, err := fixture.Save(dir)
	if err != nil {
		panic(err)
	}

	var out struct {
		Fixtures []fixture.Saved `json:"fixtures"`
	}
	out.Fixtures = saved

	f, err := os.Create(filepath.Join(dir, "index.json"))
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

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

// Package label describes generated damage in JSON sidecar files, so that
// damaged images can be used as labelled training data.
package label

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"

	"seehuhn.de/go/fpdamage/damage"
	"seehuhn.de/go/fpdamage/errors"
)

// Record describes one generated image.
type Record struct {
	// RunID identifies the batch the image belongs to.
	RunID string `json:"run_id"`

	// Seed is the base seed of the batch.  Together with Index it
	// determines all random choices for this image.
	Seed  uint64 `json:"seed"`
	Index int    `json:"index"`

	Source string `json:"source,omitempty"`
	Output string `json:"output,omitempty"`

	Kind    string   `json:"kind"`
	Level   int      `json:"level,omitempty"`
	Strokes []Stroke `json:"strokes"`
}

// Stroke describes one curve of the damage.
type Stroke struct {
	Kind        string   `json:"kind"`
	Length      string   `json:"length,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
	Thickness   string   `json:"thickness,omitempty"`
	Hair        string   `json:"hair,omitempty"`
	Points      [][2]int `json:"points"`
	Widths      []int    `json:"widths,omitempty"`
	MaxWidth    int      `json:"max_width"`
	Span        int      `json:"span"`
	Overlap     float64  `json:"overlap,omitempty"`
}

// NewRunID returns a fresh batch identifier.
func NewRunID() string {
	return uuid.NewString()
}

// FromResult converts a generator result into a record.
func FromResult(runID string, seed uint64, index int, kind damage.Kind, res *damage.Result) *Record {
	r := &Record{
		RunID: runID,
		Seed:  seed,
		Index: index,
		Kind:  kind.String(),
		Level: res.Level,
	}
	r.Strokes = make([]Stroke, 0, len(res.Strokes))
	for _, s := range res.Strokes {
		if s == nil {
			continue
		}
		ls := Stroke{
			Kind:     s.Kind.String(),
			Widths:   s.Widths,
			MaxWidth: s.MaxWidth,
			Span:     s.Span,
			Overlap:  s.Overlap,
		}
		if s.Kind == damage.KindHair {
			ls.Hair = s.Hair.String()
		} else {
			ls.Length = s.Length.String()
			ls.Orientation = s.Orientation.String()
			ls.Thickness = s.Thickness.String()
		}
		ls.Points = make([][2]int, len(s.Points))
		for i, p := range s.Points {
			ls.Points[i] = [2]int{p.X, p.Y}
		}
		r.Strokes = append(r.Strokes, ls)
	}
	return r
}

// Write stores r as indented JSON in the file fname.
func Write(fname string, r *Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode label")
	}
	data = append(data, '\n')
	if err := os.WriteFile(fname, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write label %s", fname)
	}
	return nil
}

// Read loads a record written by [Write].
func Read(fname string) (*Record, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read label %s", fname)
	}
	r := &Record{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "decode label %s", fname)
	}
	if _, err := uuid.Parse(r.RunID); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "label %s has invalid run id", fname)
	}
	return r, nil
}

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
	"io"

	"github.com/charmbracelet/log"
)

// Limits bounds the rejection sampling loops of the generators.
// Zero fields are replaced by their defaults.
type Limits struct {
	// EndpointAttempts bounds the search for start and end point of a
	// curve which both lie inside the image.
	EndpointAttempts int `toml:"endpoint_attempts" envconfig:"ENDPOINT_ATTEMPTS"`

	// PlacementAttempts bounds the number of curves which are generated
	// until one lies sufficiently inside the fingerprint.
	PlacementAttempts int `toml:"placement_attempts" envconfig:"PLACEMENT_ATTEMPTS"`

	// OverlapAttempts bounds the number of creases which are tried until
	// one does not overlap too much with the previous ones.
	OverlapAttempts int `toml:"overlap_attempts" envconfig:"OVERLAP_ATTEMPTS"`

	// SampleAttempts bounds the search for two distant fingerprint
	// pixels as end points of a short hair.
	SampleAttempts int `toml:"sample_attempts" envconfig:"SAMPLE_ATTEMPTS"`
}

// DefaultLimits returns the default attempt bounds.
func DefaultLimits() Limits {
	return Limits{
		EndpointAttempts:  100,
		PlacementAttempts: 1000,
		OverlapAttempts:   100,
		SampleAttempts:    1000,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.EndpointAttempts <= 0 {
		l.EndpointAttempts = d.EndpointAttempts
	}
	if l.PlacementAttempts <= 0 {
		l.PlacementAttempts = d.PlacementAttempts
	}
	if l.OverlapAttempts <= 0 {
		l.OverlapAttempts = d.OverlapAttempts
	}
	if l.SampleAttempts <= 0 {
		l.SampleAttempts = d.SampleAttempts
	}
	return l
}

// Default values for [Options].
const (
	DefaultIntensity  = 1.1
	DefaultMaxOverlap = 0.25
)

// Options holds settings shared by all generators.
// A nil *Options is valid and selects the defaults.
type Options struct {
	Limits Limits

	// Intensity is the strength of the soak distortion around scars.
	Intensity float64

	// MaxOverlap is the largest fraction of the pixels of a new wrinkle
	// crease which may coincide with earlier creases.
	MaxOverlap float64

	// Logger receives debug messages about rejected attempts.
	// If nil, messages are discarded.
	Logger *log.Logger
}

func (o *Options) withDefaults() *Options {
	var res Options
	if o != nil {
		res = *o
	}
	res.Limits = res.Limits.withDefaults()
	if res.Intensity <= 0 {
		res.Intensity = DefaultIntensity
	}
	if res.MaxOverlap <= 0 {
		res.MaxOverlap = DefaultMaxOverlap
	}
	if res.Logger == nil {
		res.Logger = log.New(io.Discard)
	}
	return &res
}

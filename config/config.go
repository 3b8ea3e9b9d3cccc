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

// Package config holds the settings of the fpdamage command.
//
// Settings are layered: the values from [Default] are overridden by a
// TOML file, then by FPDAMAGE_* environment variables, and finally by
// command line flags.
package config

import (
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/kelseyhightower/envconfig"

	"seehuhn.de/go/fpdamage/damage"
	"seehuhn.de/go/fpdamage/errors"
)

// EnvPrefix is the prefix of all environment variables.
const EnvPrefix = "FPDAMAGE"

// Config holds all settings.
type Config struct {
	// Output is the directory for generated images.
	Output string `toml:"output" envconfig:"OUTPUT"`

	// Name is the file name prefix of generated images.
	Name string `toml:"name" envconfig:"NAME"`

	// Format is the image file format, given as a file extension.
	Format string `toml:"format" envconfig:"FORMAT"`

	// Amount is the number of images to generate.
	Amount int `toml:"amount" envconfig:"AMOUNT"`

	// Workers is the number of images generated in parallel.
	Workers int `toml:"workers" envconfig:"WORKERS"`

	// Seed is the base seed.  Zero selects a random seed.
	Seed uint64 `toml:"seed" envconfig:"SEED"`

	// Labels enables the JSON sidecar files.
	Labels bool `toml:"labels" envconfig:"LABELS"`

	Intensity  float64 `toml:"intensity" envconfig:"INTENSITY"`
	MaxOverlap float64 `toml:"max_overlap" envconfig:"MAX_OVERLAP"`

	Limits damage.Limits `toml:"limits" envconfig:"LIMITS"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Output:     "Generated",
		Name:       "damaged_fingerprint",
		Format:     "png",
		Amount:     1,
		Workers:    runtime.NumCPU(),
		Intensity:  damage.DefaultIntensity,
		MaxOverlap: damage.DefaultMaxOverlap,
		Limits:     damage.DefaultLimits(),
	}
}

// Load reads the settings.  If fname is not empty, the TOML file is
// applied on top of the defaults.  Environment variables are applied
// last.
func Load(fname string) (*Config, error) {
	cfg := Default()
	if fname != "" {
		md, err := toml.DecodeFile(fname, cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", fname)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"unknown keys in %s: %s", fname, strings.Join(keys, ", "))
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "environment")
	}
	return cfg, nil
}

var formats = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"bmp": true, "tif": true, "tiff": true,
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	switch {
	case c.Output == "":
		return errors.New(errors.ErrCodeInvalidConfig, "no output directory")
	case c.Name == "" || strings.ContainsAny(c.Name, `/\`):
		return errors.New(errors.ErrCodeInvalidConfig, "invalid name %q", c.Name)
	case !formats[strings.ToLower(c.Format)]:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported format %q", c.Format)
	case c.Amount < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "amount %d, need at least 1", c.Amount)
	case c.Workers < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "workers %d, need at least 1", c.Workers)
	case c.Intensity <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "intensity %g must be positive", c.Intensity)
	case c.MaxOverlap <= 0 || c.MaxOverlap > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "max overlap %g not in (0, 1]", c.MaxOverlap)
	}
	l := c.Limits
	if l.EndpointAttempts < 1 || l.PlacementAttempts < 1 || l.OverlapAttempts < 1 || l.SampleAttempts < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "attempt limits must be positive: %+v", l)
	}
	return nil
}

// Options returns the generator options for these settings.
func (c *Config) Options(logger *log.Logger) *damage.Options {
	return &damage.Options{
		Limits:     c.Limits,
		Intensity:  c.Intensity,
		MaxOverlap: c.MaxOverlap,
		Logger:     logger,
	}
}

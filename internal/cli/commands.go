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
	"fmt"

	"github.com/spf13/cobra"

	"seehuhn.de/go/fpdamage/damage"
	"seehuhn.de/go/fpdamage/fixture"
)

func (c *CLI) creasesCommand() *cobra.Command {
	var level int
	cmd := &cobra.Command{
		Use:   "creases",
		Short: "Draw wrinkles made of several creases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.generate(cmd.Context(), &damage.Request{
				Kind:  damage.KindCrease,
				Level: level,
			})
		},
	}
	cmd.Flags().IntVar(&level, "level", 0, "wrinkle severity 1, 2 or 3 (0 = random)")
	return cmd
}

// scarOpts holds the flags of the scar command.
type scarOpts struct {
	length      string
	width       string
	orientation string
	clean       bool
	outline     bool
	patches     bool
	distortion  bool
}

func (o *scarOpts) request() (*damage.Request, error) {
	length, err := damage.ParseLength(o.length)
	if err != nil {
		return nil, err
	}
	thickness, err := damage.ParseThickness(o.width)
	if err != nil {
		return nil, err
	}
	orientation, err := damage.ParseOrientation(o.orientation)
	if err != nil {
		return nil, err
	}
	return &damage.Request{
		Kind:        damage.KindScar,
		Length:      length,
		Orientation: orientation,
		Thickness:   thickness,
		Clean:       o.clean,
		Outline:     o.outline,
		Patches:     o.patches,
		Distortion:  o.distortion,
	}, nil
}

func (c *CLI) scarCommand() *cobra.Command {
	var opts scarOpts
	cmd := &cobra.Command{
		Use:   "scar",
		Short: "Draw a scar",
		Long: `Draw a scar.  Length, width and orientation are chosen at random unless
given.  Distortion of the surrounding ridges requires a thin scar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			return c.generate(cmd.Context(), req)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.length, "length", "", "short, medium or long")
	f.StringVar(&opts.width, "width", "", "thin, medium or thick")
	f.StringVar(&opts.orientation, "orientation", "", "horizontal, vertical or diagonal")
	f.BoolVar(&opts.clean, "clean", false, "draw smooth, wide scars")
	f.BoolVar(&opts.outline, "outline", false, "draw a black outline around the scar")
	f.BoolVar(&opts.patches, "patches", false, "add black patches inside the scar")
	f.BoolVar(&opts.distortion, "distortion", false, "distort the ridges around the scar")
	return cmd
}

func (c *CLI) hairCommand() *cobra.Command {
	var hairType string
	cmd := &cobra.Command{
		Use:   "hair",
		Short: "Draw a hair lying on the finger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := damage.ParseHairLength(hairType)
			if err != nil {
				return err
			}
			return c.generate(cmd.Context(), &damage.Request{Kind: damage.KindHair, Hair: h})
		},
	}
	cmd.Flags().StringVar(&hairType, "type", "", "short or long")
	return cmd
}

func (c *CLI) fixturesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures",
		Short: "Write synthetic fingerprint images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.flags.dryRun {
				for category, fixtures := range fixture.All {
					for _, f := range fixtures {
						c.Logger.Info("fixture", "name", category+"_"+f.Name, "width", f.Width, "height", f.Height)
					}
				}
				return nil
			}
			prog := newProgress(c.Logger)
			saved, err := fixture.Save(c.cfg.Output)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Wrote %d fixtures to %s", len(saved), c.cfg.Output))
			return nil
		},
	}
}

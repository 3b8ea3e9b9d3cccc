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

// Package cli implements the fpdamage command line interface.
//
// The commands creases, scar and hair damage fingerprint images and
// save the results; the fixtures command writes synthetic fingerprints
// to experiment with:
//
//	fpdamage fixtures --save testdata
//	fpdamage scar --image testdata/whorl_medium.png --length short --amount 10 --labels
//
// Global flags override the settings from the --config file and from
// FPDAMAGE_* environment variables.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"seehuhn.de/go/fpdamage/config"
	"seehuhn.de/go/fpdamage/errors"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	cfg   *config.Config
	flags globalFlags
}

type globalFlags struct {
	config    string
	image     string
	directory string
	save      string
	name      string
	format    string
	amount    int
	workers   int
	seed      uint64
	labels    bool
	dryRun    bool
	verbose   bool
}

// New creates a CLI which logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "fpdamage",
		Short: "Fpdamage adds synthetic damage to fingerprint images",
		Long: `Fpdamage draws creases, scars and hairs into synthetic fingerprint images,
for testing fingerprint recognition with damaged fingers.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.prepare,
	}

	f := root.PersistentFlags()
	f.StringVar(&c.flags.config, "config", "", "TOML configuration file")
	f.StringVarP(&c.flags.image, "image", "i", "", "input fingerprint image")
	f.StringVarP(&c.flags.directory, "directory", "d", "", "directory to choose input images from at random")
	f.StringVarP(&c.flags.save, "save", "s", "", "existing directory for the generated images")
	f.StringVarP(&c.flags.name, "name", "n", "", "file name prefix of the generated images")
	f.StringVar(&c.flags.format, "format", "", "image format of the generated images")
	f.IntVar(&c.flags.amount, "amount", 0, "number of images to generate")
	f.IntVar(&c.flags.workers, "workers", 0, "number of images generated in parallel")
	f.Uint64Var(&c.flags.seed, "seed", 0, "base seed of the random choices (0 = random)")
	f.BoolVar(&c.flags.labels, "labels", false, "write a JSON description next to every image")
	f.BoolVar(&c.flags.dryRun, "dry-run", false, "generate the damage but write no files")
	f.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.creasesCommand())
	root.AddCommand(c.scarCommand())
	root.AddCommand(c.hairCommand())
	root.AddCommand(c.fixturesCommand())

	return root
}

// prepare loads the settings and applies the global flags on top.
func (c *CLI) prepare(cmd *cobra.Command, args []string) error {
	if c.flags.verbose {
		c.SetLogLevel(LogDebug)
	}

	cfg, err := config.Load(c.flags.config)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("save") {
		info, err := os.Stat(c.flags.save)
		if err != nil || !info.IsDir() {
			return errors.New(errors.ErrCodeInvalidConfig, "%s is not a directory", c.flags.save)
		}
		cfg.Output = c.flags.save
	}
	if flags.Changed("name") {
		cfg.Name = c.flags.name
	}
	if flags.Changed("format") {
		cfg.Format = c.flags.format
	}
	if flags.Changed("amount") {
		cfg.Amount = c.flags.amount
	}
	if flags.Changed("workers") {
		cfg.Workers = c.flags.workers
	}
	if flags.Changed("seed") {
		cfg.Seed = c.flags.seed
	}
	if flags.Changed("labels") {
		cfg.Labels = c.flags.labels
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	c.Logger.Debug("settings", "output", cfg.Output, "amount", cfg.Amount,
		"workers", cfg.Workers, "limits", cfg.Limits)
	return nil
}

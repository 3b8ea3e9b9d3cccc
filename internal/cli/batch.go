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
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/fpdamage/damage"
	"seehuhn.de/go/fpdamage/errors"
	"seehuhn.de/go/fpdamage/label"
)

// jobRNG returns the random number generator of the job with the given
// index.  It depends only on seed and index, so that every image of a
// batch can be reproduced independently of scheduling.
func jobRNG(seed uint64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(index)))
}

// batch holds what the jobs of one run share.
type batch struct {
	c      *CLI
	req    *damage.Request
	src    *source
	opt    *damage.Options
	seed   uint64
	runID  string
	format string

	skipped atomic.Int64
}

// generate runs the request once for every image of the batch.
//
// Images for which no damage can be placed, or which contain no
// fingerprint, are skipped with a warning.  All other errors stop the
// batch.
func (c *CLI) generate(ctx context.Context, req *damage.Request) error {
	cfg := c.cfg
	if err := req.Validate(); err != nil {
		return err
	}
	src, err := openSource(c.flags.image, c.flags.directory)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	b := &batch{
		c:      c,
		req:    req,
		src:    src,
		opt:    cfg.Options(c.Logger),
		seed:   seed,
		runID:  label.NewRunID(),
		format: strings.ToLower(cfg.Format),
	}
	c.Logger.Info("generating", "kind", req.Kind, "amount", cfg.Amount, "seed", seed, "run", b.runID)

	if !c.flags.dryRun {
		if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create %s", cfg.Output)
		}
	}

	prog := newProgress(c.Logger)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range cfg.Amount {
		index := i + 1
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return b.run(index)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	skipped := int(b.skipped.Load())
	if skipped == cfg.Amount {
		return errors.New(errors.ErrCodeGeometryInfeasible, "no image could be damaged")
	}
	prog.done(fmt.Sprintf("Generated %d of %d images", cfg.Amount-skipped, cfg.Amount))
	return nil
}

// run generates and saves the image with the given index.
func (b *batch) run(index int) error {
	cfg, logger := b.c.cfg, b.c.Logger
	rng := jobRNG(b.seed, index)

	img, srcName, err := b.src.pick(rng)
	if err != nil {
		return err
	}
	res, err := damage.Generate(img, b.req, rng, b.opt)
	switch {
	case errors.Is(err, errors.ErrCodeGeometryInfeasible), errors.Is(err, errors.ErrCodeDegenerateMask):
		logger.Warn("skipping image", "index", index, "source", srcName, "err", errors.UserMessage(err))
		b.skipped.Add(1)
		return nil
	case err != nil:
		return fmt.Errorf("image %d: %w", index, err)
	}

	base := fmt.Sprintf("%s%d", cfg.Name, index)
	out := filepath.Join(cfg.Output, base+"."+b.format)
	if b.c.flags.dryRun {
		logger.Info("generated", "index", index, "strokes", len(res.Strokes), "level", res.Level)
		return nil
	}

	if err := imaging.Save(res.Image, out); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "save %s", out)
	}
	if cfg.Labels {
		rec := label.FromResult(b.runID, b.seed, index, b.req.Kind, res)
		rec.Source = srcName
		rec.Output = filepath.Base(out)
		if err := label.Write(filepath.Join(cfg.Output, base+".json"), rec); err != nil {
			return err
		}
	}
	logger.Info("saved", "file", out)
	return nil
}

// Package compiler turns a Naev data tree into a single SQLite database.
// Compilation is all-or-nothing: the database is built in a temporary file
// and only moved into place once every entity has been written, so a failed
// run never leaves a partial or corrupted output behind.
package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/perey/naevtools/internal/dataset"
	"github.com/perey/naevtools/internal/registry"
)

// Phase tracks compilation progress, mostly for logging and error context.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseParsing
	PhaseLinking
	PhaseEmitting
	PhaseDone
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseParsing:
		return "parsing"
	case PhaseLinking:
		return "linking"
	case PhaseEmitting:
		return "emitting"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Compiler drives the parse, link, and emit stages for one dataset.
type Compiler struct {
	dataRoot string
	outPath  string
	logger   *slog.Logger

	phase Phase
	reg   *registry.Registry
	meta  dataset.Meta
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithLogger sets the compiler's logger.
func WithLogger(logger *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Compiler reading from dataRoot and writing to outPath.
func New(dataRoot, outPath string, opts ...CompilerOption) *Compiler {
	c := &Compiler{
		dataRoot: dataRoot,
		outPath:  outPath,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase reports the compiler's current stage.
func (c *Compiler) Phase() Phase { return c.phase }

// Run compiles the dataset. On any failure the output path is left exactly
// as it was before the run.
func (c *Compiler) Run(ctx context.Context) error {
	if err := c.run(ctx); err != nil {
		c.phase = PhaseFailed
		return err
	}
	c.phase = PhaseDone
	return nil
}

func (c *Compiler) run(ctx context.Context) error {
	meta, err := dataset.LoadMeta(c.dataRoot)
	if err != nil {
		return err
	}
	c.meta = meta

	c.phase = PhaseParsing
	c.reg = registry.New(registry.WithLogger(c.logger))
	scanner := dataset.NewScanner(c.dataRoot, dataset.WithScanLogger(c.logger))
	var parsed int
	err = scanner.Scan(func(rec *dataset.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		parsed++
		return c.reg.Add(rec)
	})
	if err != nil {
		return err
	}
	c.logger.Info("dataset parsed", "files", parsed)

	c.phase = PhaseLinking
	if err := c.reg.Link(); err != nil {
		return err
	}
	c.logger.Info("references resolved",
		"systems", len(c.reg.SystemNames()),
		"assets", len(c.reg.AssetNames()))

	c.phase = PhaseEmitting
	return c.emitAtomic(ctx)
}

// emitAtomic writes the database to a temporary file beside the output path
// and renames it into place once emission succeeds.
func (c *Compiler) emitAtomic(ctx context.Context) error {
	dir := filepath.Dir(c.outPath)
	tmp, err := os.CreateTemp(dir, ".naevdb-*")
	if err != nil {
		return fmt.Errorf("creating temporary database: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	os.Remove(tmpPath)
	defer os.Remove(tmpPath)

	if err := emit(ctx, tmpPath, c.reg, c.meta); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, c.outPath); err != nil {
		return fmt.Errorf("moving database into place: %w", err)
	}
	c.logger.Info("database written", "path", c.outPath)
	return nil
}

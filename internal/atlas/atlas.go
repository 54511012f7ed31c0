// Package atlas renders a compiled database as a static HTML site: one
// index page, one page per star system, and one page per asset.
package atlas

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/perey/naevtools/internal/compiler"
	"github.com/perey/naevtools/internal/dataset"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Generator builds the atlas site from a compiled database.
type Generator struct {
	reader *compiler.Reader
	logger *slog.Logger
	tmpl   *template.Template
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the generator's logger.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a Generator reading from an open database.
func NewGenerator(reader *compiler.Reader, opts ...GeneratorOption) (*Generator, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing atlas templates: %w", err)
	}
	g := &Generator{
		reader: reader,
		logger: slog.New(slog.DiscardHandler),
		tmpl:   tmpl,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type indexView struct {
	Version  string
	Revision string
	Systems  []string
	Assets   []string
}

type systemView struct {
	System           *dataset.SSystem
	Presences        []dataset.Presence
	RadiusTerm       string
	InterferenceTerm string
	DensityTerm      string
	VolatilityTerm   string
	StarsTerm        string
}

type assetView struct {
	Asset       *dataset.Asset
	Systems     []string
	Commodities string
}

// Generate writes the site under outDir. The directory must not already
// exist; refusing to reuse one keeps a stale page from ever surviving a
// regeneration.
func (g *Generator) Generate(ctx context.Context, outDir string) error {
	if _, err := os.Stat(outDir); err == nil {
		return fmt.Errorf("output directory %s already exists", outDir)
	}
	if err := os.MkdirAll(filepath.Join(outDir, "ssys"), 0o755); err != nil {
		return fmt.Errorf("creating atlas directory: %w", err)
	}
	if err := os.Mkdir(filepath.Join(outDir, "assets"), 0o755); err != nil {
		return fmt.Errorf("creating atlas directory: %w", err)
	}

	systems, err := g.reader.SystemNames(ctx)
	if err != nil {
		return err
	}
	assets, err := g.reader.AssetNames(ctx)
	if err != nil {
		return err
	}

	if err := g.writeIndex(ctx, outDir, systems, assets); err != nil {
		return err
	}

	// Track which systems carry each asset while walking the systems.
	systemsByAsset := make(map[string][]string)
	for _, name := range systems {
		sys, err := g.reader.System(ctx, name)
		if err != nil {
			return err
		}
		for _, asset := range sys.Assets {
			systemsByAsset[asset] = append(systemsByAsset[asset], name)
		}
		if err := g.writeSystem(ctx, outDir, sys); err != nil {
			return err
		}
	}

	for _, name := range assets {
		if err := g.writeAsset(ctx, outDir, name, systemsByAsset[name]); err != nil {
			return err
		}
	}

	g.logger.Info("atlas generated", "dir", outDir,
		"systems", len(systems), "assets", len(assets))
	return nil
}

func (g *Generator) writeIndex(ctx context.Context, outDir string, systems, assets []string) error {
	meta, err := g.reader.Metadata(ctx)
	if err != nil {
		return err
	}
	view := indexView{
		Version:  meta["dataset_version"],
		Revision: meta["dataset_revision"],
		Systems:  systems,
		Assets:   assets,
	}
	return g.render(filepath.Join(outDir, "index.html"), "index.html.tmpl", view)
}

func (g *Generator) writeSystem(ctx context.Context, outDir string, sys *dataset.SSystem) error {
	presences, err := g.reader.Presences(ctx, sys.Name)
	if err != nil {
		return err
	}
	view := systemView{System: sys, Presences: presences}
	for _, term := range []struct {
		scale string
		val   float64
		dst   *string
	}{
		{"radius", sys.Radius, &view.RadiusTerm},
		{"interference", sys.Interference, &view.InterferenceTerm},
		{"density", sys.Nebula.Density, &view.DensityTerm},
		{"volatility", sys.Nebula.Volatility, &view.VolatilityTerm},
		{"stars", float64(sys.Stars), &view.StarsTerm},
	} {
		if *term.dst, err = ScaleTerm(term.scale, term.val); err != nil {
			return err
		}
	}
	return g.render(filepath.Join(outDir, "ssys", sys.Name+".html"), "system.html.tmpl", view)
}

func (g *Generator) writeAsset(ctx context.Context, outDir, name string, systems []string) error {
	a, err := g.reader.Asset(ctx, name)
	if err != nil {
		return err
	}
	view := assetView{
		Asset:       a,
		Systems:     systems,
		Commodities: strings.Join(a.Services.Commodities, ", "),
	}
	return g.render(filepath.Join(outDir, "assets", name+".html"), "asset.html.tmpl", view)
}

func (g *Generator) render(path, name string, view any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing atlas page: %w", err)
	}
	if err := g.tmpl.ExecuteTemplate(f, name, view); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return f.Close()
}

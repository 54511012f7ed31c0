// Package registry collects parsed game entities and resolves the name
// references between them. Records may arrive in any order; resolution is a
// separate pass run once the whole dataset has been read.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/perey/naevtools/internal/dataset"
)

// UnresolvedReferenceError reports a name reference that matches no known
// entity after the whole dataset has been read.
type UnresolvedReferenceError struct {
	Kind   string // what kind of reference: "jump" or "asset"
	Entity string // the entity holding the reference
	Target string // the name that failed to resolve
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s %q referenced by %q does not exist", e.Kind, e.Target, e.Entity)
}

// Registry indexes systems and assets by name and links the references
// between them.
type Registry struct {
	systems map[string]*dataset.SSystem
	assets  map[string]*dataset.Asset
	owners  map[string]string // asset name -> owning system
	logger  *slog.Logger
	linked  bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report skipped entities.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		systems: make(map[string]*dataset.SSystem),
		assets:  make(map[string]*dataset.Asset),
		owners:  make(map[string]string),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddSystem registers a system. Two systems sharing a name is a data error.
func (r *Registry) AddSystem(sys *dataset.SSystem) error {
	if prev, ok := r.systems[sys.Name]; ok {
		return &dataset.ParseError{
			File:    sys.File,
			Message: fmt.Sprintf("duplicate system %q (first declared in %s)", sys.Name, prev.File),
		}
	}
	r.systems[sys.Name] = sys
	return nil
}

// AddAsset registers an asset. Two assets sharing a name is a data error.
func (r *Registry) AddAsset(a *dataset.Asset) error {
	if prev, ok := r.assets[a.Name]; ok {
		return &dataset.ParseError{
			File:    a.File,
			Message: fmt.Sprintf("duplicate asset %q (first declared in %s)", a.Name, prev.File),
		}
	}
	r.assets[a.Name] = a
	return nil
}

// Add registers the typed view of a raw record.
func (r *Registry) Add(rec *dataset.Record) error {
	switch rec.Kind {
	case dataset.EntitySystem:
		sys, err := rec.System()
		if err != nil {
			return err
		}
		return r.AddSystem(sys)
	case dataset.EntityAsset:
		a, err := rec.Asset()
		if err != nil {
			return err
		}
		return r.AddAsset(a)
	}
	return fmt.Errorf("unknown entity kind %q", rec.Kind)
}

// Link resolves every jump target and asset reference. Jump targets and
// system asset lists must resolve against known entities; a concrete asset
// no system claims is logged and dropped rather than treated as an error,
// since datasets commonly ship unplaced planets.
func (r *Registry) Link() error {
	claimed := make(map[string]bool, len(r.assets))

	for _, name := range r.SystemNames() {
		sys := r.systems[name]
		for _, jump := range sys.Jumps {
			if _, ok := r.systems[jump.Target]; !ok {
				return &UnresolvedReferenceError{Kind: "jump", Entity: sys.Name, Target: jump.Target}
			}
		}
		for _, asset := range sys.Assets {
			a, ok := r.assets[asset]
			if !ok {
				return &UnresolvedReferenceError{Kind: "asset", Entity: sys.Name, Target: asset}
			}
			if a.Virtual {
				continue
			}
			if owner, ok := r.owners[asset]; ok {
				return &dataset.ParseError{
					File:    sys.File,
					Message: fmt.Sprintf("asset %q claimed by both %q and %q", asset, owner, sys.Name),
				}
			}
			r.owners[asset] = sys.Name
			claimed[asset] = true
		}
	}

	for _, name := range r.AssetNames() {
		a := r.assets[name]
		if a.Virtual || claimed[name] {
			continue
		}
		r.logger.Warn("asset placed in no system, skipping", "asset", name, "file", a.File)
		delete(r.assets, name)
	}

	r.linked = true
	return nil
}

// Linked reports whether Link has completed successfully.
func (r *Registry) Linked() bool { return r.linked }

// SystemNames returns every system name in sorted order.
func (r *Registry) SystemNames() []string {
	names := make([]string, 0, len(r.systems))
	for name := range r.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AssetNames returns every asset name in sorted order.
func (r *Registry) AssetNames() []string {
	names := make([]string, 0, len(r.assets))
	for name := range r.assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// System returns a system by name.
func (r *Registry) System(name string) (*dataset.SSystem, bool) {
	sys, ok := r.systems[name]
	return sys, ok
}

// Asset returns an asset by name.
func (r *Registry) Asset(name string) (*dataset.Asset, bool) {
	a, ok := r.assets[name]
	return a, ok
}

// OwnerOf returns the name of the system an asset is placed in. Virtual
// assets have no single owner.
func (r *Registry) OwnerOf(asset string) (string, bool) {
	owner, ok := r.owners[asset]
	return owner, ok
}

// VirtualAssetsOf returns the names of the virtual assets a system lists,
// in sorted order.
func (r *Registry) VirtualAssetsOf(system string) []string {
	sys, ok := r.systems[system]
	if !ok {
		return nil
	}
	var out []string
	for _, name := range sys.Assets {
		if a, ok := r.assets[name]; ok && a.Virtual {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ConcreteAssetsOf returns the names of the placed assets a system lists,
// in sorted order.
func (r *Registry) ConcreteAssetsOf(system string) []string {
	sys, ok := r.systems[system]
	if !ok {
		return nil
	}
	var out []string
	for _, name := range sys.Assets {
		if a, ok := r.assets[name]; ok && !a.Virtual {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

package compiler

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sort"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/perey/naevtools/internal/dataset"
	"github.com/perey/naevtools/internal/registry"
)

//go:embed schema.sql
var schemaSQL string

// FormatVersion identifies the database layout. Bump it whenever the schema
// changes shape.
const FormatVersion = "1"

func writerDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)"
}

func readerDSN(path string) string {
	return "file:" + path + "?mode=ro&_pragma=foreign_keys(1)"
}

// emit writes the linked registry to a fresh database at path. All rows go
// in within one transaction, in sorted order, so identical datasets always
// produce identical files.
func emit(ctx context.Context, path string, reg *registry.Registry, meta dataset.Meta) error {
	db, err := sql.Open("sqlite", writerDSN(path))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	systemIDs, err := emitSystems(ctx, tx, reg)
	if err != nil {
		return err
	}
	if err := emitJumps(ctx, tx, reg, systemIDs); err != nil {
		return err
	}
	if err := emitAssets(ctx, tx, reg, systemIDs); err != nil {
		return err
	}
	if err := emitVirtualAssets(ctx, tx, reg, systemIDs); err != nil {
		return err
	}
	if err := emitMetadata(ctx, tx, reg, meta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing database: %w", err)
	}
	return db.Close()
}

func emitSystems(ctx context.Context, tx *sql.Tx, reg *registry.Registry) (map[string]int64, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO systems
		(name, x, y, radius, stars, interference, nebula_density, nebula_volatility)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing system insert: %w", err)
	}
	defer stmt.Close()

	ids := make(map[string]int64)
	for _, name := range reg.SystemNames() {
		sys, _ := reg.System(name)
		res, err := stmt.ExecContext(ctx, sys.Name, sys.Pos.X, sys.Pos.Y,
			sys.Radius, sys.Stars, sys.Interference,
			sys.Nebula.Density, sys.Nebula.Volatility)
		if err != nil {
			return nil, fmt.Errorf("writing system %q: %w", name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("writing system %q: %w", name, err)
		}
		ids[name] = id
	}
	return ids, nil
}

func emitJumps(ctx context.Context, tx *sql.Tx, reg *registry.Registry, systemIDs map[string]int64) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO jumps
		(from_system, to_system, x, y, hide, exit_only)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing jump insert: %w", err)
	}
	defer stmt.Close()

	for _, name := range reg.SystemNames() {
		sys, _ := reg.System(name)
		for _, jump := range sys.Jumps {
			var x, y any
			if jump.Pos != nil {
				x, y = jump.Pos.X, jump.Pos.Y
			}
			_, err := stmt.ExecContext(ctx, systemIDs[name], systemIDs[jump.Target],
				x, y, jump.Hide, boolInt(jump.ExitOnly))
			if err != nil {
				return fmt.Errorf("writing jump %s -> %s: %w", name, jump.Target, err)
			}
		}
	}
	return nil
}

func emitAssets(ctx context.Context, tx *sql.Tx, reg *registry.Registry, systemIDs map[string]int64) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO assets
		(name, system_id, x, y, class, population, hide,
		 gfx_space, gfx_exterior, faction, presence, presence_range,
		 description, land, bar_description,
		 has_bar, has_refuel, has_missions, has_outfits, has_shipyard, has_commodity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing asset insert: %w", err)
	}
	defer stmt.Close()

	commodityStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO asset_commodities (asset_id, commodity) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing commodity insert: %w", err)
	}
	defer commodityStmt.Close()

	techStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO asset_techs (asset_id, item) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing tech insert: %w", err)
	}
	defer techStmt.Close()

	for _, name := range reg.AssetNames() {
		a, _ := reg.Asset(name)
		if a.Virtual {
			continue
		}
		owner, ok := reg.OwnerOf(name)
		if !ok {
			return fmt.Errorf("asset %q has no owning system", name)
		}
		res, err := stmt.ExecContext(ctx, a.Name, systemIDs[owner],
			a.Pos.X, a.Pos.Y, a.Class, a.Population, a.Hide,
			a.GFX["space"], a.GFX["exterior"],
			a.Presence.Faction, a.Presence.Value, a.Presence.Range,
			a.Description, a.Services.Land, a.Services.Bar,
			boolInt(a.Services.HasBar), boolInt(a.Services.HasRefuel),
			boolInt(a.Services.HasMissions), boolInt(a.Services.HasOutfits),
			boolInt(a.Services.HasShipyard), boolInt(a.Services.Commodities != nil))
		if err != nil {
			return fmt.Errorf("writing asset %q: %w", name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("writing asset %q: %w", name, err)
		}
		for _, commodity := range a.Services.Commodities {
			if _, err := commodityStmt.ExecContext(ctx, id, commodity); err != nil {
				return fmt.Errorf("writing commodity %q of %q: %w", commodity, name, err)
			}
		}
		for _, item := range a.Techs {
			if _, err := techStmt.ExecContext(ctx, id, item); err != nil {
				return fmt.Errorf("writing tech %q of %q: %w", item, name, err)
			}
		}
	}
	return nil
}

func emitVirtualAssets(ctx context.Context, tx *sql.Tx, reg *registry.Registry, systemIDs map[string]int64) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO virtual_assets
		(name, faction, presence, presence_range) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing virtual asset insert: %w", err)
	}
	defer stmt.Close()

	linkStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO system_virtual_assets (system_id, asset_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing virtual asset link insert: %w", err)
	}
	defer linkStmt.Close()

	ids := make(map[string]int64)
	for _, name := range reg.AssetNames() {
		a, _ := reg.Asset(name)
		if !a.Virtual {
			continue
		}
		res, err := stmt.ExecContext(ctx, a.Name,
			a.Presence.Faction, a.Presence.Value, a.Presence.Range)
		if err != nil {
			return fmt.Errorf("writing virtual asset %q: %w", name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("writing virtual asset %q: %w", name, err)
		}
		ids[name] = id
	}

	for _, system := range reg.SystemNames() {
		for _, name := range reg.VirtualAssetsOf(system) {
			if _, err := linkStmt.ExecContext(ctx, systemIDs[system], ids[name]); err != nil {
				return fmt.Errorf("linking virtual asset %q to %q: %w", name, system, err)
			}
		}
	}
	return nil
}

func emitMetadata(ctx context.Context, tx *sql.Tx, reg *registry.Registry, meta dataset.Meta) error {
	var jumps, concrete, virtual int
	for _, name := range reg.SystemNames() {
		sys, _ := reg.System(name)
		jumps += len(sys.Jumps)
	}
	for _, name := range reg.AssetNames() {
		a, _ := reg.Asset(name)
		if a.Virtual {
			virtual++
		} else {
			concrete++
		}
	}

	entries := map[string]string{
		"format":           FormatVersion,
		"dataset_version":  meta.Version,
		"dataset_revision": meta.Revision,
		"systems":          strconv.Itoa(len(reg.SystemNames())),
		"assets":           strconv.Itoa(concrete),
		"virtual_assets":   strconv.Itoa(virtual),
		"jumps":            strconv.Itoa(jumps),
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO metadata (key, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing metadata insert: %w", err)
	}
	defer stmt.Close()

	for _, k := range keys {
		if _, err := stmt.ExecContext(ctx, k, entries[k]); err != nil {
			return fmt.Errorf("writing metadata %q: %w", k, err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package compiler

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/perey/naevtools/internal/dataset"
)

// Reader provides read-only access to a compiled database, reconstructing
// the same typed views the compiler consumed.
type Reader struct {
	db *sql.DB
}

// OpenReader opens a compiled database read-only.
func OpenReader(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening compiled database: %w", err)
	}
	db, err := sql.Open("sqlite", readerDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening compiled database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening compiled database: %w", err)
	}
	return &Reader{db: db}, nil
}

// Close releases the underlying database handle.
func (r *Reader) Close() error { return r.db.Close() }

// Metadata returns every metadata row.
func (r *Reader) Metadata(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("reading metadata: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// SystemNames returns every system name in sorted order.
func (r *Reader) SystemNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM systems ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("reading systems: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("reading systems: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// System reconstructs one system, including its jumps and the names of its
// assets.
func (r *Reader) System(ctx context.Context, name string) (*dataset.SSystem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, x, y, radius, stars,
		interference, nebula_density, nebula_volatility
		FROM systems WHERE name = ?`, name)

	var id int64
	sys := &dataset.SSystem{}
	err := row.Scan(&id, &sys.Name, &sys.Pos.X, &sys.Pos.Y, &sys.Radius,
		&sys.Stars, &sys.Interference, &sys.Nebula.Density, &sys.Nebula.Volatility)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("system %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading system %q: %w", name, err)
	}

	if sys.Jumps, err = r.jumpsFrom(ctx, id); err != nil {
		return nil, fmt.Errorf("reading system %q: %w", name, err)
	}
	if sys.Assets, err = r.assetNamesIn(ctx, id); err != nil {
		return nil, fmt.Errorf("reading system %q: %w", name, err)
	}
	return sys, nil
}

// Systems reconstructs every system in sorted order.
func (r *Reader) Systems(ctx context.Context) ([]*dataset.SSystem, error) {
	names, err := r.SystemNames(ctx)
	if err != nil {
		return nil, err
	}
	systems := make([]*dataset.SSystem, 0, len(names))
	for _, name := range names {
		sys, err := r.System(ctx, name)
		if err != nil {
			return nil, err
		}
		systems = append(systems, sys)
	}
	return systems, nil
}

func (r *Reader) jumpsFrom(ctx context.Context, systemID int64) ([]dataset.Jump, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT s.name, j.x, j.y, j.hide, j.exit_only
		FROM jumps j JOIN systems s ON s.id = j.to_system
		WHERE j.from_system = ? ORDER BY s.name`, systemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jumps []dataset.Jump
	for rows.Next() {
		var jump dataset.Jump
		var x, y sql.NullFloat64
		var exitOnly int
		if err := rows.Scan(&jump.Target, &x, &y, &jump.Hide, &exitOnly); err != nil {
			return nil, err
		}
		if x.Valid && y.Valid {
			jump.Pos = &dataset.Coords{X: x.Float64, Y: y.Float64}
		}
		jump.ExitOnly = exitOnly != 0
		jumps = append(jumps, jump)
	}
	return jumps, rows.Err()
}

func (r *Reader) assetNamesIn(ctx context.Context, systemID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM assets WHERE system_id = ?
		UNION SELECT v.name FROM virtual_assets v
		JOIN system_virtual_assets sv ON sv.asset_id = v.id
		WHERE sv.system_id = ?
		ORDER BY name`, systemID, systemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AssetNames returns every asset name, concrete and virtual, sorted.
func (r *Reader) AssetNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM assets UNION SELECT name FROM virtual_assets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("reading assets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("reading assets: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Asset reconstructs one asset, concrete or virtual.
func (r *Reader) Asset(ctx context.Context, name string) (*dataset.Asset, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, x, y, class, population, hide,
		gfx_space, gfx_exterior, faction, presence, presence_range,
		description, land, bar_description,
		has_bar, has_refuel, has_missions, has_outfits, has_shipyard, has_commodity
		FROM assets WHERE name = ?`, name)

	var id int64
	var gfxSpace, gfxExterior string
	var hasBar, hasRefuel, hasMissions, hasOutfits, hasShipyard, hasCommodity int
	a := &dataset.Asset{}
	err := row.Scan(&id, &a.Name, &a.Pos.X, &a.Pos.Y, &a.Class, &a.Population, &a.Hide,
		&gfxSpace, &gfxExterior,
		&a.Presence.Faction, &a.Presence.Value, &a.Presence.Range,
		&a.Description, &a.Services.Land, &a.Services.Bar,
		&hasBar, &hasRefuel, &hasMissions, &hasOutfits, &hasShipyard, &hasCommodity)
	if err == sql.ErrNoRows {
		return r.virtualAsset(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading asset %q: %w", name, err)
	}

	a.GFX = map[string]string{}
	if gfxSpace != "" {
		a.GFX["space"] = gfxSpace
	}
	if gfxExterior != "" {
		a.GFX["exterior"] = gfxExterior
	}
	a.Services.HasBar = hasBar != 0
	a.Services.HasRefuel = hasRefuel != 0
	a.Services.HasMissions = hasMissions != 0
	a.Services.HasOutfits = hasOutfits != 0
	a.Services.HasShipyard = hasShipyard != 0

	if hasCommodity != 0 {
		a.Services.Commodities = []string{}
		rows, err := r.db.QueryContext(ctx,
			`SELECT commodity FROM asset_commodities WHERE asset_id = ? ORDER BY commodity`, id)
		if err != nil {
			return nil, fmt.Errorf("reading asset %q: %w", name, err)
		}
		defer rows.Close()
		for rows.Next() {
			var c string
			if err := rows.Scan(&c); err != nil {
				return nil, fmt.Errorf("reading asset %q: %w", name, err)
			}
			a.Services.Commodities = append(a.Services.Commodities, c)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("reading asset %q: %w", name, err)
		}
	}

	techRows, err := r.db.QueryContext(ctx,
		`SELECT item FROM asset_techs WHERE asset_id = ? ORDER BY item`, id)
	if err != nil {
		return nil, fmt.Errorf("reading asset %q: %w", name, err)
	}
	defer techRows.Close()
	for techRows.Next() {
		var item string
		if err := techRows.Scan(&item); err != nil {
			return nil, fmt.Errorf("reading asset %q: %w", name, err)
		}
		a.Techs = append(a.Techs, item)
	}
	return a, techRows.Err()
}

func (r *Reader) virtualAsset(ctx context.Context, name string) (*dataset.Asset, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT name, faction, presence, presence_range FROM virtual_assets WHERE name = ?`, name)
	a := &dataset.Asset{Virtual: true, GFX: map[string]string{}}
	err := row.Scan(&a.Name, &a.Presence.Faction, &a.Presence.Value, &a.Presence.Range)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("asset %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading asset %q: %w", name, err)
	}
	return a, nil
}

// Presences aggregates faction presence inside one system: every concrete
// and virtual asset in the system contributes its presence, summed per
// (faction, range) pair and returned sorted by faction then range.
func (r *Reader) Presences(ctx context.Context, system string) ([]dataset.Presence, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT faction, SUM(presence), presence_range FROM (
			SELECT a.faction AS faction, a.presence AS presence, a.presence_range AS presence_range
			FROM assets a JOIN systems s ON s.id = a.system_id
			WHERE s.name = ? AND a.faction != ''
		UNION ALL
			SELECT v.faction, v.presence, v.presence_range
			FROM virtual_assets v
			JOIN system_virtual_assets sv ON sv.asset_id = v.id
			JOIN systems s ON s.id = sv.system_id
			WHERE s.name = ? AND v.faction != ''
		)
		GROUP BY faction, presence_range
		ORDER BY faction, presence_range`, system, system)
	if err != nil {
		return nil, fmt.Errorf("reading presences of %q: %w", system, err)
	}
	defer rows.Close()

	var out []dataset.Presence
	for rows.Next() {
		var p dataset.Presence
		if err := rows.Scan(&p.Faction, &p.Value, &p.Range); err != nil {
			return nil, fmt.Errorf("reading presences of %q: %w", system, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// OwnerOf returns the system a concrete asset is placed in.
func (r *Reader) OwnerOf(ctx context.Context, asset string) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT s.name FROM assets a
		JOIN systems s ON s.id = a.system_id WHERE a.name = ?`, asset)
	var owner string
	if err := row.Scan(&owner); err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("asset %q not found", asset)
		}
		return "", fmt.Errorf("reading owner of %q: %w", asset, err)
	}
	return owner, nil
}

package dataset

import "sort"

// defaultJumpHide matches the upstream data convention for jump points that
// do not declare a hide value.
const defaultJumpHide = 1.25

// Coords is a position in the game's 2D space.
type Coords struct {
	X float64
	Y float64
}

// Nebula holds a system's nebula statistics.
type Nebula struct {
	Density    float64
	Volatility float64
}

// Jump is one hyperspace jump point: a reference from its owning system to
// the target system. Pos is nil when the point is auto-positioned.
type Jump struct {
	Target   string
	Pos      *Coords
	Hide     float64
	ExitOnly bool
}

// SSystem is a star system as declared by one data file. Assets holds the
// names of in-system assets; both Assets and Jumps carry references that
// must resolve during normalization.
type SSystem struct {
	Name         string
	File         string
	Pos          Coords
	Radius       float64
	Stars        int64
	Interference float64
	Nebula       Nebula
	Assets       []string
	Jumps        []Jump
}

// Presence describes a faction's hold over an asset.
type Presence struct {
	Faction string
	Value   float64
	Range   int64
}

// Services lists what an asset offers to a landed player. A bar or
// commodity market that is simply absent is distinct from one that is
// present but undescribed.
type Services struct {
	Land        string // "" means landing is forbidden; "any" means open
	Bar         string
	HasBar      bool
	HasRefuel   bool
	HasMissions bool
	HasOutfits  bool
	HasShipyard bool
	Commodities []string // nil when no commodity market
}

// Asset is a planet, station, or virtual (presence-only) asset.
type Asset struct {
	Name        string
	File        string
	Virtual     bool
	Pos         Coords
	GFX         map[string]string
	Presence    Presence
	Techs       []string
	Class       string
	Population  int64
	Hide        float64
	Description string
	Services    Services
}

// System decodes a raw system record into its typed view.
func (r *Record) System() (*SSystem, error) {
	if r.Kind != EntitySystem {
		return nil, parseErrorf(r.File, "record %q is not a system", r.Name)
	}

	sys := &SSystem{Name: r.Name, File: r.File}

	pos, ok := r.Attrs.Get("pos")
	if !ok {
		return nil, parseErrorf(r.File, "system %q has no position", r.Name)
	}
	var err error
	if sys.Pos, err = coordsOf(pos, r.File, "pos"); err != nil {
		return nil, err
	}

	if general, ok := r.Attrs.Get("general"); ok {
		if err := decodeSystemGeneral(sys, general, r.File); err != nil {
			return nil, err
		}
	}

	if assets, ok := r.Attrs.Get("assets"); ok {
		sys.Assets = textListOf(assets, "asset")
		sort.Strings(sys.Assets)
	}

	if jumps, ok := r.Attrs.Get("jumps"); ok {
		if err := decodeJumps(sys, jumps, r.File); err != nil {
			return nil, err
		}
	}

	return sys, nil
}

func decodeSystemGeneral(sys *SSystem, general Value, file string) error {
	var err error
	if v, ok := general.Get("radius"); ok {
		if sys.Radius, err = realOf(v, file, "radius", 0); err != nil {
			return err
		}
	}
	if v, ok := general.Get("interference"); ok {
		if sys.Interference, err = realOf(v, file, "interference", 0); err != nil {
			return err
		}
	}
	if v, ok := general.Get("stars"); ok {
		if sys.Stars, err = intOf(v, file, "stars", 0); err != nil {
			return err
		}
	}
	if v, ok := general.Get("nebula"); ok {
		// Density is the element content; volatility rides on an attribute.
		density := v
		if content, ok := v.Get("#text"); ok {
			density = content
		}
		if sys.Nebula.Density, err = realOf(density, file, "nebula", 0); err != nil {
			return err
		}
		if vol, ok := v.Get("volatility"); ok {
			if sys.Nebula.Volatility, err = realOf(vol, file, "nebula.volatility", 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeJumps(sys *SSystem, jumps Value, file string) error {
	entry, ok := jumps.Get("jump")
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	for _, jv := range entry.AsList() {
		target, ok := jv.Get("target")
		if !ok {
			return parseErrorf(file, "system %q has a jump with no target", sys.Name)
		}
		name, _ := target.AsText()
		if name == "" {
			return parseErrorf(file, "system %q has a jump with an empty target", sys.Name)
		}
		if seen[name] {
			return parseErrorf(file, "system %q declares its jump to %q twice", sys.Name, name)
		}
		seen[name] = true

		jump := Jump{Target: name, Hide: defaultJumpHide}

		if hv, ok := jv.Get("hide"); ok {
			var err error
			if jump.Hide, err = realOf(hv, file, "jump.hide", defaultJumpHide); err != nil {
				return err
			}
		}
		if _, ok := jv.Get("exitonly"); ok {
			jump.ExitOnly = true
		}
		// Auto-positioned jumps have no fixed coordinates.
		if _, auto := jv.Get("autopos"); !auto {
			if pv, ok := jv.Get("pos"); ok {
				pos, err := coordsOf(pv, file, "jump.pos")
				if err != nil {
					return err
				}
				jump.Pos = &pos
			}
		}

		sys.Jumps = append(sys.Jumps, jump)
	}

	sort.Slice(sys.Jumps, func(i, j int) bool { return sys.Jumps[i].Target < sys.Jumps[j].Target })
	return nil
}

// Asset decodes a raw asset record into its typed view.
func (r *Record) Asset() (*Asset, error) {
	if r.Kind != EntityAsset {
		return nil, parseErrorf(r.File, "record %q is not an asset", r.Name)
	}

	a := &Asset{Name: r.Name, File: r.File, GFX: map[string]string{}}

	if _, ok := r.Attrs.Get("virtual"); ok {
		a.Virtual = true
	}

	if pos, ok := r.Attrs.Get("pos"); ok {
		var err error
		if a.Pos, err = coordsOf(pos, r.File, "pos"); err != nil {
			return nil, err
		}
	} else if !a.Virtual {
		return nil, parseErrorf(r.File, "asset %q has no position", r.Name)
	}

	if gfx, ok := r.Attrs.Get("GFX"); ok {
		for _, key := range gfx.Keys() {
			if v, ok := gfx.Get(key); ok {
				if s, ok := v.AsText(); ok {
					a.GFX[key] = s
				}
			}
		}
	}

	if pres, ok := r.Attrs.Get("presence"); ok {
		if err := decodePresence(a, pres, r.File); err != nil {
			return nil, err
		}
	}

	if tech, ok := r.Attrs.Get("tech"); ok {
		a.Techs = textListOf(tech, "item")
		sort.Strings(a.Techs)
	}

	if general, ok := r.Attrs.Get("general"); ok {
		if err := decodeAssetGeneral(a, general, r.File); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func decodePresence(a *Asset, pres Value, file string) error {
	var err error
	if v, ok := pres.Get("faction"); ok {
		a.Presence.Faction, _ = v.AsText()
	}
	if v, ok := pres.Get("value"); ok {
		if a.Presence.Value, err = realOf(v, file, "presence.value", 0); err != nil {
			return err
		}
	}
	if v, ok := pres.Get("range"); ok {
		if a.Presence.Range, err = intOf(v, file, "presence.range", 0); err != nil {
			return err
		}
	}
	return nil
}

func decodeAssetGeneral(a *Asset, general Value, file string) error {
	var err error
	if v, ok := general.Get("class"); ok {
		a.Class, _ = v.AsText()
	}
	if v, ok := general.Get("population"); ok {
		if a.Population, err = intOf(v, file, "population", 0); err != nil {
			return err
		}
	}
	if v, ok := general.Get("hide"); ok {
		if a.Hide, err = realOf(v, file, "hide", 0); err != nil {
			return err
		}
	}
	if v, ok := general.Get("description"); ok {
		a.Description, _ = v.AsText()
	}

	// The bar description and commodity list live under <general>, but only
	// take effect when the matching service is declared.
	var barDesc string
	if v, ok := general.Get("bar"); ok {
		barDesc, _ = v.AsText()
	}
	var commodities []string
	if v, ok := general.Get("commodities"); ok {
		commodities = textListOf(v, "commodity")
		sort.Strings(commodities)
	}

	if sv, ok := general.Get("services"); ok {
		if land, ok := sv.Get("land"); ok {
			who, _ := land.AsText()
			if who == "" {
				// An empty <land> tag means anyone can land; an absent one
				// means no-one can.
				who = "any"
			}
			a.Services.Land = who
		}
		if _, ok := sv.Get("bar"); ok {
			a.Services.HasBar = true
			a.Services.Bar = barDesc
		}
		if _, ok := sv.Get("refuel"); ok {
			a.Services.HasRefuel = true
		}
		if _, ok := sv.Get("missions"); ok {
			a.Services.HasMissions = true
		}
		if _, ok := sv.Get("outfits"); ok {
			a.Services.HasOutfits = true
		}
		if _, ok := sv.Get("shipyard"); ok {
			a.Services.HasShipyard = true
		}
		if _, ok := sv.Get("commodity"); ok {
			a.Services.Commodities = commodities
			if a.Services.Commodities == nil {
				a.Services.Commodities = []string{}
			}
		}
	}

	return nil
}

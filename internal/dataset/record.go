package dataset

import (
	"strconv"
	"strings"
)

// EntityKind names the class of game object a record describes.
type EntityKind string

const (
	EntitySystem EntityKind = "system"
	EntityAsset  EntityKind = "asset"
)

// Record is the raw projection of one data file: the entity kind, its
// identifier, and the attribute tree exactly as declared in the markup.
// Records are immutable once returned by the scanner.
type Record struct {
	Kind  EntityKind
	Name  string
	File  string
	Attrs Value
}

// realOf converts a scalar to a float, accepting the empty text scalar as
// the default (empty elements are common in hand-written data files).
func realOf(v Value, file, key string, def float64) (float64, error) {
	if f, ok := v.AsReal(); ok {
		return f, nil
	}
	if s, ok := v.AsText(); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return def, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		}
	}
	return 0, parseErrorf(file, "attribute %q is not numeric (got %s)", key, v)
}

// intOf converts a scalar to an integer.
func intOf(v Value, file, key string, def int64) (int64, error) {
	if i, ok := v.AsInt(); ok {
		return i, nil
	}
	if s, ok := v.AsText(); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return def, nil
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
	}
	return 0, parseErrorf(file, "attribute %q is not an integer (got %s)", key, v)
}

// coordsOf extracts an x/y pair from a map value.
func coordsOf(v Value, file, key string) (Coords, error) {
	x, ok := v.Get("x")
	if !ok {
		return Coords{}, parseErrorf(file, "%s has no x coordinate", key)
	}
	y, ok := v.Get("y")
	if !ok {
		return Coords{}, parseErrorf(file, "%s has no y coordinate", key)
	}
	xf, err := realOf(x, file, key+".x", 0)
	if err != nil {
		return Coords{}, err
	}
	yf, err := realOf(y, file, key+".y", 0)
	if err != nil {
		return Coords{}, err
	}
	return Coords{X: xf, Y: yf}, nil
}

// textListOf collects the text of every element named key under v.
func textListOf(v Value, key string) []string {
	entry, ok := v.Get(key)
	if !ok {
		return nil
	}
	var out []string
	for _, e := range entry.AsList() {
		if s, ok := e.AsText(); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

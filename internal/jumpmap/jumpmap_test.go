package jumpmap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perey/naevtools/internal/compiler"
	"github.com/perey/naevtools/internal/dataset"
)

func coords(x, y float64) dataset.Coords { return dataset.Coords{X: x, Y: y} }

func TestCollectSplitsJumpDirections(t *testing.T) {
	systems := []*dataset.SSystem{
		{Name: "Alpha", Pos: coords(100, 50), Jumps: []dataset.Jump{
			{Target: "Beta"},
			{Target: "Gamma"},
		}},
		{Name: "Beta", Pos: coords(-200, 0), Jumps: []dataset.Jump{
			{Target: "Alpha"},
		}},
		{Name: "Gamma", Pos: coords(0, -300), Jumps: []dataset.Jump{
			// Exit-only: cannot be entered from Gamma, so the link exists
			// only in the Alpha-to-Gamma direction.
			{Target: "Alpha", ExitOnly: true},
		}},
	}

	data := collect(systems)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, data.names)
	assert.Equal(t, -200.0, data.xmin)
	assert.Equal(t, 100.0, data.xmax)
	assert.Equal(t, -300.0, data.ymin)
	assert.Equal(t, 50.0, data.ymax)

	require.Len(t, data.twoWay, 1)
	assert.Equal(t, edge{from: coords(100, 50), to: coords(-200, 0)}, data.twoWay[0])

	require.Len(t, data.oneWay, 1)
	assert.Equal(t, edge{from: coords(100, 50), to: coords(0, -300)}, data.oneWay[0])
}

func TestRenderProducesWellFormedMap(t *testing.T) {
	systems := []*dataset.SSystem{
		{Name: "Alpha", Pos: coords(0, 0), Jumps: []dataset.Jump{{Target: "Beta"}}},
		{Name: "Beta", Pos: coords(500, 250), Jumps: []dataset.Jump{{Target: "Alpha"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, collect(systems), DefaultOptions()))
	svg := buf.String()

	assert.True(t, strings.HasPrefix(svg, `<?xml version="1.0"?>`))
	assert.Contains(t, svg, `<svg xmlns="http://www.w3.org/2000/svg"`)
	// SVG y runs downward, so map y is negated.
	assert.Contains(t, svg, `<path d="M0,0 500,-250"/>`)
	assert.Contains(t, svg, `<circle cx="500" cy="-250" r="5"/>`)
	assert.Contains(t, svg, `>Alpha</text>`)
	assert.Contains(t, svg, "</svg>\n")
	// The oneway class appears in the stylesheet regardless; no path may
	// carry it when every jump is two-way.
	assert.NotContains(t, svg, `class="oneway"`)
}

func TestRenderOneWayArrow(t *testing.T) {
	systems := []*dataset.SSystem{
		{Name: "Alpha", Pos: coords(0, 0), Jumps: []dataset.Jump{{Target: "Beta"}}},
		{Name: "Beta", Pos: coords(400, 0), Jumps: []dataset.Jump{{Target: "Alpha", ExitOnly: true}}},
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, collect(systems), DefaultOptions()))
	svg := buf.String()

	assert.Contains(t, svg, `class="oneway"`)
	assert.Contains(t, svg, `d="M0,0 l200,0 200,0"`)
}

func TestRenderEscapesNames(t *testing.T) {
	systems := []*dataset.SSystem{{Name: "R&D", Pos: coords(0, 0)}}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, collect(systems), DefaultOptions()))
	assert.Contains(t, buf.String(), ">R&amp;D</text>")
}

func TestWriteDeterministic(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("ssys/sol.xml", `<ssys name="Sol"><pos x="0" y="0"/><jumps><jump target="Alpha"><autopos/></jump></jumps></ssys>`)
	write("ssys/alpha.xml", `<ssys name="Alpha"><pos x="1000" y="500"/><jumps><jump target="Sol"><autopos/></jump></jumps></ssys>`)

	out := filepath.Join(t.TempDir(), "naev.db")
	require.NoError(t, compiler.New(root, out).Run(context.Background()))
	r, err := compiler.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	var first, second bytes.Buffer
	require.NoError(t, Write(context.Background(), r, &first, DefaultOptions()))
	require.NoError(t, Write(context.Background(), r, &second, DefaultOptions()))
	assert.Equal(t, first.String(), second.String())
	assert.Contains(t, first.String(), ">Sol</text>")
}

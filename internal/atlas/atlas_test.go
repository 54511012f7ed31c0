package atlas

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perey/naevtools/internal/compiler"
)

func TestScaleTerm(t *testing.T) {
	tests := []struct {
		scale string
		val   float64
		want  string
	}{
		{"radius", 4000, "very small"},
		{"radius", 15000, "medium"},
		{"radius", 99999, "very large"},
		{"interference", 0, "none"},
		{"interference", 800, "extreme"},
		{"density", 120, "moderate"},
		{"volatility", 50, "low"},
		{"stars", 800, "very high"},
	}
	for _, tt := range tests {
		got, err := ScaleTerm(tt.scale, tt.val)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %v", tt.scale, tt.val)
	}

	_, err := ScaleTerm("gravity", 1)
	assert.Error(t, err)
}

func fixtureReader(t *testing.T) *compiler.Reader {
	t.Helper()
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("ssys/sol.xml", `<ssys name="Sol">
 <general><radius>15000</radius><stars>800</stars><interference>0</interference><nebula volatility="0">0</nebula></general>
 <pos x="0" y="0"/>
 <assets><asset>Earth</asset></assets>
 <jumps><jump target="Alpha"><autopos/></jump></jumps>
</ssys>`)
	write("ssys/alpha.xml", `<ssys name="Alpha">
 <general><radius>8000</radius><stars>300</stars><interference>120</interference><nebula volatility="60">150</nebula></general>
 <pos x="5000" y="1000"/>
 <jumps><jump target="Sol"><pos x="1" y="2"/></jump></jumps>
</ssys>`)
	write("assets/earth.xml", `<asset name="Earth">
 <pos x="1" y="2"/>
 <presence><faction>Empire</faction><value>500</value><range>2</range></presence>
 <general>
  <class>M</class><population>8000000000</population><hide>0</hide>
  <services><land/><bar/></services>
  <description>Homeworld.</description>
  <bar>The bar.</bar>
 </general>
</asset>`)

	out := filepath.Join(t.TempDir(), "naev.db")
	require.NoError(t, compiler.New(root, out).Run(context.Background()))
	r, err := compiler.OpenReader(out)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestGenerateWritesSite(t *testing.T) {
	g, err := NewGenerator(fixtureReader(t))
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "atlas")
	require.NoError(t, g.Generate(context.Background(), outDir))

	index, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `<a href="ssys/Sol.html">Sol</a>`)
	assert.Contains(t, string(index), `<a href="assets/Earth.html">Earth</a>`)

	sol, err := os.ReadFile(filepath.Join(outDir, "ssys", "Sol.html"))
	require.NoError(t, err)
	assert.Contains(t, string(sol), "<h1>Sol</h1>")
	assert.Contains(t, string(sol), "15000 (medium)")
	assert.Contains(t, string(sol), "800 (very high)")
	assert.Contains(t, string(sol), `<a href="Alpha.html">Alpha</a> (auto-positioned)`)
	assert.Contains(t, string(sol), `<a href="../assets/Earth.html">Earth</a>`)
	assert.Contains(t, string(sol), "<dt>Empire</dt>")

	earth, err := os.ReadFile(filepath.Join(outDir, "assets", "Earth.html"))
	require.NoError(t, err)
	assert.Contains(t, string(earth), "<h1>Earth</h1>")
	assert.Contains(t, string(earth), `<a href="../ssys/Sol.html">Sol</a>`)
	assert.Contains(t, string(earth), "Homeworld.")
	assert.Contains(t, string(earth), "The bar.")
	assert.Contains(t, string(earth), "<dd>any</dd>")
}

func TestGenerateRefusesExistingDirectory(t *testing.T) {
	g, err := NewGenerator(fixtureReader(t))
	require.NoError(t, err)

	outDir := t.TempDir()
	err = g.Generate(context.Background(), outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

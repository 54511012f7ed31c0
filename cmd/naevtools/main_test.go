package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perey/naevtools/internal/cli"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func dataFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFixture(t, root, "ssys/sol.xml", `<ssys name="Sol">
 <general>
  <radius>15000</radius>
  <stars>800</stars>
  <interference>0</interference>
  <nebula volatility="0">0</nebula>
 </general>
 <pos x="0" y="0"/>
 <assets>
  <asset>Earth</asset>
 </assets>
 <jumps>
  <jump target="Alpha Centauri">
   <pos x="5000" y="-3000"/>
   <hide>1</hide>
  </jump>
 </jumps>
</ssys>`)
	writeFixture(t, root, "ssys/alpha.xml", `<ssys name="Alpha Centauri">
 <general>
  <radius>10000</radius>
  <stars>450</stars>
  <interference>10</interference>
  <nebula volatility="0.5">120</nebula>
 </general>
 <pos x="9000" y="-4000"/>
 <assets/>
 <jumps>
  <jump target="Sol">
   <autopos/>
  </jump>
 </jumps>
</ssys>`)
	writeFixture(t, root, "assets/earth.xml", `<asset name="Earth">
 <pos x="100" y="200"/>
 <presence>
  <faction>Empire</faction>
  <value>600</value>
  <range>2</range>
 </presence>
 <general>
  <class>M</class>
  <population>8000000000</population>
  <hide>0</hide>
  <services>
   <land/>
  </services>
 </general>
</asset>`)
	return root
}

func TestVersionCommand(t *testing.T) {
	output, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "naevtools v")
}

func TestHelpListsCommands(t *testing.T) {
	output, err := runCLI(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"compile", "atlas", "jumpmap", "ranges", "query"} {
		assert.Contains(t, output, name)
	}
}

func TestCompileAndQuery(t *testing.T) {
	dataDir := dataFixture(t)
	dbPath := filepath.Join(t.TempDir(), "naev.db")

	output, err := runCLI(t, "compile", "--data-dir", dataDir, "--database", dbPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Compiled")
	require.FileExists(t, dbPath)

	output, err = runCLI(t, "query", "-d", dbPath, "-f", "csv",
		"SELECT name FROM systems ORDER BY name")
	require.NoError(t, err)
	assert.Contains(t, output, "Alpha Centauri\nSol")

	output, err = runCLI(t, "query", "tables", "-d", dbPath, "-f", "csv")
	require.NoError(t, err)
	assert.Contains(t, output, "systems")
	assert.Contains(t, output, "jumps")
}

func TestJumpmapWritesSVG(t *testing.T) {
	dataDir := dataFixture(t)
	dbPath := filepath.Join(t.TempDir(), "naev.db")

	_, err := runCLI(t, "compile", "--data-dir", dataDir, "--database", dbPath)
	require.NoError(t, err)

	output, err := runCLI(t, "jumpmap", "-d", dbPath)
	require.NoError(t, err)
	assert.Contains(t, output, "<svg")
	assert.Contains(t, output, "Sol")
}

func TestRangesReportsStatistics(t *testing.T) {
	dataDir := dataFixture(t)
	dbPath := filepath.Join(t.TempDir(), "naev.db")

	_, err := runCLI(t, "compile", "--data-dir", dataDir, "--database", dbPath)
	require.NoError(t, err)

	output, err := runCLI(t, "ranges", "-d", dbPath, "-f", "csv")
	require.NoError(t, err)
	assert.Contains(t, output, "Radius")
	assert.Contains(t, output, "Sol")
}

func TestCompileMissingDataDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "naev.db")
	_, err := runCLI(t, "compile", "--data-dir", filepath.Join(t.TempDir(), "nope"), "--database", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory does not exist")
	assert.NoFileExists(t, dbPath)
}

func TestQueryWithoutDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")
	_, err := runCLI(t, "query", "-d", dbPath, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'naevtools compile' first")
}

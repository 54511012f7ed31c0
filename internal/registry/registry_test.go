package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perey/naevtools/internal/dataset"
)

func system(name string, assets []string, jumps ...string) *dataset.SSystem {
	sys := &dataset.SSystem{Name: name, File: "ssys/" + name + ".xml", Assets: assets}
	for _, target := range jumps {
		sys.Jumps = append(sys.Jumps, dataset.Jump{Target: target, Hide: 1.25})
	}
	return sys
}

func asset(name string, virtual bool) *dataset.Asset {
	return &dataset.Asset{Name: name, File: "assets/" + name + ".xml", Virtual: virtual}
}

func TestLinkResolvesForwardReferences(t *testing.T) {
	r := New()
	// Sol references Alpha before Alpha is registered.
	require.NoError(t, r.AddSystem(system("Sol", []string{"Earth"}, "Alpha")))
	require.NoError(t, r.AddAsset(asset("Earth", false)))
	require.NoError(t, r.AddSystem(system("Alpha", nil, "Sol")))

	require.NoError(t, r.Link())
	assert.True(t, r.Linked())

	owner, ok := r.OwnerOf("Earth")
	require.True(t, ok)
	assert.Equal(t, "Sol", owner)
}

func TestLinkUnresolvedJump(t *testing.T) {
	r := New()
	require.NoError(t, r.AddSystem(system("Sol", nil, "Nowhere")))

	err := r.Link()
	var uerr *UnresolvedReferenceError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "jump", uerr.Kind)
	assert.Equal(t, "Sol", uerr.Entity)
	assert.Equal(t, "Nowhere", uerr.Target)
	assert.False(t, r.Linked())
}

func TestLinkUnresolvedAsset(t *testing.T) {
	r := New()
	require.NoError(t, r.AddSystem(system("Sol", []string{"Ghost Station"})))

	err := r.Link()
	var uerr *UnresolvedReferenceError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "asset", uerr.Kind)
	assert.Equal(t, "Ghost Station", uerr.Target)
}

func TestDuplicateSystemRejected(t *testing.T) {
	r := New()
	require.NoError(t, r.AddSystem(system("Sol", nil)))

	err := r.AddSystem(system("Sol", nil))
	var perr *dataset.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "duplicate system")
}

func TestDuplicateAssetRejected(t *testing.T) {
	r := New()
	require.NoError(t, r.AddAsset(asset("Earth", false)))

	err := r.AddAsset(asset("Earth", false))
	var perr *dataset.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "duplicate asset")
}

func TestOrphanConcreteAssetDropped(t *testing.T) {
	r := New()
	require.NoError(t, r.AddSystem(system("Sol", nil)))
	require.NoError(t, r.AddAsset(asset("Drifter", false)))

	require.NoError(t, r.Link())
	_, ok := r.Asset("Drifter")
	assert.False(t, ok)
}

func TestVirtualAssetSharedAcrossSystems(t *testing.T) {
	r := New()
	require.NoError(t, r.AddAsset(asset("Pirate Strength", true)))
	require.NoError(t, r.AddSystem(system("Sol", []string{"Pirate Strength"})))
	require.NoError(t, r.AddSystem(system("Alpha", []string{"Pirate Strength"})))

	require.NoError(t, r.Link())

	// Virtual assets survive linking without an owner.
	_, ok := r.Asset("Pirate Strength")
	assert.True(t, ok)
	_, owned := r.OwnerOf("Pirate Strength")
	assert.False(t, owned)

	assert.Equal(t, []string{"Pirate Strength"}, r.VirtualAssetsOf("Sol"))
	assert.Equal(t, []string{"Pirate Strength"}, r.VirtualAssetsOf("Alpha"))
	assert.Empty(t, r.ConcreteAssetsOf("Sol"))
}

func TestConcreteAssetClaimedTwice(t *testing.T) {
	r := New()
	require.NoError(t, r.AddAsset(asset("Earth", false)))
	require.NoError(t, r.AddSystem(system("Alpha", []string{"Earth"})))
	require.NoError(t, r.AddSystem(system("Sol", []string{"Earth"})))

	err := r.Link()
	var perr *dataset.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "claimed by both")
}

func TestSortedAccessors(t *testing.T) {
	r := New()
	require.NoError(t, r.AddSystem(system("Zeta", nil)))
	require.NoError(t, r.AddSystem(system("Alpha", nil)))
	require.NoError(t, r.AddAsset(asset("Mars", false)))
	require.NoError(t, r.AddAsset(asset("Earth", false)))

	assert.Equal(t, []string{"Alpha", "Zeta"}, r.SystemNames())
	assert.Equal(t, []string{"Earth", "Mars"}, r.AssetNames())
}

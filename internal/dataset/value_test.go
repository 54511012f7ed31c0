package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealOfConvertsAtDecodeTime(t *testing.T) {
	tests := []struct {
		in   Value
		want float64
	}{
		{Text("42"), 42},
		{Text("3.5"), 3.5},
		{Text("1e3"), 1000},
		{Text("  12  "), 12},
		{Text(""), 7.5}, // empty element falls back to the default
		{Int(9), 9},
		{Real(0.25), 0.25},
	}
	for _, tt := range tests {
		f, err := realOf(tt.in, "f.xml", "attr", 7.5)
		require.NoError(t, err)
		assert.Equal(t, tt.want, f)
	}

	_, err := realOf(Text("12abc"), "f.xml", "attr", 0)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "f.xml", perr.File)
}

func TestIntOfConvertsAtDecodeTime(t *testing.T) {
	i, err := intOf(Text("800"), "f.xml", "stars", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(800), i)

	i, err = intOf(Text(""), "f.xml", "stars", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), i)

	_, err = intOf(Text("3.5"), "f.xml", "stars", 0)
	assert.Error(t, err)
}

func TestAsRealWidensInt(t *testing.T) {
	f, ok := Int(9).AsReal()
	require.True(t, ok)
	assert.Equal(t, 9.0, f)
}

func TestAsTextRendersScalars(t *testing.T) {
	s, ok := Int(250000).AsText()
	require.True(t, ok)
	assert.Equal(t, "250000", s)

	s, ok = Real(1.25).AsText()
	require.True(t, ok)
	assert.Equal(t, "1.25", s)

	_, ok = Map(nil).AsText()
	assert.False(t, ok)
}

func TestAsListWrapsSingletons(t *testing.T) {
	single := Text("only")
	assert.Len(t, single.AsList(), 1)

	many := List(Text("a"), Text("b"))
	assert.Len(t, many.AsList(), 2)
}

func TestGetOnNonMap(t *testing.T) {
	_, ok := Text("x").Get("key")
	assert.False(t, ok)
}

func TestKeysSorted(t *testing.T) {
	v := Map(map[string]Value{"zed": Int(1), "alpha": Int(2), "mid": Int(3)})
	assert.Equal(t, []string{"alpha", "mid", "zed"}, v.Keys())
}

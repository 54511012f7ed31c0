package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", formatValue(nil))
	assert.Equal(t, "hello", formatValue("hello"))
	assert.Equal(t, "hello", formatValue([]byte("hello")))
	assert.Equal(t, "1.25", formatValue(1.25))
	assert.Equal(t, "42", formatValue(int64(42)))
}

func TestEscapeCSVField(t *testing.T) {
	assert.Equal(t, "plain", escapeCSVField("plain"))
	assert.Equal(t, `"a,b"`, escapeCSVField("a,b"))
	assert.Equal(t, `"say ""hi"""`, escapeCSVField(`say "hi"`))
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	err := renderCSV(&buf, []string{"name", "radius"}, [][]any{
		{"Sol", int64(15000)},
		{"Alpha, Centauri", int64(5000)},
	})
	require.NoError(t, err)
	assert.Equal(t, "name,radius\nSol,15000\n\"Alpha, Centauri\",5000\n", buf.String())
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	err := renderMarkdown(&buf, []string{"name"}, [][]any{{"Sol|Prime"}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "| name |")
	assert.Contains(t, buf.String(), "| --- |")
	assert.Contains(t, buf.String(), `Sol\|Prime`)
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	err := renderJSON(&buf, []string{"name", "stars"}, [][]any{
		{[]byte("Sol"), int64(800)},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name": "Sol", "stars": 800}]`, buf.String())
}

func TestRenderTableCountsRows(t *testing.T) {
	var buf bytes.Buffer
	err := renderTable(&buf, []string{"name"}, [][]any{{"Sol"}, {"Alpha"}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "(2 rows)")
	assert.Contains(t, buf.String(), "Sol")
}

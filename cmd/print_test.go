package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomgalvin.uk/qlprint/internal/media"
)

func TestParseMediaName(t *testing.T) {
	g, err := parseMediaName("62")
	require.NoError(t, err)
	assert.Equal(t, "62mm continuous", g.String())

	g, err = parseMediaName("29x90")
	require.NoError(t, err)
	assert.Equal(t, "29x90mm die-cut", g.String())

	g, err = parseMediaName("12mm")
	require.NoError(t, err)
	assert.Equal(t, 106, g.Printable.Width)

	for _, name := range []string{"", "13", "29x", "29x0", "x90", "300", "62x29x1"} {
		_, err := parseMediaName(name)
		assert.ErrorIs(t, err, ErrUnknownMediaName, name)
	}
}

func TestMediaNamesRoundTrip(t *testing.T) {
	for _, e := range media.All() {
		name := mediaName(e.ReportedWidth, e.ReportedLength)
		g, err := parseMediaName(name)
		require.NoError(t, err, name)
		assert.Equal(t, e.Geometry, g, name)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"A", "Long"}, [][]string{{"wide cell", "x"}})
	assert.Contains(t, out, "wide cell  x")
}

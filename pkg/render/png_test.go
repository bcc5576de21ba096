package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/shopdash/pkg/pattern"
)

func TestPNG_WriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	paths, err := NewPNG(DefaultPalette()).WriteDir(dir, samplePatterns())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "total-order-by-payment-type.png"),
		filepath.Join(dir, "late-delivery.png"),
		filepath.Join(dir, "by-recency-days.png"),
	}, paths)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "%s is not a PNG", p)
	}
}

func TestPNG_SkipsEmptyPie(t *testing.T) {
	pie := &pattern.Pie{
		Label:  "Nothing",
		Slices: []pattern.PieSlice{{Label: "On Time"}, {Label: "Late"}},
	}
	paths, err := NewPNG(DefaultPalette()).WriteDir(t.TempDir(), []pattern.Pattern{pie})
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestPNG_DuplicateLabels(t *testing.T) {
	board := &pattern.Leaderboard{
		Label: "Top",
		Items: []pattern.LeaderboardItem{{Name: "a", Value: 1, Rank: 1, Highlight: true}},
	}
	dir := t.TempDir()
	paths, err := NewPNG(DefaultPalette()).WriteDir(dir, []pattern.Pattern{board, board})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "top.png"),
		filepath.Join(dir, "top-2.png"),
	}, paths)
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"By Recency (days)":           "by-recency-days",
		"Total Order by Payment Type": "total-order-by-payment-type",
		"  Top 5  ":                   "top-5",
		"???":                         "chart",
	}
	for in, want := range tests {
		assert.Equal(t, want, slug(in), in)
	}
}

package chart

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-diet-pipeline/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var averages = []model.DietMacros{
	{DietType: "keto", Protein: 35, Carbs: 2.5, Fat: 15, RecordCount: 2},
	{DietType: "paleo", Protein: 10, Carbs: 20, Fat: 5, RecordCount: 1},
}

var top = []model.TopProteinEntry{
	{DietType: "keto", Rank: 1, RecipeName: "B", CuisineType: "asian", Protein: 40},
	{DietType: "keto", Rank: 2, RecipeName: "A", CuisineType: "asian", Protein: 30},
	{DietType: "paleo", Rank: 1, RecipeName: "C", CuisineType: "mexican", Protein: 10},
}

func fixedRenderer() *PNGRenderer {
	return &PNGRenderer{Now: func() time.Time { return time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC) }}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestRenderCharts(t *testing.T) {
	dir := t.TempDir()
	r := fixedRenderer()

	bar := filepath.Join(dir, "bar.png")
	require.NoError(t, r.BarChart(bar, averages))
	assertPNG(t, bar)

	heat := filepath.Join(dir, "heatmap.png")
	require.NoError(t, r.Heatmap(heat, averages))
	assertPNG(t, heat)

	scatter := filepath.Join(dir, "scatter.png")
	require.NoError(t, r.Scatter(scatter, top))
	assertPNG(t, scatter)
}

func TestHeatmap_UniformValues(t *testing.T) {
	flat := []model.DietMacros{
		{DietType: "a", Protein: 1, Carbs: 1, Fat: 1},
		{DietType: "b", Protein: 1, Carbs: 1, Fat: 1},
	}
	path := filepath.Join(t.TempDir(), "flat.png")

	require.NoError(t, fixedRenderer().Heatmap(path, flat))
	assertPNG(t, path)
}

func TestRender_NoData(t *testing.T) {
	dir := t.TempDir()
	r := NewPNGRenderer()

	assert.ErrorIs(t, r.BarChart(filepath.Join(dir, "a.png"), nil), errNoData)
	assert.ErrorIs(t, r.Heatmap(filepath.Join(dir, "b.png"), nil), errNoData)
	assert.ErrorIs(t, r.Scatter(filepath.Join(dir, "c.png"), nil), errNoData)
	assert.NoFileExists(t, filepath.Join(dir, "a.png"))
}

func TestFooter(t *testing.T) {
	assert.Equal(t, "Generated: 2024-03-09 14:30:00", fixedRenderer().footer())
}

func TestMaxRank(t *testing.T) {
	assert.Equal(t, 2, maxRank(top))
	assert.Equal(t, 3, maxRank(append(top, model.TopProteinEntry{DietType: "vegan", Rank: 3})))
	assert.Equal(t, 0, maxRank(nil))
}

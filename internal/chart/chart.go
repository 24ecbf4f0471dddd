// Package chart renders the analysis charts as PNG files.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"go-diet-pipeline/internal/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var errNoData = errors.New("nothing to plot")

// bar colors for protein, carbs, fat
var macroColors = []color.Color{
	color.RGBA{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF},
	color.RGBA{R: 0x4E, G: 0xCD, B: 0xC4, A: 0xFF},
	color.RGBA{R: 0xFF, G: 0xE6, B: 0x6D, A: 0xFF},
}

// PNGRenderer draws charts with gonum/plot
type PNGRenderer struct {
	Now func() time.Time
}

// NewPNGRenderer creates a renderer stamping charts with the current time
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{Now: time.Now}
}

func (r *PNGRenderer) footer() string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return "Generated: " + now().Format("2006-01-02 15:04:05")
}

// BarChart draws the grouped average macronutrient bars
func (r *PNGRenderer) BarChart(path string, averages []model.DietMacros) error {
	if len(averages) == 0 {
		return errNoData
	}

	p := plot.New()
	p.Title.Text = "Average Macronutrient Content by Diet Type"
	p.X.Label.Text = "Diet Type\n" + r.footer()
	p.Y.Label.Text = "Amount (grams)"
	p.Legend.Top = true

	width := vg.Points(14)
	for i, col := range model.NumericColumns {
		values := make(plotter.Values, len(averages))
		for j, m := range averages {
			values[j] = m.Values()[i]
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("bar chart: %w", err)
		}
		bars.Color = macroColors[i]
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = width * vg.Length(i-1)
		p.Add(bars)
		p.Legend.Add(col, bars)
	}
	p.NominalX(dietNames(averages)...)

	return p.Save(12*vg.Inch, 7*vg.Inch, path)
}

// macroGrid lays diet types on columns and nutrients on rows
type macroGrid struct {
	averages []model.DietMacros
}

func (g macroGrid) Dims() (c, r int)   { return len(g.averages), len(model.NumericColumns) }
func (g macroGrid) Z(c, r int) float64 { return g.averages[c].Values()[r] }
func (g macroGrid) X(c int) float64    { return float64(c) }
func (g macroGrid) Y(r int) float64    { return float64(r) }

// Heatmap draws nutrients x diet types, annotated with the values
func (r *PNGRenderer) Heatmap(path string, averages []model.DietMacros) error {
	if len(averages) == 0 {
		return errNoData
	}

	grid := macroGrid{averages: averages}
	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	if hm.Max == hm.Min {
		hm.Max = hm.Min + 1
	}

	p := plot.New()
	p.Title.Text = "Heatmap: Macronutrient Content by Diet Type"
	p.X.Label.Text = r.footer()
	p.Add(hm)

	var labels plotter.XYLabels
	cols, rows := grid.Dims()
	for c := 0; c < cols; c++ {
		for row := 0; row < rows; row++ {
			labels.XYs = append(labels.XYs, plotter.XY{X: grid.X(c), Y: grid.Y(row)})
			labels.Labels = append(labels.Labels, fmt.Sprintf("%.1f", grid.Z(c, row)))
		}
	}
	annotations, err := plotter.NewLabels(labels)
	if err != nil {
		return fmt.Errorf("heatmap labels: %w", err)
	}
	p.Add(annotations)

	p.NominalX(dietNames(averages)...)
	p.NominalY(model.NumericColumns...)

	return p.Save(10*vg.Inch, 8*vg.Inch, path)
}

// Scatter draws the top protein recipes by cuisine, one series per diet type
func (r *PNGRenderer) Scatter(path string, top []model.TopProteinEntry) error {
	if len(top) == 0 {
		return errNoData
	}

	var cuisines, diets []string
	cuisineIdx := make(map[string]int)
	byDiet := make(map[string]plotter.XYs)
	for _, e := range top {
		if _, ok := cuisineIdx[e.CuisineType]; !ok {
			cuisineIdx[e.CuisineType] = len(cuisines)
			cuisines = append(cuisines, e.CuisineType)
		}
		if _, ok := byDiet[e.DietType]; !ok {
			diets = append(diets, e.DietType)
		}
		byDiet[e.DietType] = append(byDiet[e.DietType], plotter.XY{
			X: float64(cuisineIdx[e.CuisineType]),
			Y: e.Protein,
		})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d Protein-Rich Recipes by Cuisine and Diet Type", maxRank(top))
	p.X.Label.Text = "Cuisine Type\n" + r.footer()
	p.Y.Label.Text = "Protein (grams)"
	p.Legend.Top = true
	p.Legend.Left = false

	for i, diet := range diets {
		s, err := plotter.NewScatter(byDiet[diet])
		if err != nil {
			return fmt.Errorf("scatter %s: %w", diet, err)
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Radius = vg.Points(5)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(diet, s)
	}
	p.NominalX(cuisines...)

	return p.Save(15*vg.Inch, 9*vg.Inch, path)
}

func dietNames(averages []model.DietMacros) []string {
	names := make([]string, len(averages))
	for i, m := range averages {
		names[i] = m.DietType
	}
	return names
}

// maxRank is the n the top list was cut at
func maxRank(top []model.TopProteinEntry) int {
	n := 0
	for _, e := range top {
		if e.Rank > n {
			n = e.Rank
		}
	}
	return n
}

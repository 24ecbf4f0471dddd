package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"go-diet-pipeline/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *model.AnalysisReport {
	return &model.AnalysisReport{
		RunID: "run-1",
		Dataset: model.DatasetInfo{
			Rows: 3, Columns: 6,
			Header: model.RequiredColumns,
			Head:   [][]string{{"keto", "A", "asian", "30", "5", "20"}},
		},
		Imputation: model.ImputationReport{Columns: []model.ImputedColumn{
			{Column: model.ColProtein, Count: 0, FillValue: 20},
			{Column: model.ColFat, Count: 1, FillValue: 12.5},
		}},
		AverageMacros: []model.DietMacros{
			{DietType: "keto", Protein: 35, Carbs: 2.5, Fat: 15, RecordCount: 2},
			{DietType: "paleo", Protein: 10.456, Carbs: 20, Fat: 5, RecordCount: 1},
		},
		TopProtein:     []model.TopProteinEntry{{DietType: "keto", Rank: 1, RecipeName: "B", Protein: 40}},
		HighestProtein: &model.HighestProtein{DietType: "keto", Protein: 35},
		Cuisines:       []model.CuisineMode{{DietType: "keto", Cuisine: "asian", Count: 2}},
		Warnings:       []string{`diet type "vegan": no values`},
		Exports:        []model.ExportResult{{Type: "csv", Path: "All_Diets_processed.csv", Success: true}},
		Metrics:        model.RunMetrics{TotalRecords: 3, ProcessingTime: 2 * time.Second},
	}
}

func TestPrintText(t *testing.T) {
	var buf bytes.Buffer
	printText(&buf, sampleReport(), "output/run-1")
	out := buf.String()

	assert.Contains(t, out, "Dataset shape: 3 rows x 6 columns")
	assert.Contains(t, out, "Filled 1 missing values in Fat(g) with 12.50")
	assert.NotContains(t, out, "Filled 0 missing values")
	assert.Contains(t, out, "10.46")
	assert.Contains(t, out, "Diet with highest average protein: keto")
	assert.Contains(t, out, "Average protein content: 35.00g")
	assert.Contains(t, out, `diet type "vegan": no values`)
	assert.Contains(t, out, "Saved to output/run-1")
	assert.Contains(t, out, "ANALYSIS COMPLETE! 3 records in 2s")
}

func TestPrintText_NoDiets(t *testing.T) {
	var buf bytes.Buffer
	printText(&buf, &model.AnalysisReport{}, "output/run-2")

	assert.Contains(t, buf.String(), "No diet types found")
	assert.Contains(t, buf.String(), "(none)")
	assert.NotContains(t, buf.String(), "EXPORTS")
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"Diet_type", "Cuisine_type"}, [][]string{{"mediterranean", "greek"}, {"dash", "italian"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Diet_type      Cuisine_type  ", lines[0])
	assert.Equal(t, "-------------  ------------  ", lines[1])
	assert.Equal(t, "mediterranean  greek         ", lines[2])
}

func TestPrintReport_Formats(t *testing.T) {
	defer func(prev string) { outputFormat = prev }(outputFormat)

	outputFormat = "yaml"
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, sampleReport(), "out"))
	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])

	outputFormat = "json"
	buf.Reset()
	require.NoError(t, printReport(&buf, sampleReport(), "out"))
	assert.Contains(t, buf.String(), `"run_id": "run-1"`)

	outputFormat = "xml"
	assert.ErrorContains(t, printReport(&buf, sampleReport(), "out"), "unknown output format")
}

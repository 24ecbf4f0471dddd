package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"go-diet-pipeline/internal/model"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Output file names inside a run directory
const (
	ProcessedCSVFile = "processed_diet_data.csv"
	ReportJSONFile   = "analysis_report.json"
	WorkbookFile     = "diet_analysis.xlsx"
	BarChartFile     = "bar_chart_macros.png"
	HeatmapFile      = "heatmap_macros.png"
	ScatterChartFile = "scatter_protein_recipes.png"
)

// Renderer is the chart sink. It only consumes already computed tables.
type Renderer interface {
	BarChart(path string, averages []model.DietMacros) error
	Heatmap(path string, averages []model.DietMacros) error
	Scatter(path string, top []model.TopProteinEntry) error
}

// ExportManager writes the artifacts of one run into a directory
type ExportManager struct {
	RunID    string
	Dir      string
	Spec     model.Export
	Renderer Renderer
	Results  []model.ExportResult
}

// ExportAll writes every artifact. The first failure aborts and is returned;
// the caller discards the directory in that case.
func (em *ExportManager) ExportAll(table model.EnrichedTable, report *model.AnalysisReport) error {
	noCharts := !em.chartsEnabled(report)
	steps := []struct {
		kind  string
		file  string
		count int
		run   func(path string) error
		skip  bool
	}{
		{"csv", ProcessedCSVFile, len(table.Records), func(p string) error { return exportEnrichedCSV(p, table) }, false},
		{"xlsx", WorkbookFile, len(table.Records), func(p string) error { return exportWorkbook(p, table, report) }, !em.Spec.Workbook},
		{"chart", BarChartFile, len(report.AverageMacros), func(p string) error { return em.Renderer.BarChart(p, report.AverageMacros) }, noCharts},
		{"chart", HeatmapFile, len(report.AverageMacros), func(p string) error { return em.Renderer.Heatmap(p, report.AverageMacros) }, noCharts},
		{"chart", ScatterChartFile, len(report.TopProtein), func(p string) error { return em.Renderer.Scatter(p, report.TopProtein) }, noCharts},
	}

	for _, step := range steps {
		if step.skip {
			continue
		}
		path := filepath.Join(em.Dir, step.file)
		if err := step.run(path); err != nil {
			em.record(step.kind, step.file, 0, err)
			return fmt.Errorf("export %s failed: %w", step.file, err)
		}
		em.record(step.kind, step.file, step.count, nil)
	}

	// the report goes last so it lists every other artifact
	report.Exports = append(report.Exports, em.Results...)
	report.Exports = append(report.Exports, model.ExportResult{
		Type: "json", Path: ReportJSONFile, RecordCount: len(report.Summaries), Success: true, Timestamp: time.Now(),
	})
	if err := exportJSON(filepath.Join(em.Dir, ReportJSONFile), report); err != nil {
		return fmt.Errorf("export %s failed: %w", ReportJSONFile, err)
	}
	return nil
}

func (em *ExportManager) chartsEnabled(report *model.AnalysisReport) bool {
	if !em.Spec.Charts || em.Renderer == nil {
		return false
	}
	if len(report.AverageMacros) == 0 {
		log.Warn().Str("run_id", em.RunID).Msg("no diet types to plot, skipping charts")
		return false
	}
	return true
}

func (em *ExportManager) record(kind, file string, count int, err error) {
	result := model.ExportResult{
		Type:        kind,
		Path:        file,
		RecordCount: count,
		Success:     err == nil,
		Timestamp:   time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
		log.Error().Err(err).Str("file", file).Msg("❌ Export failed")
	} else {
		log.Info().Str("file", file).Int("records", count).Msg("✅ Export successful")
	}
	em.Results = append(em.Results, result)
}

// exportEnrichedCSV writes the processed dataset with the ratio columns appended
func exportEnrichedCSV(path string, table model.EnrichedTable) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(table.Rows()); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return file.Sync()
}

// exportJSON writes v as indented JSON
func exportJSON(path string, v interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// exportWorkbook writes the summary tables and the processed rows as sheets
func exportWorkbook(path string, table model.EnrichedTable, report *model.AnalysisReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return err
	}
	summary := [][]interface{}{{"Diet type", "Recipes", "Avg protein (g)", "Avg carbs (g)", "Avg fat (g)", "Most common cuisine"}}
	for _, s := range report.Summaries {
		summary = append(summary, []interface{}{s.DietType, s.RecordCount,
			model.Round2(s.AvgProtein), model.Round2(s.AvgCarbs), model.Round2(s.AvgFat), s.MostCommonCuisine})
	}
	if err := writeSheet(f, "Summary", summary); err != nil {
		return err
	}

	top := [][]interface{}{{"Diet type", "Rank", "Recipe", "Cuisine", "Protein (g)"}}
	for _, e := range report.TopProtein {
		top = append(top, []interface{}{e.DietType, e.Rank, e.RecipeName, e.CuisineType, e.Protein})
	}
	if err := writeSheet(f, "Top protein", top); err != nil {
		return err
	}

	processed := make([][]interface{}, 0, len(table.Records)+1)
	processed = append(processed, toRow(table.Columns()))
	for _, row := range table.Rows() {
		processed = append(processed, toRow(row))
	}
	if err := writeSheet(f, "Processed", processed); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

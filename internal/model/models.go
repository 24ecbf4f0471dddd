package model

import (
	"math"
	"strconv"
)

// Column names of the recipe dataset
const (
	ColDietType       = "Diet_type"
	ColRecipeName     = "Recipe_name"
	ColCuisineType    = "Cuisine_type"
	ColProtein        = "Protein(g)"
	ColCarbs          = "Carbs(g)"
	ColFat            = "Fat(g)"
	ColProteinToCarbs = "Protein_to_Carbs_ratio"
	ColCarbsToFat     = "Carbs_to_Fat_ratio"
)

// NotAvailable is reported when a group has nothing to compute a value from
const NotAvailable = "N/A"

// NumericColumns are the macronutrient columns, in report order
var NumericColumns = []string{ColProtein, ColCarbs, ColFat}

// RequiredColumns must be present in every input header
var RequiredColumns = []string{ColDietType, ColRecipeName, ColCuisineType, ColProtein, ColCarbs, ColFat}

// RawRecord is one decoded input row. Missing numeric cells are nil.
type RawRecord struct {
	Line        int      `json:"line"` // 1-based data row, header excluded
	DietType    string   `json:"diet_type"`
	RecipeName  string   `json:"recipe_name"`
	CuisineType string   `json:"cuisine_type"`
	Protein     *float64 `json:"protein_g"`
	Carbs       *float64 `json:"carbs_g"`
	Fat         *float64 `json:"fat_g"`
	Cells       []string `json:"-"` // original cells, aligned with Dataset.Header
}

// Dataset is the decoded input table
type Dataset struct {
	Source  string      `json:"source"`
	Header  []string    `json:"header"`
	Records []RawRecord `json:"records"`
}

// Shape returns rows x columns like the dataset info report prints it
func (d Dataset) Shape() (int, int) {
	return len(d.Records), len(d.Header)
}

// Head returns the first n rows as raw cells
func (d Dataset) Head(n int) [][]string {
	if n > len(d.Records) {
		n = len(d.Records)
	}
	rows := make([][]string, 0, n)
	for _, rec := range d.Records[:n] {
		rows = append(rows, rec.Cells)
	}
	return rows
}

// RecipeRecord is a record after imputation, carrying the derived ratios
type RecipeRecord struct {
	Line           int      `json:"line"`
	DietType       string   `json:"diet_type"`
	RecipeName     string   `json:"recipe_name"`
	CuisineType    string   `json:"cuisine_type"`
	Protein        float64  `json:"protein_g"`
	Carbs          float64  `json:"carbs_g"`
	Fat            float64  `json:"fat_g"`
	ProteinToCarbs float64  `json:"protein_to_carbs_ratio"`
	CarbsToFat     float64  `json:"carbs_to_fat_ratio"`
	Cells          []string `json:"-"`
}

// EnrichedTable is the full record set with ratio columns appended
type EnrichedTable struct {
	Header  []string       `json:"header"`
	Records []RecipeRecord `json:"records"`
}

// Columns returns the input header followed by the ratio columns it does not
// already carry
func (t EnrichedTable) Columns() []string {
	cols := make([]string, 0, len(t.Header)+2)
	cols = append(cols, t.Header...)
	for _, col := range []string{ColProteinToCarbs, ColCarbsToFat} {
		if !containsColumn(t.Header, col) {
			cols = append(cols, col)
		}
	}
	return cols
}

// Rows renders every record as CSV cells, aligned with Columns. Imputed macro
// values replace the original (empty) cells and recomputed ratios replace any
// ratio cells of the input. Unknown columns pass through untouched. A
// duplicated column name maps to its first occurrence.
func (t EnrichedTable) Rows() [][]string {
	cols := t.Columns()
	index := make(map[string]int, len(cols))
	for i, h := range cols {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	rows := make([][]string, 0, len(t.Records))
	for _, rec := range t.Records {
		row := make([]string, len(cols))
		copy(row, rec.Cells)
		set := func(col, val string) {
			if i, ok := index[col]; ok {
				row[i] = val
			}
		}
		set(ColDietType, rec.DietType)
		set(ColRecipeName, rec.RecipeName)
		set(ColCuisineType, rec.CuisineType)
		set(ColProtein, FormatFloat(rec.Protein))
		set(ColCarbs, FormatFloat(rec.Carbs))
		set(ColFat, FormatFloat(rec.Fat))
		set(ColProteinToCarbs, FormatFloat(rec.ProteinToCarbs))
		set(ColCarbsToFat, FormatFloat(rec.CarbsToFat))
		rows = append(rows, row)
	}
	return rows
}

func containsColumn(header []string, col string) bool {
	for _, h := range header {
		if h == col {
			return true
		}
	}
	return false
}

// FormatFloat renders a value with the shortest exact representation
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Round2 rounds for display; stored values keep full precision
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

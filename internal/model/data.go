package model

import "time"

// DietMacros holds the mean macronutrients of one diet type
type DietMacros struct {
	DietType    string  `json:"diet_type" yaml:"diet_type"`
	Protein     float64 `json:"protein_g" yaml:"protein_g"`
	Carbs       float64 `json:"carbs_g" yaml:"carbs_g"`
	Fat         float64 `json:"fat_g" yaml:"fat_g"`
	RecordCount int     `json:"record_count" yaml:"record_count"`
}

// Values returns protein, carbs, fat in NumericColumns order
func (m DietMacros) Values() []float64 {
	return []float64{m.Protein, m.Carbs, m.Fat}
}

// DietSummary is one summary row per distinct diet type
type DietSummary struct {
	DietType          string  `json:"diet_type" yaml:"diet_type"`
	AvgProtein        float64 `json:"avg_protein_g" yaml:"avg_protein_g"`
	AvgCarbs          float64 `json:"avg_carbs_g" yaml:"avg_carbs_g"`
	AvgFat            float64 `json:"avg_fat_g" yaml:"avg_fat_g"`
	MostCommonCuisine string  `json:"most_common_cuisine" yaml:"most_common_cuisine"`
	RecordCount       int     `json:"record_count" yaml:"record_count"`
}

// TopProteinEntry is one of the top-N protein recipes of a diet type
type TopProteinEntry struct {
	DietType    string  `json:"diet_type" yaml:"diet_type"`
	Rank        int     `json:"rank" yaml:"rank"`
	RecipeName  string  `json:"recipe_name" yaml:"recipe_name"`
	CuisineType string  `json:"cuisine_type" yaml:"cuisine_type"`
	Protein     float64 `json:"protein_g" yaml:"protein_g"`
}

// CuisineMode is the most common cuisine of a diet type
type CuisineMode struct {
	DietType string `json:"diet_type" yaml:"diet_type"`
	Cuisine  string `json:"cuisine" yaml:"cuisine"`
	Count    int    `json:"count" yaml:"count"`
}

// ImputedColumn reports how many cells of a column were filled, and with what
type ImputedColumn struct {
	Column    string  `json:"column" yaml:"column"`
	Count     int     `json:"count" yaml:"count"`
	FillValue float64 `json:"fill_value" yaml:"fill_value"`
}

// ImputationReport is returned by the load step
type ImputationReport struct {
	Columns []ImputedColumn `json:"columns" yaml:"columns"`
}

// Total returns the number of imputed cells across all columns
func (r ImputationReport) Total() int {
	total := 0
	for _, c := range r.Columns {
		total += c.Count
	}
	return total
}

// Count returns the imputed cell count of a column
func (r ImputationReport) Count(column string) int {
	for _, c := range r.Columns {
		if c.Column == column {
			return c.Count
		}
	}
	return 0
}

// HighestProtein is the diet type with the highest average protein
type HighestProtein struct {
	DietType string  `json:"diet_type" yaml:"diet_type"`
	Protein  float64 `json:"protein_g" yaml:"protein_g"`
}

// DatasetInfo describes the loaded input
type DatasetInfo struct {
	Source  string     `json:"source" yaml:"source"`
	Rows    int        `json:"rows" yaml:"rows"`
	Columns int        `json:"columns" yaml:"columns"`
	Header  []string   `json:"header" yaml:"header"`
	Head    [][]string `json:"head" yaml:"head"`
}

// AnalysisReport is everything an analysis run produced
type AnalysisReport struct {
	RunID          string            `json:"run_id" yaml:"run_id"`
	Dataset        DatasetInfo       `json:"dataset" yaml:"dataset"`
	Imputation     ImputationReport  `json:"imputation" yaml:"imputation"`
	AverageMacros  []DietMacros      `json:"average_macros" yaml:"average_macros"`
	TopProtein     []TopProteinEntry `json:"top_protein" yaml:"top_protein"`
	HighestProtein *HighestProtein   `json:"highest_protein,omitempty" yaml:"highest_protein,omitempty"`
	Cuisines       []CuisineMode     `json:"cuisines" yaml:"cuisines"`
	Summaries      []DietSummary     `json:"summaries" yaml:"summaries"`
	Warnings       []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Exports        []ExportResult    `json:"exports" yaml:"exports"`
	Metrics        RunMetrics        `json:"metrics" yaml:"metrics"`
}

// ExportResult represents the result of an export operation
type ExportResult struct {
	Type        string    `json:"type" yaml:"type"` // "csv", "json", "xlsx", "chart"
	Path        string    `json:"path" yaml:"path"`
	RecordCount int       `json:"record_count" yaml:"record_count"`
	Success     bool      `json:"success" yaml:"success"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// MacroTotals is the per-diet entry of the serverless summary document
type MacroTotals struct {
	Protein float64 `json:"protein_g"`
	Carbs   float64 `json:"carbs_g"`
	Fat     float64 `json:"fat_g"`
}

// ProcessingMetadata describes the blob the serverless job consumed
type ProcessingMetadata struct {
	DownloadTimeSeconds float64 `json:"download_time_seconds"`
	BlobSizeBytes       int     `json:"blob_size_bytes"`
	RowsProcessed       int     `json:"rows_processed"`
}

// ServerlessSummary is the JSON document the serverless job persists
type ServerlessSummary struct {
	FunctionExecutionTime string                 `json:"function_execution_time"`
	DataSource            string                 `json:"data_source"`
	TotalRecipes          int                    `json:"total_recipes"`
	TotalDietTypes        int                    `json:"total_diet_types"`
	DietTypes             []string               `json:"diet_types"`
	AverageMacronutrients map[string]MacroTotals `json:"average_macronutrients"`
	ProcessingMetadata    ProcessingMetadata     `json:"processing_metadata"`
}

package model

// Source types accepted by the ingestion stage
const (
	SourceFile = "csv"  // local path or http(s) URL
	SourceBlob = "blob" // key in the object store
)

// ValidationRules defines validation requirements for the input
type ValidationRules struct {
	RequiredFields []string           `json:"requiredFields"` // columns that must be present
	NotEmpty       []string           `json:"notEmpty"`       // columns whose cells must be non-empty
	NumericFields  []string           `json:"numericFields"`  // columns that must parse as numbers when present
	MinValues      map[string]float64 `json:"minValues"`      // min allowed numeric values
	MaxValues      map[string]float64 `json:"maxValues"`      // optional max limits
}

// DefaultDietRules are the rules every diet dataset is checked against
func DefaultDietRules() ValidationRules {
	return ValidationRules{
		RequiredFields: RequiredColumns,
		NotEmpty:       []string{ColDietType, ColRecipeName},
		NumericFields:  NumericColumns,
		MinValues: map[string]float64{
			ColProtein: 0,
			ColCarbs:   0,
			ColFat:     0,
		},
	}
}

// Source represents the dataset input of a run
type Source struct {
	Type string `json:"type"` // csv, blob
	URL  string `json:"url"`  // file path, http URL or blob key
}

// Export defines export targets
type Export struct {
	Charts   bool `json:"charts"`   // render PNG charts
	Workbook bool `json:"workbook"` // write an xlsx workbook next to the CSV
}

// JobSpec is the struct for POST /api/v1/analyses
type JobSpec struct {
	Source          Source   `json:"source"`
	Transformations []string `json:"transformations"` // applied to raw records before load
	TopN            int      `json:"topN"`
	Export          Export   `json:"export"`
	JobTimeout      string   `json:"jobTimeout"` // e.g., "5m"
}

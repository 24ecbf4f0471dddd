package pipeline

import (
	"go-diet-pipeline/internal/model"
	"sort"

	"github.com/rs/zerolog/log"
)

// DefaultTopN is the number of top protein recipes kept per diet type
const DefaultTopN = 5

// dietGroups is an ordered grouping: diet types in first-seen order, each
// with the indices of its records in input order.
type dietGroups struct {
	order   []string
	members map[string][]int
}

func groupByDiet(records []model.RecipeRecord) dietGroups {
	g := dietGroups{members: make(map[string][]int)}
	for i, rec := range records {
		if _, seen := g.members[rec.DietType]; !seen {
			g.order = append(g.order, rec.DietType)
		}
		g.members[rec.DietType] = append(g.members[rec.DietType], i)
	}
	return g
}

// DietAggregator owns the working record set of one run. Load is the only
// mutating step; every other operation reads the loaded records.
type DietAggregator struct {
	rules    model.ValidationRules
	header   []string
	records  []model.RecipeRecord
	groups   dietGroups
	warnings []error
}

// NewDietAggregator creates an aggregator that validates with the default diet rules
func NewDietAggregator() *DietAggregator {
	return &DietAggregator{rules: model.DefaultDietRules()}
}

// Load validates the records, imputes missing macronutrients with the column
// mean over the whole input and computes the ratio columns. The dataset is
// copied; the caller's records are never modified.
func (a *DietAggregator) Load(ds model.Dataset) (model.ImputationReport, error) {
	var report model.ImputationReport

	if err := ValidateHeader(ds.Header, a.rules); err != nil {
		return report, err
	}
	if err := ValidateRecords(ds.Records, a.rules); err != nil {
		return report, err
	}

	fills := make(map[string]float64, len(model.NumericColumns))
	for _, col := range model.NumericColumns {
		sum, n, missing := 0.0, 0, 0
		for _, rec := range ds.Records {
			if v := numericField(rec, col); v != nil {
				sum += *v
				n++
			} else {
				missing++
			}
		}
		if missing > 0 && n == 0 {
			return report, &SchemaError{Column: col, Reason: "no values to impute missing cells from"}
		}
		fill := 0.0
		if n > 0 {
			fill = sum / float64(n)
		}
		fills[col] = fill
		report.Columns = append(report.Columns, model.ImputedColumn{Column: col, Count: missing, FillValue: fill})
		if missing > 0 {
			log.Info().Str("column", col).Int("filled", missing).Float64("mean", fill).Msg("Filled missing values")
		}
	}

	valueOr := func(v *float64, col string) float64 {
		if v == nil {
			return fills[col]
		}
		return *v
	}

	records := make([]model.RecipeRecord, 0, len(ds.Records))
	for _, raw := range ds.Records {
		cells := make([]string, len(raw.Cells))
		copy(cells, raw.Cells)
		records = append(records, model.RecipeRecord{
			Line:        raw.Line,
			DietType:    raw.DietType,
			RecipeName:  raw.RecipeName,
			CuisineType: raw.CuisineType,
			Protein:     valueOr(raw.Protein, model.ColProtein),
			Carbs:       valueOr(raw.Carbs, model.ColCarbs),
			Fat:         valueOr(raw.Fat, model.ColFat),
			Cells:       cells,
		})
	}

	a.header = append([]string(nil), ds.Header...)
	a.records = records
	a.groups = groupByDiet(records)
	a.warnings = nil
	a.ComputeRatios()

	return report, nil
}

// Len returns the number of loaded records
func (a *DietAggregator) Len() int {
	return len(a.records)
}

// DietTypes returns the distinct diet types in first-seen order
func (a *DietAggregator) DietTypes() []string {
	return append([]string(nil), a.groups.order...)
}

// AverageMacros returns the mean protein, carbs and fat of every diet type,
// in first-seen order. Values keep full precision.
func (a *DietAggregator) AverageMacros() []model.DietMacros {
	out := make([]model.DietMacros, 0, len(a.groups.order))
	for _, diet := range a.groups.order {
		idx := a.groups.members[diet]
		m := model.DietMacros{DietType: diet, RecordCount: len(idx)}
		for _, i := range idx {
			m.Protein += a.records[i].Protein
			m.Carbs += a.records[i].Carbs
			m.Fat += a.records[i].Fat
		}
		n := float64(len(idx))
		m.Protein /= n
		m.Carbs /= n
		m.Fat /= n
		out = append(out, m)
	}
	return out
}

// averageFor returns the averages of a single diet type
func (a *DietAggregator) averageFor(diet string) (model.DietMacros, bool) {
	for _, m := range a.AverageMacros() {
		if m.DietType == diet {
			return m, true
		}
	}
	return model.DietMacros{}, false
}

// TopProteinPerDiet returns up to n records per diet type ranked by protein,
// descending. Equal protein keeps input order. n <= 0 means DefaultTopN.
func (a *DietAggregator) TopProteinPerDiet(n int) []model.TopProteinEntry {
	if n <= 0 {
		n = DefaultTopN
	}
	var out []model.TopProteinEntry
	for _, diet := range a.groups.order {
		idx := append([]int(nil), a.groups.members[diet]...)
		sort.SliceStable(idx, func(x, y int) bool {
			return a.records[idx[x]].Protein > a.records[idx[y]].Protein
		})
		if len(idx) > n {
			idx = idx[:n]
		}
		for rank, i := range idx {
			rec := a.records[i]
			out = append(out, model.TopProteinEntry{
				DietType:    diet,
				Rank:        rank + 1,
				RecipeName:  rec.RecipeName,
				CuisineType: rec.CuisineType,
				Protein:     rec.Protein,
			})
		}
	}
	return out
}

// DietWithHighestAvgProtein returns the diet type with the maximal average
// protein. On an exact tie the first diet type in AverageMacros order wins.
func (a *DietAggregator) DietWithHighestAvgProtein() (string, float64, bool) {
	var (
		best  string
		value float64
		found bool
	)
	for _, m := range a.AverageMacros() {
		if !found || m.Protein > value {
			best, value, found = m.DietType, m.Protein, true
		}
	}
	return best, value, found
}

// MostCommonCuisinePerDiet returns the cuisine mode of every diet type. Ties go
// to the cuisine encountered first; a group without cuisines yields N/A.
func (a *DietAggregator) MostCommonCuisinePerDiet() []model.CuisineMode {
	out := make([]model.CuisineMode, 0, len(a.groups.order))
	for _, diet := range a.groups.order {
		counts := make(map[string]int)
		var seen []string
		for _, i := range a.groups.members[diet] {
			c := a.records[i].CuisineType
			if c == "" {
				continue
			}
			if counts[c] == 0 {
				seen = append(seen, c)
			}
			counts[c]++
		}

		mode := model.CuisineMode{DietType: diet, Cuisine: model.NotAvailable}
		for _, c := range seen {
			if counts[c] > mode.Count {
				mode.Cuisine, mode.Count = c, counts[c]
			}
		}
		if mode.Count == 0 {
			a.warn(&EmptyGroupWarning{DietType: diet, Operation: "most common cuisine"})
		}
		out = append(out, mode)
	}
	return out
}

// ComputeRatios derives protein/carbs and carbs/fat for every record. A zero
// denominator is replaced by 1, so the ratio equals the numerator.
func (a *DietAggregator) ComputeRatios() {
	for i := range a.records {
		rec := &a.records[i]
		rec.ProteinToCarbs = rec.Protein / nonZero(rec.Carbs)
		rec.CarbsToFat = rec.Carbs / nonZero(rec.Fat)
	}
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Summaries joins averages and cuisine modes into one row per diet type
func (a *DietAggregator) Summaries() []model.DietSummary {
	modes := a.MostCommonCuisinePerDiet()
	avgs := a.AverageMacros()
	out := make([]model.DietSummary, 0, len(avgs))
	for i, m := range avgs {
		out = append(out, model.DietSummary{
			DietType:          m.DietType,
			AvgProtein:        m.Protein,
			AvgCarbs:          m.Carbs,
			AvgFat:            m.Fat,
			MostCommonCuisine: modes[i].Cuisine,
			RecordCount:       m.RecordCount,
		})
	}
	return out
}

// ExportEnrichedTable returns every record with its ratio columns, in input order
func (a *DietAggregator) ExportEnrichedTable() model.EnrichedTable {
	records := make([]model.RecipeRecord, len(a.records))
	copy(records, a.records)
	return model.EnrichedTable{
		Header:  append([]string(nil), a.header...),
		Records: records,
	}
}

// Warnings returns the recoverable problems seen so far
func (a *DietAggregator) Warnings() []error {
	return append([]error(nil), a.warnings...)
}

func (a *DietAggregator) warn(w *EmptyGroupWarning) {
	log.Warn().Err(w).Str("diet_type", w.DietType).Msg("empty group")
	for _, existing := range a.warnings {
		if e, ok := existing.(*EmptyGroupWarning); ok && *e == *w {
			return
		}
	}
	a.warnings = append(a.warnings, w)
}

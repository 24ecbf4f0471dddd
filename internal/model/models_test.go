package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatasetShapeAndHead(t *testing.T) {
	ds := Dataset{
		Header: RequiredColumns,
		Records: []RawRecord{
			{Cells: []string{"keto", "A", "asian", "30", "5", "20"}},
			{Cells: []string{"paleo", "B", "mexican", "10", "", "5"}},
		},
	}

	rows, cols := ds.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 6, cols)
	assert.Len(t, ds.Head(1), 1)
	assert.Len(t, ds.Head(10), 2)
	assert.Empty(t, Dataset{}.Head(5))
}

func TestEnrichedTableRows(t *testing.T) {
	table := EnrichedTable{
		Header: []string{ColDietType, ColRecipeName, ColCuisineType, ColProtein, ColCarbs, ColFat, "Extraction_day"},
		Records: []RecipeRecord{{
			DietType: "paleo", RecipeName: "B", CuisineType: "mexican",
			Protein: 10, Carbs: 12.5, Fat: 5, ProteinToCarbs: 0.8, CarbsToFat: 2.5,
			Cells: []string{"paleo", "B", "mexican", "10", "", "5", "2022-10-17"},
		}},
	}

	assert.Equal(t, append(append([]string{}, table.Header...), ColProteinToCarbs, ColCarbsToFat), table.Columns())
	assert.Equal(t, [][]string{{"paleo", "B", "mexican", "10", "12.5", "5", "2022-10-17", "0.8", "2.5"}}, table.Rows())
	// the source cells are untouched
	assert.Equal(t, "", table.Records[0].Cells[4])
}

func TestImputationReport(t *testing.T) {
	r := ImputationReport{Columns: []ImputedColumn{
		{Column: ColProtein, Count: 2, FillValue: 20},
		{Column: ColFat, Count: 1, FillValue: 7},
	}}

	assert.Equal(t, 3, r.Total())
	assert.Equal(t, 2, r.Count(ColProtein))
	assert.Equal(t, 0, r.Count(ColCarbs))
	assert.Equal(t, 0, ImputationReport{}.Total())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.46, Round2(10.456))
	assert.Equal(t, 3.0, Round2(3))
	assert.Equal(t, "0.25", FormatFloat(0.25))
	assert.Equal(t, "40", FormatFloat(40))
}

func TestEnrichedTable_RatioColumnsAlreadyPresent(t *testing.T) {
	table := EnrichedTable{
		Header: []string{ColDietType, ColRecipeName, ColCuisineType, ColProtein, ColCarbs, ColFat, ColProteinToCarbs, ColCarbsToFat},
		Records: []RecipeRecord{{
			DietType: "keto", RecipeName: "A", CuisineType: "asian",
			Protein: 30, Carbs: 5, Fat: 20, ProteinToCarbs: 6, CarbsToFat: 0.25,
			Cells: []string{"keto", "A", "asian", "30", "5", "20", "1", "1"},
		}},
	}

	assert.Equal(t, table.Header, table.Columns())
	assert.Equal(t, [][]string{{"keto", "A", "asian", "30", "5", "20", "6", "0.25"}}, table.Rows())
}

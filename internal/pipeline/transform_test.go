package pipeline

import (
	"testing"

	"go-diet-pipeline/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTransformations(t *testing.T) {
	in := []model.RawRecord{
		{DietType: "  Keto ", RecipeName: " Salmon   with  dill ", CuisineType: "Nordic  "},
	}

	tests := []struct {
		name   string
		names  []string
		expect model.RawRecord
	}{
		{
			name:   "trim",
			names:  []string{"trimStrings"},
			expect: model.RawRecord{DietType: "Keto", RecipeName: "Salmon   with  dill", CuisineType: "Nordic"},
		},
		{
			name:   "trim and lowercase",
			names:  []string{"trimStrings", "convertToLowercase"},
			expect: model.RawRecord{DietType: "keto", RecipeName: "Salmon   with  dill", CuisineType: "nordic"},
		},
		{
			name:   "collapse and uppercase",
			names:  []string{"collapseSpaces", "convertToUppercase"},
			expect: model.RawRecord{DietType: "KETO", RecipeName: "Salmon with dill", CuisineType: "NORDIC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ApplyTransformations(in, tt.names)
			require.NoError(t, err)
			require.Len(t, out, 1)
			assert.Equal(t, tt.expect, out[0])
		})
	}

	// the input is never modified
	assert.Equal(t, "  Keto ", in[0].DietType)
}

func TestApplyTransformations_Unknown(t *testing.T) {
	_, err := ApplyTransformations([]model.RawRecord{{DietType: "keto"}}, []string{"trimStrings", "shout"})
	assert.EqualError(t, err, "unknown transformation: shout")
}

func TestValidateRecords_MaxValues(t *testing.T) {
	rules := model.DefaultDietRules()
	rules.MaxValues = map[string]float64{model.ColProtein: 100}
	protein := 250.0

	err := ValidateRecords([]model.RawRecord{{Line: 3, DietType: "keto", RecipeName: "A", Protein: &protein}}, rules)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, 3, schemaErr.Row)
	assert.Contains(t, schemaErr.Error(), "above maximum")
}

func TestSchemaErrorMessage(t *testing.T) {
	assert.Equal(t, `schema error: column "Fat(g)": required column missing`,
		(&SchemaError{Column: "Fat(g)", Reason: "required column missing"}).Error())
	assert.Equal(t, `schema error: row 4, column "Diet_type": value must not be empty`,
		(&SchemaError{Column: "Diet_type", Row: 4, Reason: "value must not be empty"}).Error())
	assert.False(t, IsFatal(nil))
}

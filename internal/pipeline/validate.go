package pipeline

import (
	"fmt"
	"go-diet-pipeline/internal/model"
	"strings"
)

// ValidateHeader checks that every required column is present.
func ValidateHeader(header []string, rules model.ValidationRules) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, field := range rules.RequiredFields {
		if !present[field] {
			return &SchemaError{Column: field, Reason: "required column missing"}
		}
	}
	return nil
}

// ValidateRecords validates every record, stopping at the first failure.
func ValidateRecords(records []model.RawRecord, rules model.ValidationRules) error {
	for _, rec := range records {
		if err := validateRecord(rec, rules); err != nil {
			return err
		}
	}
	return nil
}

// validateRecord applies the validation rules to a record.
func validateRecord(rec model.RawRecord, rules model.ValidationRules) error {
	// Check non-empty fields
	for _, field := range rules.NotEmpty {
		if strings.TrimSpace(textField(rec, field)) == "" {
			return &SchemaError{Column: field, Row: rec.Line, Reason: "value must not be empty"}
		}
	}

	// Check min/max values, in column order so the reported error is stable
	for _, field := range rules.NumericFields {
		val := numericField(rec, field)
		if val == nil {
			continue
		}
		if min, ok := rules.MinValues[field]; ok && *val < min {
			return &SchemaError{Column: field, Row: rec.Line,
				Reason: fmt.Sprintf("below minimum: got %v, want ≥ %v", *val, min)}
		}
		if max, ok := rules.MaxValues[field]; ok && *val > max {
			return &SchemaError{Column: field, Row: rec.Line,
				Reason: fmt.Sprintf("above maximum: got %v, want ≤ %v", *val, max)}
		}
	}

	return nil
}

func textField(rec model.RawRecord, field string) string {
	switch field {
	case model.ColDietType:
		return rec.DietType
	case model.ColRecipeName:
		return rec.RecipeName
	case model.ColCuisineType:
		return rec.CuisineType
	}
	return ""
}

func numericField(rec model.RawRecord, field string) *float64 {
	switch field {
	case model.ColProtein:
		return rec.Protein
	case model.ColCarbs:
		return rec.Carbs
	case model.ColFat:
		return rec.Fat
	}
	return nil
}

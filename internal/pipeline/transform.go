package pipeline

import (
	"fmt"
	"go-diet-pipeline/internal/model"
	"strings"
)

// DefaultTransformations are applied when a job names none
var DefaultTransformations = []string{"trimStrings"}

// ApplyTransformations applies all specified transformations to every record,
// returning new records. The input slice is left untouched.
func ApplyTransformations(records []model.RawRecord, transformations []string) ([]model.RawRecord, error) {
	out := make([]model.RawRecord, len(records))
	copy(out, records)

	for _, transform := range transformations {
		var fn func(model.RawRecord) model.RawRecord
		switch transform {
		case "trimStrings":
			fn = trimStrings
		case "convertToLowercase":
			fn = convertToLowercase
		case "convertToUppercase":
			fn = convertToUppercase
		case "collapseSpaces":
			fn = collapseSpaces
		default:
			return nil, fmt.Errorf("unknown transformation: %s", transform)
		}
		for i := range out {
			out[i] = fn(out[i])
		}
	}

	return out, nil
}

// trimStrings trims whitespace from all text fields
func trimStrings(rec model.RawRecord) model.RawRecord {
	rec.DietType = strings.TrimSpace(rec.DietType)
	rec.RecipeName = strings.TrimSpace(rec.RecipeName)
	rec.CuisineType = strings.TrimSpace(rec.CuisineType)
	return rec
}

// convertToLowercase lowercases the grouping labels; recipe names keep their case
func convertToLowercase(rec model.RawRecord) model.RawRecord {
	rec.DietType = strings.ToLower(rec.DietType)
	rec.CuisineType = strings.ToLower(rec.CuisineType)
	return rec
}

// convertToUppercase uppercases the grouping labels
func convertToUppercase(rec model.RawRecord) model.RawRecord {
	rec.DietType = strings.ToUpper(rec.DietType)
	rec.CuisineType = strings.ToUpper(rec.CuisineType)
	return rec
}

// collapseSpaces folds runs of whitespace inside text fields into one space
func collapseSpaces(rec model.RawRecord) model.RawRecord {
	rec.DietType = strings.Join(strings.Fields(rec.DietType), " ")
	rec.RecipeName = strings.Join(strings.Fields(rec.RecipeName), " ")
	rec.CuisineType = strings.Join(strings.Fields(rec.CuisineType), " ")
	return rec
}

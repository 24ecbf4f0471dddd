package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go-diet-pipeline/internal/model"

	"gopkg.in/yaml.v3"
)

// topProteinListing is how many top protein rows the text report shows
const topProteinListing = 15

var banner = strings.Repeat("=", 70)

// printReport writes the report in the selected output format
func printReport(w io.Writer, report *model.AnalysisReport, dir string) error {
	switch outputFormat {
	case "json":
		return printJSON(w, report)
	case "yaml":
		return printYAML(w, report)
	case "text", "":
		printText(w, report, dir)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", outputFormat)
	}
}

// printJSON outputs data as formatted JSON
func printJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	return nil
}

// printYAML outputs data as YAML
func printYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("error encoding YAML: %w", err)
	}
	return encoder.Close()
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", banner, title, banner)
}

func printText(w io.Writer, r *model.AnalysisReport, dir string) {
	section(w, "DATASET INFORMATION")
	fmt.Fprintf(w, "\nDataset shape: %d rows x %d columns\n", r.Dataset.Rows, r.Dataset.Columns)
	fmt.Fprintf(w, "\nFirst few rows:\n")
	printTable(w, r.Dataset.Header, r.Dataset.Head)
	for _, c := range r.Imputation.Columns {
		if c.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "Filled %d missing values in %s with %.2f\n", c.Count, c.Column, c.FillValue)
	}

	section(w, "Average Macronutrients by Diet Type")
	rows := make([][]string, 0, len(r.AverageMacros))
	for _, m := range r.AverageMacros {
		rows = append(rows, []string{m.DietType, round(m.Protein), round(m.Carbs), round(m.Fat)})
	}
	printTable(w, append([]string{model.ColDietType}, model.NumericColumns...), rows)

	section(w, "Top Protein-Rich Recipes by Diet Type")
	rows = rows[:0]
	for i, e := range r.TopProtein {
		if i == topProteinListing {
			break
		}
		rows = append(rows, []string{e.DietType, e.RecipeName, round(e.Protein)})
	}
	printTable(w, []string{model.ColDietType, model.ColRecipeName, model.ColProtein}, rows)

	section(w, "Diet Type with Highest Average Protein")
	if r.HighestProtein != nil {
		fmt.Fprintf(w, "Diet with highest average protein: %s\n", r.HighestProtein.DietType)
		fmt.Fprintf(w, "Average protein content: %.2fg\n", r.HighestProtein.Protein)
	} else {
		fmt.Fprintln(w, "No diet types found")
	}

	section(w, "Most Common Cuisines by Diet Type")
	rows = rows[:0]
	for _, c := range r.Cuisines {
		rows = append(rows, []string{c.DietType, c.Cuisine})
	}
	printTable(w, []string{model.ColDietType, model.ColCuisineType}, rows)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "⚠️  %s\n", warning)
		}
	}

	if len(r.Exports) > 0 {
		section(w, "EXPORTS")
		for _, e := range r.Exports {
			fmt.Fprintf(w, "✅ %s (%s)\n", e.Path, e.Type)
		}
		fmt.Fprintf(w, "\nSaved to %s\n", dir)
	}

	fmt.Fprintf(w, "\n%s\nANALYSIS COMPLETE! %d records in %v\n%s\n",
		banner, r.Metrics.TotalRecords, r.Metrics.ProcessingTime, banner)
}

func round(v float64) string {
	return fmt.Sprintf("%.2f", model.Round2(v))
}

// printTable outputs data in a human-readable table format
func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}

	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, header := range headers {
		fmt.Fprintf(w, "%-*s  ", widths[i], header)
	}
	fmt.Fprintln(w)
	for i := range headers {
		fmt.Fprint(w, strings.Repeat("-", widths[i]), "  ")
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(w, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w)
	}
}

package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"go-diet-pipeline/internal/model"
	"go-diet-pipeline/pkg/utils"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// BlobGetter is the slice of the object store ingestion needs
type BlobGetter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// ------------------- Ingestion -------------------

// OpenSource opens the dataset of a run. Local paths and http(s) URLs are read
// directly; blob sources go through the object store.
func OpenSource(ctx context.Context, source model.Source, blobs BlobGetter) (io.ReadCloser, error) {
	switch strings.ToLower(source.Type) {
	case model.SourceFile, "":
		if strings.HasPrefix(source.URL, "http://") || strings.HasPrefix(source.URL, "https://") {
			return openHTTP(ctx, source.URL)
		}
		file, err := os.Open(source.URL)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrMissingInput, source.URL)
			}
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		return file, nil
	case model.SourceBlob:
		if blobs == nil {
			return nil, fmt.Errorf("blob source %q requested but no object store is configured", source.URL)
		}
		data, err := blobs.Get(ctx, source.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: blob %s: %v", ErrMissingInput, source.URL, err)
		}
		return io.NopCloser(strings.NewReader(string(data))), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

func openHTTP(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to GET CSV: %v", ErrMissingInput, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s returned %d", ErrMissingInput, url, resp.StatusCode)
	}
	return resp.Body, nil
}

// ReadDataset decodes a CSV stream into raw records. Numeric cells are parsed
// here; empty or NA cells stay nil for the load step to impute.
func ReadDataset(ctx context.Context, r io.Reader, source string) (model.Dataset, error) {
	ds := model.Dataset{Source: source}

	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err == io.EOF {
		return ds, &SchemaError{Column: model.ColDietType, Reason: "input has no header row"}
	}
	if err != nil {
		return ds, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for _, h := range headers {
		ds.Header = append(ds.Header, utils.CleanHeader(h))
	}
	if err := ValidateHeader(ds.Header, model.DefaultDietRules()); err != nil {
		return ds, err
	}

	index := make(map[string]int, len(ds.Header))
	for i, h := range ds.Header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return ds, err
		}
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ds, fmt.Errorf("CSV read error: %w", err)
		}
		line++

		cells := make([]string, len(ds.Header))
		copy(cells, row)

		rec := model.RawRecord{
			Line:        line,
			DietType:    strings.TrimSpace(cells[index[model.ColDietType]]),
			RecipeName:  strings.TrimSpace(cells[index[model.ColRecipeName]]),
			CuisineType: strings.TrimSpace(cells[index[model.ColCuisineType]]),
			Cells:       cells,
		}
		for _, col := range model.NumericColumns {
			val, err := utils.ParseNumeric(cells[index[col]])
			if err != nil {
				return ds, &SchemaError{Column: col, Row: line, Reason: err.Error()}
			}
			switch col {
			case model.ColProtein:
				rec.Protein = val
			case model.ColCarbs:
				rec.Carbs = val
			case model.ColFat:
				rec.Fat = val
			}
		}
		ds.Records = append(ds.Records, rec)

		if line%1000 == 0 {
			log.Debug().Int("records", line).Str("source", source).Msg("📄 CSV: records read")
		}
	}

	log.Info().Int("records", len(ds.Records)).Int("columns", len(ds.Header)).Str("source", source).
		Msg("📄 CSV ingestion done")
	return ds, nil
}

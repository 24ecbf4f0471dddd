package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-diet-pipeline/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobs map[string][]byte

func (f fakeBlobs) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := f[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func TestReadDataset(t *testing.T) {
	csv := "\ufeff\"Diet_type\", Recipe_name ,Cuisine_type,Protein(g),Carbs(g),Fat(g)\n" +
		"keto, Salmon ,nordic,35.5,NA,12\n" +
		"vegan,Tofu bowl,asian,,40,n/a\n"

	ds, err := ReadDataset(context.Background(), strings.NewReader(csv), "diets.csv")
	require.NoError(t, err)

	assert.Equal(t, "diets.csv", ds.Source)
	assert.Equal(t, model.RequiredColumns, ds.Header)
	rows, cols := ds.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 6, cols)

	first := ds.Records[0]
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "Salmon", first.RecipeName)
	require.NotNil(t, first.Protein)
	assert.Equal(t, 35.5, *first.Protein)
	assert.Nil(t, first.Carbs)

	second := ds.Records[1]
	assert.Nil(t, second.Protein)
	assert.Nil(t, second.Fat)
	assert.Equal(t, 40.0, *second.Carbs)

	assert.Len(t, ds.Head(5), 2)
	assert.Equal(t, []string{"keto", " Salmon ", "nordic", "35.5", "NA", "12"}, ds.Head(1)[0])
}

func TestReadDataset_ShortRowsArePadded(t *testing.T) {
	ds, err := ReadDataset(context.Background(), strings.NewReader(header+"keto,A,asian,1\n"), "short.csv")
	require.NoError(t, err)

	require.Len(t, ds.Records, 1)
	assert.Len(t, ds.Records[0].Cells, 7)
	assert.Nil(t, ds.Records[0].Carbs)
}

func TestReadDataset_Errors(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		column string
		row    int
	}{
		{"empty input", "", model.ColDietType, 0},
		{"missing column", "Diet_type,Recipe_name,Protein(g),Carbs(g),Fat(g)\n", model.ColCuisineType, 0},
		{"unparsable number", header + "keto,A,asian,1,1,1,x\nketo,B,asian,lots,1,1,x\n", model.ColProtein, 2},
		{"infinite number", header + "keto,A,asian,1,Inf,1,x\n", model.ColCarbs, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDataset(context.Background(), strings.NewReader(tt.csv), "bad.csv")

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.column, schemaErr.Column)
			assert.Equal(t, tt.row, schemaErr.Row)
		})
	}
}

func TestReadDataset_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadDataset(ctx, strings.NewReader(sampleCSV), "x.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenSource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "All_Diets.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	rc, err := OpenSource(context.Background(), model.Source{Type: model.SourceFile, URL: path}, nil)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))
}

func TestOpenSource_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/All_Diets.csv" {
			_, _ = io.WriteString(w, sampleCSV)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	blobs := fakeBlobs{"All_Diets.csv": []byte(sampleCSV)}

	tests := []struct {
		name    string
		source  model.Source
		blobs   BlobGetter
		missing bool
		wantErr bool
	}{
		{"missing file", model.Source{URL: filepath.Join(t.TempDir(), "nope.csv")}, nil, true, true},
		{"http ok", model.Source{URL: server.URL + "/All_Diets.csv"}, nil, false, false},
		{"http not found", model.Source{URL: server.URL + "/other.csv"}, nil, true, true},
		{"blob ok", model.Source{Type: model.SourceBlob, URL: "All_Diets.csv"}, blobs, false, false},
		{"blob missing", model.Source{Type: model.SourceBlob, URL: "other.csv"}, blobs, true, true},
		{"blob without store", model.Source{Type: model.SourceBlob, URL: "All_Diets.csv"}, nil, false, true},
		{"unknown type", model.Source{Type: "ftp", URL: "x"}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := OpenSource(context.Background(), tt.source, tt.blobs)
			if !tt.wantErr {
				require.NoError(t, err)
				data, err := io.ReadAll(rc)
				require.NoError(t, err)
				assert.Equal(t, sampleCSV, string(data))
				require.NoError(t, rc.Close())
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.missing, errors.Is(err, ErrMissingInput))
			assert.True(t, IsFatal(err))
		})
	}
}

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputManager_StagingLifecycle(t *testing.T) {
	om := NewOutputManager(filepath.Join(t.TempDir(), "output"))
	require.NoError(t, om.EnsureOutputDirExists())

	staging, err := om.CreateStagingDir("run-1")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(staging, "report.json"), []byte("{}"), 0644))
	assert.NoDirExists(t, om.JobDir("run-1"))

	final, err := om.Promote("run-1")
	require.NoError(t, err)
	assert.Equal(t, om.JobDir("run-1"), final)
	assert.FileExists(t, filepath.Join(final, "report.json"))
	assert.NoDirExists(t, staging)

	// a second promotion never overwrites published outputs
	_, err = om.CreateStagingDir("run-1")
	require.NoError(t, err)
	_, err = om.Promote("run-1")
	assert.ErrorContains(t, err, "already exists")
}

func TestOutputManager_Discard(t *testing.T) {
	om := NewOutputManager(t.TempDir())

	staging, err := om.CreateStagingDir("run-2")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(staging, "partial.csv"), []byte("x"), 0644))

	require.NoError(t, om.Discard("run-2"))
	entries, err := os.ReadDir(om.BaseOutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, om.Discard("never-started"))
}

func TestOutputManager_CreateStagingDirClearsLeftovers(t *testing.T) {
	om := NewOutputManager(t.TempDir())

	staging, err := om.CreateStagingDir("run-3")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(staging, "stale.png"), []byte("x"), 0644))

	staging, err = om.CreateStagingDir("run-3")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(staging, "stale.png"))
}

func TestGetOutputFilePath(t *testing.T) {
	om := NewOutputManager("/data/output")

	path, err := om.GetOutputFilePath("run-1", "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data/output", "run-1", "passwd"), path)

	for _, id := range []string{"", ".staging-run-1", "..", "a/b", `a\b`} {
		_, err := om.GetOutputFilePath(id, "report.json")
		assert.Error(t, err, id)
	}
	_, err = om.GetOutputFilePath("run-1", "..")
	assert.Error(t, err)
}

func TestFileTypes(t *testing.T) {
	om := NewOutputManager("output")

	tests := []struct {
		name     string
		fileType string
		mime     string
	}{
		{"diets.csv", "csv", "text/csv"},
		{"report.JSON", "json", "application/json"},
		{"diets.xlsx", "excel", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"bar.png", "image", "image/png"},
		{"notes.txt", "unknown", "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.fileType, om.GetFileType(tt.name))
		assert.Equal(t, tt.mime, om.ContentType(tt.name))
	}
	assert.Equal(t, "/api/v1/download/run-1/bar.png", om.GetDownloadURL("run-1", "charts/bar.png"))
}

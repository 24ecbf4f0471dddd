package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const stagingPrefix = ".staging-"

// OutputManager handles output file organization and path management.
// Artifacts of a run are written into a staging directory first and only
// become visible under the job directory once Promote succeeds.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// JobDir returns the final directory of a job's outputs
func (om *OutputManager) JobDir(jobID string) string {
	return filepath.Join(om.BaseOutputDir, jobID)
}

// CreateStagingDir creates the hidden directory a job writes into
func (om *OutputManager) CreateStagingDir(jobID string) (string, error) {
	dir := filepath.Join(om.BaseOutputDir, stagingPrefix+jobID)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to clear staging directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	return dir, nil
}

// Promote moves the staging directory into place as the job directory
func (om *OutputManager) Promote(jobID string) (string, error) {
	staging := filepath.Join(om.BaseOutputDir, stagingPrefix+jobID)
	final := om.JobDir(jobID)
	if _, err := os.Stat(final); err == nil {
		return "", fmt.Errorf("job output directory already exists: %s", final)
	}
	if err := os.Rename(staging, final); err != nil {
		return "", fmt.Errorf("failed to promote job outputs: %w", err)
	}
	return final, nil
}

// Discard removes whatever a failed job staged
func (om *OutputManager) Discard(jobID string) error {
	return os.RemoveAll(filepath.Join(om.BaseOutputDir, stagingPrefix+jobID))
}

// GetOutputFilePath returns the full path of a promoted output file
func (om *OutputManager) GetOutputFilePath(jobID, fileName string) (string, error) {
	if jobID == "" || strings.HasPrefix(jobID, ".") || strings.ContainsAny(jobID, `/\`) {
		return "", errors.New("invalid job ID")
	}

	// Clean the filename to remove any path separators
	cleanFileName := filepath.Base(fileName)
	if cleanFileName == "." || cleanFileName == ".." || cleanFileName == string(filepath.Separator) {
		return "", errors.New("invalid file name")
	}

	return filepath.Join(om.JobDir(jobID), cleanFileName), nil
}

// GetDownloadURL generates a download URL for a file
func (om *OutputManager) GetDownloadURL(jobID, fileName string) string {
	cleanFileName := filepath.Base(fileName)
	return fmt.Sprintf("/api/v1/download/%s/%s", jobID, cleanFileName)
}

// GetFileType determines the file type based on extension
func (om *OutputManager) GetFileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".xlsx", ".xls":
		return "excel"
	case ".png":
		return "image"
	default:
		return "unknown"
	}
}

// ContentType maps GetFileType to a MIME type
func (om *OutputManager) ContentType(fileName string) string {
	switch om.GetFileType(fileName) {
	case "csv":
		return "text/csv"
	case "json":
		return "application/json"
	case "excel":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "image":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// GetFileSize returns the size of a file in bytes
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}

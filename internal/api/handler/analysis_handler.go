package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-diet-pipeline/internal/model"
	"go-diet-pipeline/internal/pipeline"
	"go-diet-pipeline/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const analysesPrefix = "/api/v1/analyses/"

// AnalysisStore is the run history the handlers read and write
type AnalysisStore interface {
	SaveRun(runID string, spec model.JobSpec) error
	ListRuns() ([]model.RunInfo, error)
	GetRun(runID string) (*model.RunInfo, error)
	GetRunErrors(runID string) ([]model.ErrorDetail, error)
	GetDietSummaries(runID string) ([]model.DietSummary, error)
}

// Runner executes one analysis
type Runner interface {
	Run(ctx context.Context, runID string, job model.JobSpec) (*model.AnalysisReport, error)
}

// AnalysisHandler serves the analysis endpoints
type AnalysisHandler struct {
	Store   AnalysisStore
	Runner  Runner
	Outputs *utils.OutputManager

	// OnDone, when set, is called after every background run
	OnDone func(runID string, err error)
}

// NewAnalysisHandler creates the handler
func NewAnalysisHandler(store AnalysisStore, runner Runner, outputs *utils.OutputManager) *AnalysisHandler {
	return &AnalysisHandler{Store: store, Runner: runner, Outputs: outputs}
}

// CreateAnalysis starts a new analysis run
// @Summary Start an analysis
// @Description Validate the job and start the analysis in the background
// @Tags analyses
// @Accept json
// @Produce json
// @Param analysis body model.JobSpec true "Analysis configuration"
// @Success 202 {object} map[string]interface{} "Analysis started"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses [post]
func (h *AnalysisHandler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var job model.JobSpec
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// 1. Validate payload
	if job.Source.URL == "" {
		http.Error(w, "source.url is required", http.StatusBadRequest)
		return
	}
	if job.Source.Type == "" {
		job.Source.Type = model.SourceFile
	}
	if job.Source.Type != model.SourceFile && job.Source.Type != model.SourceBlob {
		http.Error(w, fmt.Sprintf("unknown source type %q", job.Source.Type), http.StatusBadRequest)
		return
	}
	if job.TopN < 0 {
		http.Error(w, "topN must not be negative", http.StatusBadRequest)
		return
	}

	// 2. Generate run ID and save
	runID := uuid.New().String()
	if err := h.Store.SaveRun(runID, job); err != nil {
		http.Error(w, "Failed to save analysis", http.StatusInternalServerError)
		return
	}

	// 3. Run asynchronously; the runner records status and errors
	go func() {
		_, err := h.Runner.Run(context.Background(), runID, job)
		if err != nil {
			log.Error().Err(err).Str("run_id", runID).Msg("analysis failed")
		}
		if h.OnDone != nil {
			h.OnDone(runID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":   "Analysis started",
		"runID":     runID,
		"status":    model.StatusPending,
		"createdAt": time.Now().UTC(),
	})
}

// ListAnalyses retrieves all runs
// @Summary List analyses
// @Description Get every analysis run with its current status
// @Tags analyses
// @Produce json
// @Success 200 {array} model.RunInfo "List of analyses"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses [get]
func (h *AnalysisHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch analyses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetAnalysis retrieves one run
// @Summary Get analysis
// @Description Retrieve the job and status of an analysis run
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.RunInfo "Analysis details"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Router /analyses/{id} [get]
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "")
	if !ok {
		return
	}
	run, err := h.Store.GetRun(runID)
	if err != nil {
		h.storeError(w, err, "Analysis not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetAnalysisErrors retrieves the errors of a run
// @Summary Get analysis errors
// @Description Retrieve all errors recorded for an analysis run
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Analysis errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id}/errors [get]
func (h *AnalysisHandler) GetAnalysisErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "/errors")
	if !ok {
		return
	}
	errs, err := h.Store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"errors": errs,
		"count":  len(errs),
	})
}

// GetAnalysisSummary retrieves the per diet summary of a completed run
// @Summary Get analysis summary
// @Description Average macronutrients, record counts and most common cuisine per diet type
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Diet summaries"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Failure 409 {object} map[string]interface{} "Analysis not completed"
// @Router /analyses/{id}/summary [get]
func (h *AnalysisHandler) GetAnalysisSummary(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "/summary")
	if !ok {
		return
	}
	run, err := h.Store.GetRun(runID)
	if err != nil {
		h.storeError(w, err, "Analysis not found")
		return
	}
	if run.Status != model.StatusCompleted {
		http.Error(w, fmt.Sprintf("Analysis is %s", run.Status), http.StatusConflict)
		return
	}
	summaries, err := h.Store.GetDietSummaries(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":    runID,
		"status":    run.Status,
		"summaries": summaries,
		"count":     len(summaries),
	})
}

// GetAnalysisFiles lists the artifacts of a run
// @Summary List analysis files
// @Description List the exported files of an analysis run with download URLs
// @Tags files
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Files"
// @Failure 404 {object} map[string]interface{} "No outputs for this run"
// @Router /analyses/{id}/files [get]
func (h *AnalysisHandler) GetAnalysisFiles(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "/files")
	if !ok {
		return
	}
	dir := h.Outputs.JobDir(runID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		http.Error(w, "No outputs for this run", http.StatusNotFound)
		return
	}

	files := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		size, err := h.Outputs.GetFileSize(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		files = append(files, map[string]interface{}{
			"name":         e.Name(),
			"type":         h.Outputs.GetFileType(e.Name()),
			"size":         size,
			"download_url": h.Outputs.GetDownloadURL(runID, e.Name()),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"files":  files,
		"count":  len(files),
	})
}

// DownloadFile serves an artifact for download
// @Summary Download file
// @Description Download a specific output file of an analysis run
// @Tags files
// @Produce application/octet-stream
// @Param id path string true "Run ID"
// @Param filename path string true "File name"
// @Success 200 {file} file "File download"
// @Failure 400 {object} map[string]interface{} "Invalid URL format"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{id}/{filename} [get]
func (h *AnalysisHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	// URL format: /api/v1/download/runID/filename
	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) != 5 {
		http.Error(w, "Invalid URL format", http.StatusBadRequest)
		return
	}
	runID, fileName := pathParts[3], pathParts[4]

	filePath, err := h.Outputs.GetOutputFilePath(runID, fileName)
	if err != nil {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}
	if _, err := os.Stat(filePath); err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Type", h.Outputs.ContentType(fileName))
	http.ServeFile(w, r, filePath)
}

func (h *AnalysisHandler) storeError(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, notFound, http.StatusNotFound)
		return
	}
	log.Error().Err(err).Msg("store query failed")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// runIDFromPath extracts the run ID between the analyses prefix and suffix
func runIDFromPath(w http.ResponseWriter, path, suffix string) (string, bool) {
	if !strings.HasPrefix(path, analysesPrefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}
	runID := path[len(analysesPrefix) : len(path)-len(suffix)]
	if runID == "" || strings.HasPrefix(runID, ".") || strings.Contains(runID, "/") {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return "", false
	}
	return runID, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// Ensure the pipeline runner satisfies Runner
var _ Runner = (*pipeline.Runner)(nil)

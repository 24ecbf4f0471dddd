package pipeline

import (
	"context"
	"errors"
	"fmt"
	"go-diet-pipeline/internal/metrics"
	"go-diet-pipeline/internal/model"
	"go-diet-pipeline/pkg/utils"

	"github.com/rs/zerolog/log"
)

// RunStore is where run status and results are recorded
type RunStore interface {
	UpdateRunStatus(runID, status string) error
	SaveRunError(runID string, err error) error
	SaveDietSummaries(runID string, summaries []model.DietSummary) error
}

// Runner executes analysis runs
type Runner struct {
	Store    RunStore // optional
	Blobs    BlobGetter
	Outputs  *utils.OutputManager
	Renderer Renderer
}

// HeadRows is how many rows the dataset info shows
const HeadRows = 5

// ------------------- Pipeline Runner -------------------

// Run executes ingestion, transformation, load, aggregation and export in
// sequence. Nothing is published under the output directory unless every
// stage succeeds.
func (r *Runner) Run(ctx context.Context, runID string, job model.JobSpec) (report *model.AnalysisReport, err error) {
	log.Info().Str("run_id", runID).Str("source", job.Source.URL).Msg("🚀 Starting diet analysis")
	r.updateStatus(runID, model.StatusRunning)
	tracker := NewRunTracker(runID)

	defer func() {
		if err != nil {
			metrics.RunsTotal.WithLabelValues(model.StatusFailed).Inc()
			r.updateStatus(runID, model.StatusFailed)
			if r.Store != nil {
				if serr := r.Store.SaveRunError(runID, err); serr != nil {
					log.Error().Err(serr).Str("run_id", runID).Msg("failed to store run error")
				}
			}
			if r.Outputs != nil {
				_ = r.Outputs.Discard(runID)
			}
			log.Error().Err(err).Str("run_id", runID).Msg("❌ Analysis failed")
		}
	}()

	timeout := utils.ParseDuration(job.JobTimeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// --- INGESTION STAGE ---
	tracker.StartStage(StageIngestion)
	ds, err := r.ingest(ctx, job.Source)
	tracker.EndStage(StageIngestion, len(ds.Records), err)
	if err != nil {
		return nil, err
	}

	// --- TRANSFORMATION STAGE ---
	transformations := job.Transformations
	if len(transformations) == 0 {
		transformations = DefaultTransformations
	}
	tracker.StartStage(StageTransformation)
	ds.Records, err = ApplyTransformations(ds.Records, transformations)
	tracker.EndStage(StageTransformation, len(ds.Records), err)
	if err != nil {
		return nil, err
	}

	// --- LOAD STAGE ---
	agg := NewDietAggregator()
	tracker.StartStage(StageLoad)
	imputation, err := agg.Load(ds)
	tracker.EndStage(StageLoad, agg.Len(), err)
	if err != nil {
		return nil, err
	}

	// --- AGGREGATION STAGE ---
	tracker.StartStage(StageAggregation)
	report = BuildReport(runID, ds, agg, imputation, job.TopN)
	tracker.EndStage(StageAggregation, len(report.AverageMacros), nil)
	metrics.RecordsProcessed.Add(float64(agg.Len()))

	// --- EXPORT STAGE ---
	if r.Outputs != nil {
		tracker.StartStage(StageExport)
		report.Metrics = tracker.Metrics(agg.Len(), imputation.Total(), len(report.AverageMacros))
		err = r.export(runID, job.Export, agg.ExportEnrichedTable(), report)
		tracker.EndStage(StageExport, len(report.Exports), err)
		if err != nil {
			return nil, err
		}
	}
	report.Metrics = tracker.Metrics(agg.Len(), imputation.Total(), len(report.AverageMacros))
	for _, s := range report.Metrics.Stages {
		metrics.StageDuration.WithLabelValues(s.StageName).Observe(s.Duration.Seconds())
	}

	if r.Store != nil {
		if err := r.Store.SaveDietSummaries(runID, report.Summaries); err != nil {
			log.Error().Err(err).Str("run_id", runID).Msg("failed to store diet summaries")
		}
	}
	r.updateStatus(runID, model.StatusCompleted)
	metrics.RunsTotal.WithLabelValues(model.StatusCompleted).Inc()

	log.Info().Str("run_id", runID).Dur("duration", report.Metrics.ProcessingTime).
		Int("records", agg.Len()).Msg("🏁 Analysis completed")
	return report, nil
}

func (r *Runner) ingest(ctx context.Context, source model.Source) (model.Dataset, error) {
	rc, err := OpenSource(ctx, source, r.Blobs)
	if err != nil {
		return model.Dataset{Source: source.URL}, err
	}
	defer rc.Close()
	return ReadDataset(ctx, rc, source.URL)
}

func (r *Runner) export(runID string, spec model.Export, table model.EnrichedTable, report *model.AnalysisReport) error {
	dir, err := r.Outputs.CreateStagingDir(runID)
	if err != nil {
		return err
	}
	em := &ExportManager{RunID: runID, Dir: dir, Spec: spec, Renderer: r.Renderer}
	if err := em.ExportAll(table, report); err != nil {
		return err
	}
	final, err := r.Outputs.Promote(runID)
	if err != nil {
		return err
	}
	log.Info().Str("run_id", runID).Str("dir", final).Msg("💾 Outputs saved")
	return nil
}

func (r *Runner) updateStatus(runID, status string) {
	if r.Store == nil {
		return
	}
	if err := r.Store.UpdateRunStatus(runID, status); err != nil {
		log.Warn().Err(err).Str("run_id", runID).Str("status", status).Msg("failed to update run status")
	}
}

// BuildReport runs every aggregation on a loaded aggregator
func BuildReport(runID string, ds model.Dataset, agg *DietAggregator, imputation model.ImputationReport, topN int) *model.AnalysisReport {
	rows, cols := ds.Shape()
	report := &model.AnalysisReport{
		RunID: runID,
		Dataset: model.DatasetInfo{
			Source:  ds.Source,
			Rows:    rows,
			Columns: cols,
			Header:  ds.Header,
			Head:    ds.Head(HeadRows),
		},
		Imputation:    imputation,
		AverageMacros: agg.AverageMacros(),
		TopProtein:    agg.TopProteinPerDiet(topN),
		Cuisines:      agg.MostCommonCuisinePerDiet(),
		Summaries:     agg.Summaries(),
	}
	if diet, protein, ok := agg.DietWithHighestAvgProtein(); ok {
		report.HighestProtein = &model.HighestProtein{DietType: diet, Protein: protein}
	}
	for _, w := range agg.Warnings() {
		report.Warnings = append(report.Warnings, w.Error())
	}
	return report
}

// Describe turns a run error into the message shown to the user
func Describe(err error) string {
	var schemaErr *SchemaError
	switch {
	case errors.Is(err, ErrMissingInput):
		return fmt.Sprintf("Error: input not found (%v). Please make sure the file exists.", err)
	case errors.As(err, &schemaErr):
		return fmt.Sprintf("Error: the dataset does not match the expected schema: %v", schemaErr)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Error: analysis timed out: %v", err)
	case !IsFatal(err):
		return fmt.Sprintf("Warning: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

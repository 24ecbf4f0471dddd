// Package function is the serverless aggregation job: it pulls the dataset
// from the object store, aggregates it and persists a JSON summary.
package function

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-diet-pipeline/internal/metrics"
	"go-diet-pipeline/internal/model"
	"go-diet-pipeline/internal/pipeline"
	"go-diet-pipeline/internal/results"

	"github.com/rs/zerolog/log"
)

// timeLayout matches the timestamps the summary has always carried
const timeLayout = "2006-01-02 15:04:05"

// Blobs is the object store the job reads from
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	URL(key string) string
}

// Handler runs the job
type Handler struct {
	Blobs      Blobs
	Sinks      []results.Sink
	SummaryKey string
	Now        func() time.Time
}

// Result is what one invocation produced
type Result struct {
	Summary model.ServerlessSummary
	Report  *model.AnalysisReport
	Message string
}

// Invoke processes the blob stored under key
func (h *Handler) Invoke(ctx context.Context, key string) (*Result, error) {
	now := h.now
	log.Info().Str("key", key).Str("invoked_at", now().Format(timeLayout)).Msg("⚡ Function invoked")

	// Step 1-2: download blob content
	downloadStart := now()
	data, err := h.Blobs.Get(ctx, key)
	if err != nil {
		metrics.FunctionInvocations.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: %v", pipeline.ErrMissingInput, err)
	}
	downloadTime := now().Sub(downloadStart).Seconds()
	log.Info().Float64("seconds", downloadTime).Int("bytes", len(data)).Msg("Download completed")

	// Step 3-4: decode and aggregate
	result, err := h.process(ctx, key, data, downloadTime)
	if err != nil {
		metrics.FunctionInvocations.WithLabelValues("failed").Inc()
		return nil, err
	}

	// Step 5-6: persist
	doc, err := json.MarshalIndent(result.Summary, "", "  ")
	if err != nil {
		metrics.FunctionInvocations.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := h.persist(ctx, doc); err != nil {
		metrics.FunctionInvocations.WithLabelValues("failed").Inc()
		return nil, err
	}

	metrics.FunctionInvocations.WithLabelValues("succeeded").Inc()
	result.Message = "Data processed and stored successfully in NoSQL storage."
	return result, nil
}

// persist stages every StagedSink, saves the other sinks and commits the
// staged ones last. Nothing staged is published when a sink fails.
func (h *Handler) persist(ctx context.Context, doc []byte) error {
	var staged []results.StagedSink
	discard := func() {
		for _, s := range staged {
			if err := s.Discard(); err != nil {
				log.Warn().Err(err).Str("sink", s.Name()).Msg("failed to discard staged results")
			}
		}
	}

	for _, sink := range h.Sinks {
		s, ok := sink.(results.StagedSink)
		if !ok {
			continue
		}
		staged = append(staged, s)
		if err := s.Stage(ctx, h.SummaryKey, doc); err != nil {
			discard()
			return fmt.Errorf("failed to save results to %s: %w", s.Name(), err)
		}
	}

	for _, sink := range h.Sinks {
		if _, ok := sink.(results.StagedSink); ok {
			continue
		}
		if err := sink.Save(ctx, h.SummaryKey, doc); err != nil {
			discard()
			return fmt.Errorf("failed to save results to %s: %w", sink.Name(), err)
		}
		log.Info().Str("sink", sink.Name()).Str("key", h.SummaryKey).Msg("Results saved")
	}

	for _, s := range staged {
		if err := s.Commit(); err != nil {
			return fmt.Errorf("failed to save results to %s: %w", s.Name(), err)
		}
		log.Info().Str("sink", s.Name()).Str("key", h.SummaryKey).Msg("Results saved")
	}
	return nil
}

func (h *Handler) process(ctx context.Context, key string, data []byte, downloadTime float64) (*Result, error) {
	ds, err := pipeline.ReadDataset(ctx, bytes.NewReader(data), key)
	if err != nil {
		return nil, err
	}
	records, err := pipeline.ApplyTransformations(ds.Records, pipeline.DefaultTransformations)
	if err != nil {
		return nil, err
	}
	ds.Records = records

	agg := pipeline.NewDietAggregator()
	imputation, err := agg.Load(ds)
	if err != nil {
		return nil, err
	}
	report := pipeline.BuildReport("", ds, agg, imputation, pipeline.DefaultTopN)

	return &Result{
		Summary: BuildSummary(report, agg.DietTypes(), h.Blobs.URL(key), h.now(), model.ProcessingMetadata{
			DownloadTimeSeconds: downloadTime,
			BlobSizeBytes:       len(data),
			RowsProcessed:       agg.Len(),
		}),
		Report: report,
	}, nil
}

// BuildSummary shapes the summary document from an analysis report
func BuildSummary(report *model.AnalysisReport, dietTypes []string, source string, at time.Time, meta model.ProcessingMetadata) model.ServerlessSummary {
	averages := make(map[string]model.MacroTotals, len(report.AverageMacros))
	for _, m := range report.AverageMacros {
		averages[m.DietType] = model.MacroTotals{Protein: m.Protein, Carbs: m.Carbs, Fat: m.Fat}
	}
	if dietTypes == nil {
		dietTypes = []string{}
	}
	return model.ServerlessSummary{
		FunctionExecutionTime: at.Format(timeLayout),
		DataSource:            source,
		TotalRecipes:          report.Dataset.Rows,
		TotalDietTypes:        len(dietTypes),
		DietTypes:             dietTypes,
		AverageMacronutrients: averages,
		ProcessingMetadata:    meta,
	}
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

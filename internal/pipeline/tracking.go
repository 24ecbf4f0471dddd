package pipeline

import (
	"go-diet-pipeline/internal/model"
	"time"

	"github.com/rs/zerolog/log"
)

// Stage names
const (
	StageIngestion      = "ingestion"
	StageTransformation = "transformation"
	StageLoad           = "load"
	StageAggregation    = "aggregation"
	StageExport         = "export"
)

// RunTracker records per-stage timings of a single run
type RunTracker struct {
	RunID  string
	start  time.Time
	stages []model.StageMetrics
	now    func() time.Time
}

// NewRunTracker starts tracking a run
func NewRunTracker(runID string) *RunTracker {
	t := &RunTracker{RunID: runID, now: time.Now}
	t.start = t.now()
	return t
}

// StartStage marks the beginning of a stage
func (t *RunTracker) StartStage(name string) {
	t.stages = append(t.stages, model.StageMetrics{
		StageName: name,
		StartTime: t.now(),
		Status:    "running",
	})
	log.Debug().Str("run_id", t.RunID).Str("stage", name).Msg("stage started")
}

// EndStage closes the most recent stage with the given name
func (t *RunTracker) EndStage(name string, records int, err error) {
	for i := len(t.stages) - 1; i >= 0; i-- {
		s := &t.stages[i]
		if s.StageName != name || s.Status != "running" {
			continue
		}
		s.EndTime = t.now()
		s.Duration = s.EndTime.Sub(s.StartTime)
		s.RecordsProcessed = records
		s.Status = "completed"
		if err != nil {
			s.Status = "failed"
		}
		log.Debug().Str("run_id", t.RunID).Str("stage", name).Dur("duration", s.Duration).
			Int("records", records).Str("status", s.Status).Msg("stage finished")
		return
	}
}

// Metrics returns the run metrics collected so far
func (t *RunTracker) Metrics(totalRecords, imputed, dietTypes int) model.RunMetrics {
	elapsed := t.now().Sub(t.start)
	m := model.RunMetrics{
		TotalRecords:   totalRecords,
		ImputedCells:   imputed,
		DietTypes:      dietTypes,
		ProcessingTime: elapsed,
		Stages:         append([]model.StageMetrics(nil), t.stages...),
	}
	if elapsed > 0 {
		m.ThroughputRPS = float64(totalRecords) / elapsed.Seconds()
	}
	return m
}

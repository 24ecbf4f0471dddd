package model

import "time"

// Run statuses
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// StageMetrics represents metrics for a specific pipeline stage
type StageMetrics struct {
	StageName        string        `json:"stage_name" yaml:"stage_name"`
	StartTime        time.Time     `json:"start_time" yaml:"start_time"`
	EndTime          time.Time     `json:"end_time" yaml:"end_time"`
	Duration         time.Duration `json:"duration" yaml:"duration"`
	RecordsProcessed int           `json:"records_processed" yaml:"records_processed"`
	Status           string        `json:"status" yaml:"status"` // "running", "completed", "failed"
}

// RunMetrics represents overall pipeline performance metrics
type RunMetrics struct {
	TotalRecords   int            `json:"total_records" yaml:"total_records"`
	ImputedCells   int            `json:"imputed_cells" yaml:"imputed_cells"`
	DietTypes      int            `json:"diet_types" yaml:"diet_types"`
	ProcessingTime time.Duration  `json:"processing_time" yaml:"processing_time"`
	ThroughputRPS  float64        `json:"throughput_rps" yaml:"throughput_rps"`
	Stages         []StageMetrics `json:"stages" yaml:"stages"`
}

// RunInfo is a stored analysis run
type RunInfo struct {
	ID        string    `json:"id"`
	Spec      *JobSpec  `json:"spec,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrorDetail represents a stored run error
type ErrorDetail struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

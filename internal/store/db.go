package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"go-diet-pipeline/internal/model"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store keeps analysis runs, their errors and their diet summaries
type Store struct {
	db *sql.DB
}

// New wraps an open database
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (or creates) the SQLite database and its tables
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	s := New(db)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates tables if they do not exist
func (s *Store) Migrate() error {
	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		spec TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	summaryTable := `
	CREATE TABLE IF NOT EXISTS diet_summaries (
		run_id TEXT,
		position INTEGER,
		diet_type TEXT,
		avg_protein_g REAL,
		avg_carbs_g REAL,
		avg_fat_g REAL,
		most_common_cuisine TEXT,
		record_count INTEGER,
		PRIMARY KEY (run_id, diet_type)
	);
	`

	for _, stmt := range []string{runTable, errorTable, summaryTable} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// SaveRun stores a new analysis run
func (s *Store) SaveRun(runID string, spec model.JobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(`INSERT INTO runs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, string(specJSON), model.StatusPending, now, now)
	return err
}

// UpdateRunStatus updates run status
func (s *Store) UpdateRunStatus(runID string, status string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunError records an error for a run
func (s *Store) SaveRunError(runID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := s.db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, err.Error(), now)
	return e
}

// GetRunErrors returns the errors of a run, oldest first
func (s *Store) GetRunErrors(runID string) ([]model.ErrorDetail, error) {
	rows, err := s.db.Query(`SELECT id, run_id, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	errs := []model.ErrorDetail{}
	for rows.Next() {
		var e model.ErrorDetail
		if err := rows.Scan(&e.ID, &e.RunID, &e.Message, &e.Timestamp); err != nil {
			return nil, err
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

// ListRuns returns all runs with basic info
func (s *Store) ListRuns() ([]model.RunInfo, error) {
	rows, err := s.db.Query(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []model.RunInfo{}
	for rows.Next() {
		var r model.RunInfo
		if err := rows.Scan(&r.ID, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches full run spec and status
func (s *Store) GetRun(runID string) (*model.RunInfo, error) {
	var specJSON string
	r := model.RunInfo{ID: runID}

	err := s.db.QueryRow(`SELECT spec, status, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&specJSON, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.JobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}
	r.Spec = &spec
	return &r, nil
}

// SaveDietSummaries replaces the summaries of a run in one transaction
func (s *Store) SaveDietSummaries(runID string, summaries []model.DietSummary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM diet_summaries WHERE run_id = ?`, runID); err != nil {
		return err
	}
	for i, d := range summaries {
		_, err := tx.Exec(`INSERT INTO diet_summaries
			(run_id, position, diet_type, avg_protein_g, avg_carbs_g, avg_fat_g, most_common_cuisine, record_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, i, d.DietType, d.AvgProtein, d.AvgCarbs, d.AvgFat, d.MostCommonCuisine, d.RecordCount)
		if err != nil {
			return fmt.Errorf("failed to save summary for %s: %w", d.DietType, err)
		}
	}
	return tx.Commit()
}

// GetDietSummaries returns the summaries of a run in their original order
func (s *Store) GetDietSummaries(runID string) ([]model.DietSummary, error) {
	rows, err := s.db.Query(`SELECT diet_type, avg_protein_g, avg_carbs_g, avg_fat_g, most_common_cuisine, record_count
		FROM diet_summaries WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []model.DietSummary{}
	for rows.Next() {
		var d model.DietSummary
		if err := rows.Scan(&d.DietType, &d.AvgProtein, &d.AvgCarbs, &d.AvgFat, &d.MostCommonCuisine, &d.RecordCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, d)
	}
	return summaries, rows.Err()
}

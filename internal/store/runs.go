package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/figgo/figgo/internal/validate"
)

// Run statuses.
const (
	StatusOK               = "ok"
	StatusValidationFailed = "validation_failed"
	StatusMergeConflict    = "merge_conflict"
	StatusInputError       = "input_error"
)

// Run is one recorded pipeline request.
type Run struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"createdAt"`
	NodeID     string             `json:"nodeId"`
	Component  string             `json:"component"`
	Status     string             `json:"status"`
	Findings   []validate.Finding `json:"findings,omitempty"`
	OutputHash string             `json:"outputHash,omitempty"`
}

// RecordRun inserts one run row, assigning the id and timestamp when unset.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	var findings []byte
	if len(run.Findings) > 0 {
		var err error
		findings, err = json.Marshal(run.Findings)
		if err != nil {
			return fmt.Errorf("marshaling findings: %w", err)
		}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, node_id, component, status, findings, output_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339Nano), run.NodeID,
		run.Component, run.Status, nullable(findings), run.OutputHash)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, node_id, component, status, findings, output_hash
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, node_id, component, status, findings, output_hash
		 FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("fetching run: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	run, err := scanRun(rows)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var createdAt string
	var findings, hash sql.NullString
	if err := rows.Scan(&run.ID, &createdAt, &run.NodeID, &run.Component,
		&run.Status, &findings, &hash); err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing run timestamp: %w", err)
	}
	run.CreatedAt = ts
	run.OutputHash = hash.String
	if findings.Valid && findings.String != "" {
		if err := json.Unmarshal([]byte(findings.String), &run.Findings); err != nil {
			return Run{}, fmt.Errorf("unmarshaling findings: %w", err)
		}
	}
	return run, nil
}

func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

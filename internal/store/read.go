package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trialmesh/usdm-timeline/internal/timeline"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// ReadRun returns the run row and its node snapshots in stored order.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, timeline.TimelineSnapshot, error) {
	var run Run
	snap := timeline.TimelineSnapshot{Nodes: []timeline.NodeSnapshot{}}

	err := s.db.QueryRowContext(ctx, `
		SELECT id, study_id, timeline_id, created_at, node_count, error_count
		FROM runs WHERE id = ?
	`, runID).Scan(&run.ID, &run.StudyID, &run.TimelineID, &run.CreatedAt, &run.NodeCount, &run.ErrorCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, snap, fmt.Errorf("read run %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, snap, fmt.Errorf("read run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT snapshot FROM nodes WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return Run{}, snap, fmt.Errorf("read run: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nodeJSON string
		if err := rows.Scan(&nodeJSON); err != nil {
			return Run{}, snap, fmt.Errorf("read run: %w", err)
		}
		var node timeline.NodeSnapshot
		if err := json.Unmarshal([]byte(nodeJSON), &node); err != nil {
			return Run{}, snap, fmt.Errorf("read run: decode node: %w", err)
		}
		snap.Nodes = append(snap.Nodes, node)
	}
	if err := rows.Err(); err != nil {
		return Run{}, snap, fmt.Errorf("read run: %w", err)
	}

	return run, snap, nil
}

// ListRuns returns run rows for a study, newest first. Pass timelineID
// == "" for all timelines.
func (s *Store) ListRuns(ctx context.Context, studyID, timelineID string) ([]Run, error) {
	query := `
		SELECT id, study_id, timeline_id, created_at, node_count, error_count
		FROM runs WHERE study_id = ?
	`
	args := []any{studyID}
	if timelineID != "" {
		query += " AND timeline_id = ?"
		args = append(args, timelineID)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.StudyID, &run.TimelineID, &run.CreatedAt, &run.NodeCount, &run.ErrorCount); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ReadDiagnostics returns a run's diagnostics in report order.
func (s *Store) ReadDiagnostics(ctx context.Context, runID string) ([]StoredDiagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT level, message, location, cause
		FROM diagnostics WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read diagnostics: %w", err)
	}
	defer rows.Close()

	var recs []StoredDiagnostic
	for rows.Next() {
		var rec StoredDiagnostic
		if err := rows.Scan(&rec.Level, &rec.Message, &rec.Location, &rec.Cause); err != nil {
			return nil, fmt.Errorf("read diagnostics: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read diagnostics: %w", err)
	}
	return recs, nil
}

// StoredDiagnostic is a diagnostic as persisted: the location collapsed
// to its string form.
type StoredDiagnostic struct {
	Level    string `json:"level"`
	Message  string `json:"message"`
	Location string `json:"location"`
	Cause    string `json:"cause,omitempty"`
}

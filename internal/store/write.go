package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/trialmesh/usdm-timeline/internal/diag"
	"github.com/trialmesh/usdm-timeline/internal/timeline"
)

// Run identifies one persisted expansion.
type Run struct {
	ID         string `json:"id"`
	StudyID    string `json:"studyId"`
	TimelineID string `json:"timelineId"`
	CreatedAt  string `json:"createdAt"`
	NodeCount  int    `json:"nodeCount"`
	ErrorCount int    `json:"errorCount"`
}

// WriteRun persists one expansion atomically: the run row, every node
// snapshot in tick order, and every diagnostic in report order. Returns
// the generated run id.
func (s *Store) WriteRun(ctx context.Context, studyID, timelineID string, snap timeline.TimelineSnapshot, records []diag.Record) (string, error) {
	runID := uuid.NewString()

	errorCount := 0
	for _, rec := range records {
		if rec.Level == diag.LevelError || rec.Level == diag.LevelException {
			errorCount++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, study_id, timeline_id, node_count, error_count)
		VALUES (?, ?, ?, ?, ?)
	`, runID, studyID, timelineID, len(snap.Nodes), errorCount)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	for i, node := range snap.Nodes {
		nodeJSON, err := json.Marshal(node)
		if err != nil {
			return "", fmt.Errorf("write run: marshal node %s: %w", node.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO nodes (run_id, position, node_id, tick, snapshot)
			VALUES (?, ?, ?, ?, ?)
		`, runID, i, node.ID, node.Tick, string(nodeJSON))
		if err != nil {
			return "", fmt.Errorf("write run: %w", err)
		}
	}

	for i, rec := range records {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO diagnostics (run_id, position, level, message, location, cause)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, i, string(rec.Level), rec.Message, rec.Location.String(), rec.Cause)
		if err != nil {
			return "", fmt.Errorf("write run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	slog.Info("run persisted",
		"run", runID,
		"timeline", timelineID,
		"nodes", len(snap.Nodes),
		"errors", errorCount)
	return runID, nil
}

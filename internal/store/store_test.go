package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialmesh/usdm-timeline/internal/diag"
	"github.com/trialmesh/usdm-timeline/internal/timeline"
	"github.com/trialmesh/usdm-timeline/internal/usdmtest"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func expandFixture(t *testing.T) (timeline.TimelineSnapshot, *diag.Collector) {
	t.Helper()
	design := usdmtest.TwoVisitDesign()
	sink := diag.NewCollector()
	e := timeline.NewExpander(design, design.Timeline("TL_1"), sink)
	e.Expand()
	return e.Snapshot(), sink
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestWriteRun_RoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	snap, sink := expandFixture(t)

	runID, err := s.WriteRun(ctx, "STUDY_1", "TL_1", snap, sink.Records())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	run, got, err := s.ReadRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, "STUDY_1", run.StudyID)
	assert.Equal(t, "TL_1", run.TimelineID)
	assert.Equal(t, 2, run.NodeCount)
	assert.Equal(t, 0, run.ErrorCount)
	assert.Equal(t, snap, got)
}

func TestWriteRun_PersistsDiagnostics(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	snap, _ := expandFixture(t)

	sink := diag.NewCollector()
	sink.Error("no timing", diag.Loc("timeline", "Timepoint"))
	sink.Info("expansion finished")

	runID, err := s.WriteRun(ctx, "STUDY_1", "TL_1", snap, sink.Records())
	require.NoError(t, err)

	run, _, err := s.ReadRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.ErrorCount)

	recs, err := s.ReadDiagnostics(ctx, runID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "error", recs[0].Level)
	assert.Equal(t, "no timing", recs[0].Message)
	assert.Equal(t, "timeline.Timepoint", recs[0].Location)
	assert.Equal(t, "info", recs[1].Level)
}

func TestReadRun_NotFound(t *testing.T) {
	s := openStore(t)

	_, _, err := s.ReadRun(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns_FiltersByTimeline(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	snap, sink := expandFixture(t)

	_, err := s.WriteRun(ctx, "STUDY_1", "TL_1", snap, sink.Records())
	require.NoError(t, err)
	_, err = s.WriteRun(ctx, "STUDY_1", "TL_2", snap, sink.Records())
	require.NoError(t, err)
	_, err = s.WriteRun(ctx, "STUDY_2", "TL_1", snap, sink.Records())
	require.NoError(t, err)

	all, err := s.ListRuns(ctx, "STUDY_1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	only, err := s.ListRuns(ctx, "STUDY_1", "TL_2")
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "TL_2", only[0].TimelineID)
}

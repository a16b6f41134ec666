package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_LevelsAndCounts(t *testing.T) {
	c := NewCollector()

	c.Info("loaded study")
	c.Warning("encounter missing label", Loc("usdm", "Encounter"))
	c.Error("no timing edge", Loc("timeline", "Timepoint"))
	c.Exception("condition parse failed", errors.New("bad integer"), Loc("timeline", "daysCondition"))

	assert.Equal(t, 1, c.Count(LevelInfo))
	assert.Equal(t, 1, c.Count(LevelWarning))
	assert.Equal(t, 1, c.Count(LevelError))
	assert.Equal(t, 1, c.Count(LevelException))
	assert.Equal(t, 2, c.ErrorCount())
}

func TestCollector_RecordsPreserveOrder(t *testing.T) {
	c := NewCollector()
	c.Error("first", Loc("m", "a"))
	c.Error("second", Loc("m", "b"))

	recs := c.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "first", recs[0].Message)
	assert.Equal(t, "second", recs[1].Message)
}

func TestCollector_RecordsReturnsCopy(t *testing.T) {
	c := NewCollector()
	c.Info("one")

	recs := c.Records()
	recs[0].Message = "mutated"

	assert.Equal(t, "one", c.Records()[0].Message)
}

func TestCollector_ExceptionCapturesCause(t *testing.T) {
	c := NewCollector()
	c.Exception("walk failed", errors.New("boom"), Loc("timeline", "walk"))

	recs := c.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "boom", recs[0].Cause)
	assert.Equal(t, "timeline.walk", recs[0].Location.String())
}

func TestCollector_Dump(t *testing.T) {
	c := NewCollector()
	c.Error("no anchor", Loc("timeline", "Timepoint"))

	assert.Equal(t, "[error] no anchor (timeline.Timepoint)\n", c.Dump())
}

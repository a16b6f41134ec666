package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialmesh/usdm-timeline/internal/diag"
	"github.com/trialmesh/usdm-timeline/internal/usdm"
	"github.com/trialmesh/usdm-timeline/internal/usdmtest"
)

func TestTimepoint_IDFormat(t *testing.T) {
	design := usdmtest.TwoVisitDesign()
	tl := design.Timeline("TL_1")
	tp := NewTimepoint(design, tl, &tl.Activities[0], diag.NewCollector(), 7, 0)

	assert.Equal(t, "TP_7", tp.ID())
}

func TestTimepoint_MultiHopChain(t *testing.T) {
	design := usdmtest.TwoVisitDesign()
	tl := design.Timeline("TL_1")
	// SAI_3 sits P1D after SAI_2, which sits P7D after the anchor.
	tl.Activities = append(tl.Activities, usdmtest.ExitSAI("SAI_3", "Visit 3", nil, "EXIT_1"))
	tl.Timings = append(tl.Timings, usdmtest.AfterTiming("T_3", "SAI_3", "SAI_2", "P1D"))

	sink := diag.NewCollector()
	tp := NewTimepoint(design, tl, &tl.Activities[2], sink, 1, 0)

	assert.Equal(t, int64(604800+86400), tp.Tick())
	assert.Equal(t, 0, sink.ErrorCount())
}

func TestTimepoint_OffsetAppliedOnceAfterChain(t *testing.T) {
	design := usdmtest.TwoVisitDesign()
	tl := design.Timeline("TL_1")

	sink := diag.NewCollector()
	tp := NewTimepoint(design, tl, &tl.Activities[1], sink, 1, 1000)

	assert.Equal(t, int64(604800+1000), tp.Tick())
}

func TestTimepoint_BrokenChainKeepsAccumulatedTick(t *testing.T) {
	design := usdmtest.TwoVisitDesign()
	tl := design.Timeline("TL_1")
	// SAI_2's timing points at an instance the timeline does not hold.
	tl.Timings[1].ToID = "SAI_MISSING"

	sink := diag.NewCollector()
	tp := NewTimepoint(design, tl, &tl.Activities[1], sink, 1, 0)

	assert.Equal(t, int64(604800), tp.Tick())
	assert.GreaterOrEqual(t, sink.ErrorCount(), 1)
}

func TestTimepoint_ActivityTimelinesAllowDuplicates(t *testing.T) {
	design := nestedDesign(false)
	main := design.Timeline("TL_MAIN")
	// A second activity sharing the same sub-timeline yields two entries.
	design.Activities = append(design.Activities, usdm.Activity{ID: "A_SUB2", Label: "Sampling 2", TimelineID: "TL_SUB"})
	main.Activities[0].ActivityIDs = []string{"A_SUB", "A_SUB2"}

	tp := NewTimepoint(design, main, &main.Activities[0], diag.NewCollector(), 1, 0)
	subs := tp.ActivityTimelines()
	require.Len(t, subs, 2)
	assert.Equal(t, "TL_SUB", subs[0].ID)
	assert.Equal(t, "TL_SUB", subs[1].ID)
}

func TestSnapshot_ParentActivityLabel(t *testing.T) {
	design := usdmtest.TwoVisitDesign()
	design.Activities = append(design.Activities, usdm.Activity{ID: "A_PARENT", Label: "Safety Labs"})
	design.Activities[0].ParentID = "A_PARENT"

	e, _ := expand(t, design, "TL_1")
	snap := e.Nodes()[0].Snapshot()
	require.Len(t, snap.Activities.Items, 1)
	require.NotNil(t, snap.Activities.Items[0].Parent)
	assert.Equal(t, "Safety Labs", *snap.Activities.Items[0].Parent)
}

func TestSnapshot_SkipsUnresolvedActivities(t *testing.T) {
	design := usdmtest.TwoVisitDesign()
	design.Timelines[0].Activities[0].ActivityIDs = []string{"A1", "A_MISSING"}

	e, _ := expand(t, design, "TL_1")
	snap := e.Nodes()[0].Snapshot()
	require.Len(t, snap.Activities.Items, 1)
	assert.Equal(t, "Blood Draw", snap.Activities.Items[0].Label)
}

func TestRenderTime_SignsNegativeTicks(t *testing.T) {
	assert.Equal(t, "", renderTime(0))
	assert.Equal(t, "3 days", renderTime(259200))
	assert.Equal(t, "-3 days", renderTime(-259200))
}

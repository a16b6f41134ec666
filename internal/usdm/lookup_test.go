package usdm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureDesign() *StudyDesign {
	return &StudyDesign{
		ID: "SD_1",
		Activities: []Activity{
			{ID: "A1", Label: "Blood Draw"},
			{ID: "A2", Label: "ECG"},
		},
		Encounters: []Encounter{{ID: "ENC_1", Label: "Baseline"}},
		Epochs:     []Epoch{{ID: "EP_1", Label: "Screening"}},
		Timelines: []ScheduleTimeline{
			{
				ID:           "TL_1",
				MainTimeline: true,
				EntryID:      "SAI_1",
				Activities: []ScheduledActivityInstance{
					{ID: "SAI_1", Label: "Visit 1"},
				},
				Decisions: []ScheduledDecisionInstance{
					{ID: "DEC_1"},
				},
				Timings: []Timing{
					{ID: "T_1", Type: Code{Code: TimingAnchor}, FromID: "SAI_1", ToID: "SAI_1"},
				},
				Exits: []ScheduleTimelineExit{{ID: "EXIT_1"}},
			},
			{ID: "TL_2"},
		},
	}
}

func TestStudyDesign_Lookups(t *testing.T) {
	d := fixtureDesign()

	require.NotNil(t, d.Activity("A2"))
	assert.Equal(t, "ECG", d.Activity("A2").Label)
	assert.Nil(t, d.Activity("A3"))

	require.NotNil(t, d.ActivityByLabel("Blood Draw"))
	assert.Equal(t, "A1", d.ActivityByLabel("Blood Draw").ID)
	assert.Nil(t, d.ActivityByLabel("MRI"))

	require.NotNil(t, d.Encounter("ENC_1"))
	assert.Nil(t, d.Encounter("ENC_2"))

	require.NotNil(t, d.Epoch("EP_1"))
	assert.Nil(t, d.Epoch("EP_2"))

	require.NotNil(t, d.Timeline("TL_2"))
	assert.Nil(t, d.Timeline("TL_3"))

	require.NotNil(t, d.MainTimeline())
	assert.Equal(t, "TL_1", d.MainTimeline().ID)
}

func TestScheduleTimeline_Lookups(t *testing.T) {
	tl := fixtureDesign().Timeline("TL_1")

	inst := tl.Instance("SAI_1")
	require.NotNil(t, inst)
	assert.Equal(t, "SAI_1", inst.InstanceID())

	dec := tl.Instance("DEC_1")
	require.NotNil(t, dec)
	_, isDecision := dec.(*ScheduledDecisionInstance)
	assert.True(t, isDecision)

	assert.Nil(t, tl.Instance("SAI_2"))

	require.NotNil(t, tl.Exit("EXIT_1"))
	assert.Nil(t, tl.Exit("EXIT_2"))

	timing := tl.TimingFrom("SAI_1")
	require.NotNil(t, timing)
	assert.True(t, timing.IsAnchor())
	assert.Nil(t, tl.TimingFrom("SAI_2"))
}

func TestTiming_TypePredicates(t *testing.T) {
	anchor := Timing{Type: Code{Code: TimingAnchor}}
	before := Timing{Type: Code{Code: TimingBefore}}
	after := Timing{Type: Code{Code: TimingAfter}}

	assert.True(t, anchor.IsAnchor())
	assert.False(t, anchor.IsBefore())
	assert.True(t, before.IsBefore())
	assert.False(t, after.IsAnchor())
	assert.False(t, after.IsBefore())
}

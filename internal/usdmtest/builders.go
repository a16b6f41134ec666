// Package usdmtest provides compact builders for study-design fixtures.
// Tests across the module assemble graphs from these instead of hand
// writing the full record every time.
package usdmtest

import (
	"strconv"

	"github.com/trialmesh/usdm-timeline/internal/usdm"
)

// AnchorTiming returns an anchor timing fixing instanceID as the chain
// origin.
func AnchorTiming(id, instanceID string) usdm.Timing {
	return usdm.Timing{
		ID:     id,
		Type:   usdm.Code{Code: usdm.TimingAnchor, Decode: "Fixed Reference"},
		Value:  "P0D",
		FromID: instanceID,
		ToID:   instanceID,
	}
}

// AfterTiming returns a timing placing from after to by value.
func AfterTiming(id, from, to, value string) usdm.Timing {
	return usdm.Timing{
		ID:     id,
		Type:   usdm.Code{Code: usdm.TimingAfter, Decode: "After"},
		Value:  value,
		FromID: from,
		ToID:   to,
	}
}

// BeforeTiming returns a timing placing from before to by value.
func BeforeTiming(id, from, to, value string) usdm.Timing {
	return usdm.Timing{
		ID:     id,
		Type:   usdm.Code{Code: usdm.TimingBefore, Decode: "Before"},
		Value:  value,
		FromID: from,
		ToID:   to,
	}
}

// SAI returns a scheduled activity instance continuing to next. Pass
// next == "" for an instance that needs an exit or deliberately has no
// successor.
func SAI(id, label string, activityIDs []string, next string) usdm.ScheduledActivityInstance {
	return usdm.ScheduledActivityInstance{
		ID:                 id,
		Label:              label,
		ActivityIDs:        activityIDs,
		DefaultConditionID: next,
	}
}

// ExitSAI returns a scheduled activity instance terminating at exitID.
func ExitSAI(id, label string, activityIDs []string, exitID string) usdm.ScheduledActivityInstance {
	return usdm.ScheduledActivityInstance{
		ID:             id,
		Label:          label,
		ActivityIDs:    activityIDs,
		TimelineExitID: exitID,
	}
}

// Activity returns an activity with labeled procedures.
func Activity(id, label string, procedureLabels ...string) usdm.Activity {
	act := usdm.Activity{ID: id, Label: label}
	for i, pl := range procedureLabels {
		act.Procedures = append(act.Procedures, usdm.Procedure{ID: id + "_PROC_" + strconv.Itoa(i+1), Label: pl})
	}
	return act
}

// WrapStudy wraps a design in a one-version study, the shape the rules
// engine and loader operate on.
func WrapStudy(design *usdm.StudyDesign) *usdm.Study {
	return &usdm.Study{
		ID:   "STUDY_1",
		Name: "Study 1",
		Versions: []usdm.StudyVersion{
			{ID: "SV_1", VersionID: "1", StudyDesigns: []usdm.StudyDesign{*design}},
		},
	}
}

// TwoVisitDesign is the canonical smallest useful fixture: SAI1 is the
// anchor and schedules A1, SAI2 follows one week later and exits.
func TwoVisitDesign() *usdm.StudyDesign {
	return &usdm.StudyDesign{
		ID:   "SD_1",
		Name: "Two Visit Design",
		Activities: []usdm.Activity{
			Activity("A1", "Blood Draw", "Venipuncture"),
		},
		Encounters: []usdm.Encounter{
			{ID: "ENC_1", Label: "Baseline"},
			{ID: "ENC_2", Label: "Week 1"},
		},
		Timelines: []usdm.ScheduleTimeline{
			{
				ID:           "TL_1",
				Name:         "Main Timeline",
				MainTimeline: true,
				EntryID:      "SAI_1",
				Activities: []usdm.ScheduledActivityInstance{
					{
						ID:                 "SAI_1",
						Label:              "Visit 1",
						ActivityIDs:        []string{"A1"},
						EncounterID:        "ENC_1",
						DefaultConditionID: "SAI_2",
					},
					{
						ID:             "SAI_2",
						Label:          "Visit 2",
						ActivityIDs:    []string{"A1"},
						EncounterID:    "ENC_2",
						TimelineExitID: "EXIT_1",
					},
				},
				Timings: []usdm.Timing{
					AnchorTiming("T_1", "SAI_1"),
					AfterTiming("T_2", "SAI_2", "SAI_1", "P7D"),
				},
				Exits: []usdm.ScheduleTimelineExit{{ID: "EXIT_1"}},
			},
		},
	}
}

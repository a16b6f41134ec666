package rules

import (
	"fmt"

	"github.com/trialmesh/usdm-timeline/internal/usdm"
)

// BuiltinRules returns the structural rule library. The full upstream
// catalogue runs to hundreds of terminology and content rules; this set
// covers the graph integrity the timeline expander depends on.
func BuiltinRules() []Rule {
	return []Rule{
		uniqueInstanceIDs{},
		entryResolves{},
		timingEndpointsResolve{},
		timingChainsAnchor{},
		successorExclusive{},
		activityRefsResolve{},
		encounterRefsResolve{},
	}
}

// forEachTimeline applies fn to every timeline of every design, with a
// findings path prefix identifying the design and timeline.
func forEachTimeline(study *usdm.Study, fn func(design *usdm.StudyDesign, tl *usdm.ScheduleTimeline, path string) []Finding) []Finding {
	var findings []Finding
	for vi := range study.Versions {
		version := &study.Versions[vi]
		for di := range version.StudyDesigns {
			design := &version.StudyDesigns[di]
			for ti := range design.Timelines {
				tl := &design.Timelines[ti]
				path := fmt.Sprintf("versions[%d].studyDesigns[%d].scheduleTimelines[%d]", vi, di, ti)
				findings = append(findings, fn(design, tl, path)...)
			}
		}
	}
	return findings
}

type uniqueInstanceIDs struct{}

func (uniqueInstanceIDs) ID() string { return "TL0001" }
func (uniqueInstanceIDs) Description() string {
	return "Scheduled instance, timing, and exit identifiers are unique within a timeline"
}
func (r uniqueInstanceIDs) Check(study *usdm.Study) []Finding {
	return forEachTimeline(study, func(_ *usdm.StudyDesign, tl *usdm.ScheduleTimeline, path string) []Finding {
		var findings []Finding
		seen := map[string]bool{}
		report := func(id string) {
			if id != "" && seen[id] {
				findings = append(findings, Finding{
					RuleID:  r.ID(),
					Level:   LevelError,
					Message: fmt.Sprintf("duplicate identifier %q", id),
					Path:    path,
				})
			}
			seen[id] = true
		}
		for i := range tl.Activities {
			report(tl.Activities[i].ID)
		}
		for i := range tl.Decisions {
			report(tl.Decisions[i].ID)
		}
		for i := range tl.Timings {
			report(tl.Timings[i].ID)
		}
		for i := range tl.Exits {
			report(tl.Exits[i].ID)
		}
		return findings
	})
}

type entryResolves struct{}

func (entryResolves) ID() string { return "TL0002" }
func (entryResolves) Description() string {
	return "Every timeline's entry identifier resolves to a scheduled instance"
}
func (r entryResolves) Check(study *usdm.Study) []Finding {
	return forEachTimeline(study, func(_ *usdm.StudyDesign, tl *usdm.ScheduleTimeline, path string) []Finding {
		if tl.EntryID == "" {
			return []Finding{{RuleID: r.ID(), Level: LevelError, Message: "timeline has no entry identifier", Path: path}}
		}
		if tl.Instance(tl.EntryID) == nil {
			return []Finding{{
				RuleID:  r.ID(),
				Level:   LevelError,
				Message: fmt.Sprintf("entry identifier %q does not resolve", tl.EntryID),
				Path:    path,
			}}
		}
		return nil
	})
}

type timingEndpointsResolve struct{}

func (timingEndpointsResolve) ID() string { return "TL0003" }
func (timingEndpointsResolve) Description() string {
	return "Timing endpoints reference scheduled instances of the same timeline"
}
func (r timingEndpointsResolve) Check(study *usdm.Study) []Finding {
	return forEachTimeline(study, func(_ *usdm.StudyDesign, tl *usdm.ScheduleTimeline, path string) []Finding {
		var findings []Finding
		for i := range tl.Timings {
			timing := &tl.Timings[i]
			for _, end := range []string{timing.FromID, timing.ToID} {
				if tl.Instance(end) == nil {
					findings = append(findings, Finding{
						RuleID:  r.ID(),
						Level:   LevelError,
						Message: fmt.Sprintf("timing %q references missing instance %q", timing.ID, end),
						Path:    path,
					})
				}
			}
		}
		return findings
	})
}

type timingChainsAnchor struct{}

func (timingChainsAnchor) ID() string { return "TL0004" }
func (timingChainsAnchor) Description() string {
	return "Every instance's timing chain reaches an anchor"
}
func (r timingChainsAnchor) Check(study *usdm.Study) []Finding {
	return forEachTimeline(study, func(_ *usdm.StudyDesign, tl *usdm.ScheduleTimeline, path string) []Finding {
		var findings []Finding
		for i := range tl.Activities {
			inst := &tl.Activities[i]
			if !chainReachesAnchor(tl, inst.ID) {
				findings = append(findings, Finding{
					RuleID:  r.ID(),
					Level:   LevelError,
					Message: fmt.Sprintf("timing chain from instance %q does not reach an anchor", inst.ID),
					Path:    path,
				})
			}
		}
		return findings
	})
}

// chainReachesAnchor walks the timing chain with the same bound the
// expander uses.
func chainReachesAnchor(tl *usdm.ScheduleTimeline, instanceID string) bool {
	timing := tl.TimingFrom(instanceID)
	hops := 0
	for timing != nil {
		if timing.IsAnchor() {
			return true
		}
		to := tl.Instance(timing.ToID)
		if to == nil {
			return false
		}
		timing = tl.TimingFrom(to.InstanceID())
		hops++
		if hops > len(tl.Timings) {
			return false
		}
	}
	return false
}

type successorExclusive struct{}

func (successorExclusive) ID() string { return "TL0005" }
func (successorExclusive) Description() string {
	return "Each scheduled activity instance has exactly one of default condition and timeline exit"
}
func (r successorExclusive) Check(study *usdm.Study) []Finding {
	return forEachTimeline(study, func(_ *usdm.StudyDesign, tl *usdm.ScheduleTimeline, path string) []Finding {
		var findings []Finding
		for i := range tl.Activities {
			inst := &tl.Activities[i]
			hasDefault := inst.DefaultConditionID != ""
			hasExit := inst.TimelineExitID != ""
			if hasDefault == hasExit {
				what := "neither"
				if hasDefault {
					what = "both"
				}
				findings = append(findings, Finding{
					RuleID:  r.ID(),
					Level:   LevelError,
					Message: fmt.Sprintf("instance %q has %s of default condition and timeline exit", inst.ID, what),
					Path:    path,
				})
			}
		}
		return findings
	})
}

type activityRefsResolve struct{}

func (activityRefsResolve) ID() string { return "TL0006" }
func (activityRefsResolve) Description() string {
	return "Scheduled activity references resolve against the owning study design"
}
func (r activityRefsResolve) Check(study *usdm.Study) []Finding {
	return forEachTimeline(study, func(design *usdm.StudyDesign, tl *usdm.ScheduleTimeline, path string) []Finding {
		var findings []Finding
		for i := range tl.Activities {
			inst := &tl.Activities[i]
			for _, actID := range inst.ActivityIDs {
				if design.Activity(actID) == nil {
					findings = append(findings, Finding{
						RuleID:  r.ID(),
						Level:   LevelError,
						Message: fmt.Sprintf("instance %q references missing activity %q", inst.ID, actID),
						Path:    path,
					})
				}
			}
		}
		return findings
	})
}

type encounterRefsResolve struct{}

func (encounterRefsResolve) ID() string { return "TL0007" }
func (encounterRefsResolve) Description() string {
	return "Encounter references resolve against the owning study design"
}
func (r encounterRefsResolve) Check(study *usdm.Study) []Finding {
	return forEachTimeline(study, func(design *usdm.StudyDesign, tl *usdm.ScheduleTimeline, path string) []Finding {
		var findings []Finding
		for i := range tl.Activities {
			inst := &tl.Activities[i]
			if inst.EncounterID != "" && design.Encounter(inst.EncounterID) == nil {
				findings = append(findings, Finding{
					RuleID:  r.ID(),
					Level:   LevelWarning,
					Message: fmt.Sprintf("instance %q references missing encounter %q", inst.ID, inst.EncounterID),
					Path:    path,
				})
			}
		}
		return findings
	})
}

package timeline

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/trialmesh/usdm-timeline/internal/diag"
	"github.com/trialmesh/usdm-timeline/internal/ticks"
	"github.com/trialmesh/usdm-timeline/internal/usdm"
)

// Expander walks one schedule timeline depth-first and accumulates the
// resulting Timepoints.
//
// Build one Expander per traversal. The id counter and node list are
// instance state, not shared, and Expand must not be called concurrently
// on the same instance.
type Expander struct {
	design   *usdm.StudyDesign
	timeline *usdm.ScheduleTimeline
	sink     diag.Sink

	nextID int
	nodes  []*Timepoint

	// Instance ids on the active walk stack. A successor link that
	// re-enters an instance still being expanded is a cycle; the walk
	// reports it and stops that branch instead of recursing forever.
	active map[string]bool
}

// NewExpander creates an Expander for one timeline of one study design.
func NewExpander(design *usdm.StudyDesign, tl *usdm.ScheduleTimeline, sink diag.Sink) *Expander {
	return &Expander{
		design:   design,
		timeline: tl,
		sink:     sink,
		nextID:   1,
		active:   make(map[string]bool),
	}
}

// Expand walks the timeline from its entry instance. After the walk the
// node list is stable-sorted by tick, so ties keep discovery order.
// Expand never fails: malformed graphs degrade into diagnostics on the
// sink and a partial node list.
func (e *Expander) Expand() {
	slog.Debug("expanding timeline",
		"timeline", e.timeline.ID,
		"entry", e.timeline.EntryID)

	entry := e.timeline.Instance(e.timeline.EntryID)
	if entry == nil {
		e.sink.Error(fmt.Sprintf("Entry instance %q not found in timeline %q", e.timeline.EntryID, e.timeline.ID), diag.Loc("timeline", "Expand"))
		return
	}
	e.visit(e.timeline, entry, nil, 0)
	sort.SliceStable(e.nodes, func(i, j int) bool {
		return e.nodes[i].Tick() < e.nodes[j].Tick()
	})

	slog.Debug("expansion complete",
		"timeline", e.timeline.ID,
		"nodes", len(e.nodes))
}

// Nodes returns the accumulated timepoints, tick-sorted after Expand.
func (e *Expander) Nodes() []*Timepoint {
	return e.nodes
}

// visit dispatches once over the closed set of node kinds. previous is
// the last Timepoint produced on this branch; offset is the tick baseline
// of the timeline being walked (0 for the main walk, the introducing
// timepoint's tick for a nested one). Returns the branch tip.
func (e *Expander) visit(tl *usdm.ScheduleTimeline, node any, previous *Timepoint, offset int64) *Timepoint {
	switch n := node.(type) {
	case *usdm.ScheduledActivityInstance:
		return e.visitActivity(tl, n, previous, offset)
	case *usdm.ScheduledDecisionInstance:
		return e.visitDecision(tl, n, previous, offset)
	case *usdm.ScheduleTimelineExit:
		return previous
	default:
		e.sink.Error("Unknown instance type detected", diag.Loc("timeline", "visit"))
		return previous
	}
}

// visitActivity creates the Timepoint for an activity instance, expands
// any nested timelines inline, then advances to the instance's successor.
func (e *Expander) visitActivity(tl *usdm.ScheduleTimeline, inst *usdm.ScheduledActivityInstance, previous *Timepoint, offset int64) *Timepoint {
	loc := diag.Loc("timeline", "visitActivity")

	if e.active[inst.ID] {
		e.sink.Error(fmt.Sprintf("Cycle detected at instance %q, stopping this branch", inst.ID), loc)
		return previous
	}
	e.active[inst.ID] = true
	defer delete(e.active, inst.ID)

	tp := NewTimepoint(e.design, tl, inst, e.sink, e.nextID, offset)
	e.nextID++
	e.nodes = append(e.nodes, tp)
	slog.Debug("timepoint created",
		"id", tp.ID(),
		"instance", inst.ID,
		"tick", tp.Tick())
	if previous != nil {
		previous.AddEdge(tp)
	}
	current := tp

	// A sub-timeline on the instance itself splices in before any
	// activity-level ones.
	if inst.TimelineID != "" {
		current = e.expandNested(inst.TimelineID, current)
	}
	for _, sub := range current.ActivityTimelines() {
		current = e.expandNestedTimeline(sub, current)
	}

	switch {
	case inst.DefaultConditionID != "":
		next := tl.Instance(inst.DefaultConditionID)
		if next == nil {
			e.sink.Error(fmt.Sprintf("Next instance %q not found", inst.DefaultConditionID), loc)
			return current
		}
		return e.visit(tl, next, current, offset)
	case inst.TimelineExitID != "":
		exit := tl.Exit(inst.TimelineExitID)
		if exit == nil {
			e.sink.Error(fmt.Sprintf("Exit %q not found", inst.TimelineExitID), loc)
			return current
		}
		return e.visit(tl, exit, current, offset)
	default:
		e.sink.Error("Next instance error", loc)
		return current
	}
}

// expandNested resolves a timeline id and expands it from its entry,
// chained after current. Returns the sub-walk's tail, or current when
// the timeline cannot be expanded.
func (e *Expander) expandNested(timelineID string, current *Timepoint) *Timepoint {
	sub := e.design.Timeline(timelineID)
	if sub == nil {
		e.sink.Error(fmt.Sprintf("Nested timeline %q not found", timelineID), diag.Loc("timeline", "expandNested"))
		return current
	}
	return e.expandNestedTimeline(sub, current)
}

// expandNestedTimeline expands sub from its entry instance, using
// current's tick as the nested walk's baseline so the spliced nodes land
// at absolute positions in the parent schedule.
func (e *Expander) expandNestedTimeline(sub *usdm.ScheduleTimeline, current *Timepoint) *Timepoint {
	entry := sub.Instance(sub.EntryID)
	if entry == nil {
		e.sink.Error(fmt.Sprintf("Entry instance %q not found in timeline %q", sub.EntryID, sub.ID), diag.Loc("timeline", "expandNestedTimeline"))
		return current
	}
	return e.visit(sub, entry, current, current.Tick())
}

// visitDecision selects a successor branch. A single simple day-count
// condition is evaluated against the predecessor's tick; anything else
// falls through to the default branch with a diagnostic. The decision
// itself produces no Timepoint.
func (e *Expander) visitDecision(tl *usdm.ScheduleTimeline, inst *usdm.ScheduledDecisionInstance, previous *Timepoint, offset int64) *Timepoint {
	loc := diag.Loc("timeline", "visitDecision")

	if e.active[inst.ID] {
		e.sink.Error(fmt.Sprintf("Cycle detected at instance %q, stopping this branch", inst.ID), loc)
		return previous
	}
	e.active[inst.ID] = true
	defer delete(e.active, inst.ID)

	if len(inst.Assignments) == 1 {
		assignment := inst.Assignments[0]
		op, days, ok := daysCondition(assignment.Condition, e.sink)
		if ok {
			var prevTick int64
			if previous != nil {
				prevTick = previous.Tick()
			}
			if op.eval(prevTick, days*ticks.Day) {
				return e.follow(tl, assignment.TargetID, previous, offset)
			}
			return e.follow(tl, inst.DefaultConditionID, previous, offset)
		}
		e.sink.Error("No day condition encountered, being ignored", loc)
		return e.follow(tl, inst.DefaultConditionID, previous, offset)
	}

	e.sink.Error("Complex condition encountered, being ignored", loc)
	return e.follow(tl, inst.DefaultConditionID, previous, offset)
}

// follow resolves a successor id against the timeline's instances, then
// its exits, and continues the walk there.
func (e *Expander) follow(tl *usdm.ScheduleTimeline, id string, previous *Timepoint, offset int64) *Timepoint {
	if id == "" {
		e.sink.Error("Next instance error", diag.Loc("timeline", "follow"))
		return previous
	}
	if next := tl.Instance(id); next != nil {
		return e.visit(tl, next, previous, offset)
	}
	if exit := tl.Exit(id); exit != nil {
		return e.visit(tl, exit, previous, offset)
	}
	e.sink.Error(fmt.Sprintf("Next instance %q not found", id), diag.Loc("timeline", "follow"))
	return previous
}

// TimelineSnapshot is the serializable form of one expansion.
type TimelineSnapshot struct {
	Nodes []NodeSnapshot `json:"nodes"`
}

// Snapshot serializes the accumulated node list. Call after Expand.
func (e *Expander) Snapshot() TimelineSnapshot {
	snap := TimelineSnapshot{Nodes: []NodeSnapshot{}}
	for _, tp := range e.nodes {
		snap.Nodes = append(snap.Nodes, tp.Snapshot())
	}
	return snap
}

package timeline

import (
	"fmt"

	"github.com/trialmesh/usdm-timeline/internal/diag"
	"github.com/trialmesh/usdm-timeline/internal/ticks"
	"github.com/trialmesh/usdm-timeline/internal/usdm"
)

// Timepoint is one expanded schedule node: a scheduled activity instance
// together with its resolved tick and its successor edges.
//
// A Timepoint belongs to exactly one Expander run. It is created when
// the walk first reaches its instance and mutated only by AddEdge.
type Timepoint struct {
	design   *usdm.StudyDesign
	timeline *usdm.ScheduleTimeline
	instance *usdm.ScheduledActivityInstance
	sink     diag.Sink
	id       int
	tick     int64
	edges    []string
}

// NewTimepoint wraps an instance and resolves its tick by walking the
// timing chain back to the anchor. offset is the tick of the timepoint
// that introduced this sub-walk; it is 0 for nodes reached through the
// main timeline entry path and is applied once, after the chain resolves.
func NewTimepoint(design *usdm.StudyDesign, tl *usdm.ScheduleTimeline, instance *usdm.ScheduledActivityInstance, sink diag.Sink, id int, offset int64) *Timepoint {
	tp := &Timepoint{
		design:   design,
		timeline: tl,
		instance: instance,
		sink:     sink,
		id:       id,
		edges:    []string{},
	}
	tp.tick = tp.resolveTick(offset)
	return tp
}

// ID returns the expander-assigned node tag, e.g. "TP_1".
func (tp *Timepoint) ID() string {
	return fmt.Sprintf("TP_%d", tp.id)
}

// Tick returns the signed second offset from the chain's anchor.
func (tp *Timepoint) Tick() int64 { return tp.tick }

// Instance returns the wrapped scheduled activity instance.
func (tp *Timepoint) Instance() *usdm.ScheduledActivityInstance { return tp.instance }

// HasActivities reports whether the wrapped instance schedules any
// activities. Nodes without activities still occupy a tick position and
// can be edge endpoints; they are only excluded from activity dumps.
func (tp *Timepoint) HasActivities() bool {
	return len(tp.instance.ActivityIDs) > 0
}

// ActivityTimelines collects the sub-timeline of every activity the
// instance schedules that has one. Two activities sharing a timeline id
// yield two entries; the expander expands each in turn.
func (tp *Timepoint) ActivityTimelines() []*usdm.ScheduleTimeline {
	var out []*usdm.ScheduleTimeline
	for _, actID := range tp.instance.ActivityIDs {
		act := tp.design.Activity(actID)
		if act == nil || act.TimelineID == "" {
			continue
		}
		sub := tp.design.Timeline(act.TimelineID)
		if sub == nil {
			tp.sink.Error(fmt.Sprintf("Activity timeline %q not found", act.TimelineID), diag.Loc("timeline", "ActivityTimelines"))
			continue
		}
		out = append(out, sub)
	}
	return out
}

// AddEdge appends other's id to this node's adjacency list.
func (tp *Timepoint) AddEdge(other *Timepoint) {
	tp.edges = append(tp.edges, other.ID())
}

// resolveTick walks the timing chain from this instance back to its
// anchor, accumulating signed deltas. "before" edges subtract their
// duration, every other non-anchor edge adds it. The walk is bounded by
// the timeline's timing count.
//
// Failure modes degrade rather than raise: a missing first timing edge
// yields the incoming offset; an undecodable duration contributes zero
// seconds for that hop; a chain that breaks or never reaches an anchor
// stops with whatever accumulated so far.
func (tp *Timepoint) resolveTick(offset int64) int64 {
	loc := diag.Loc("timeline", "Timepoint")

	timing := tp.timeline.TimingFrom(tp.instance.ID)
	if timing == nil {
		tp.sink.Error(fmt.Sprintf("No timing found for instance %q", tp.instance.ID), loc)
		return offset
	}

	var tick int64
	hops := 0
	for !timing.IsAnchor() {
		delta, err := ticks.FromDuration(timing.Value)
		if err != nil {
			tp.sink.Exception(fmt.Sprintf("Cannot decode timing value %q", timing.Value), err, loc)
			delta = 0
		}
		if timing.IsBefore() {
			tick -= delta
		} else {
			tick += delta
		}

		to := tp.timeline.Instance(timing.ToID)
		if to == nil {
			tp.sink.Error(fmt.Sprintf("Timing %q references missing instance %q", timing.ID, timing.ToID), loc)
			break
		}
		next := tp.timeline.TimingFrom(to.InstanceID())
		if next == nil {
			tp.sink.Error(fmt.Sprintf("No timing found for instance %q", to.InstanceID()), loc)
			break
		}
		timing = next

		hops++
		if hops > len(tp.timeline.Timings) {
			tp.sink.Error(fmt.Sprintf("Timing chain from instance %q never reaches an anchor", tp.instance.ID), loc)
			tick = ticks.FromTicks(0)
			break
		}
	}

	return tick + offset
}

// NodeSnapshot is the serializable form of one Timepoint.
type NodeSnapshot struct {
	ID         string             `json:"id"`
	Tick       int64              `json:"tick"`
	Time       string             `json:"time"`
	Label      string             `json:"label"`
	Encounter  *string            `json:"encounter"`
	Activities ActivitiesSnapshot `json:"activities"`
	Edges      []string           `json:"edges"`
}

// ActivitiesSnapshot is the activity block of a node snapshot. Ordered is
// always false: the model does not sequence activities within a node.
type ActivitiesSnapshot struct {
	Ordered bool               `json:"ordered"`
	Items   []ActivitySnapshot `json:"items"`
}

// ActivitySnapshot is one resolved activity within a node snapshot.
type ActivitySnapshot struct {
	Label      string   `json:"label"`
	Procedures []string `json:"procedures"`
	Parent     *string  `json:"parent"`
}

// Snapshot produces the serializable view of this node. Activity ids
// that resolve to nothing are skipped; an instance without an encounter
// serializes a null encounter.
func (tp *Timepoint) Snapshot() NodeSnapshot {
	snap := NodeSnapshot{
		ID:         tp.ID(),
		Tick:       tp.tick,
		Time:       renderTime(tp.tick),
		Label:      tp.instance.Label,
		Activities: ActivitiesSnapshot{Ordered: false, Items: []ActivitySnapshot{}},
		Edges:      append([]string{}, tp.edges...),
	}

	if tp.instance.EncounterID != "" {
		if enc := tp.design.Encounter(tp.instance.EncounterID); enc != nil {
			label := enc.Label
			snap.Encounter = &label
		}
	}

	for _, actID := range tp.instance.ActivityIDs {
		act := tp.design.Activity(actID)
		if act == nil {
			continue
		}
		item := ActivitySnapshot{
			Label:      act.Label,
			Procedures: []string{},
		}
		for _, proc := range act.Procedures {
			item.Procedures = append(item.Procedures, proc.Label)
		}
		if act.ParentID != "" {
			if parent := tp.design.Activity(act.ParentID); parent != nil {
				label := parent.Label
				item.Parent = &label
			}
		}
		snap.Activities.Items = append(snap.Activities.Items, item)
	}

	return snap
}

// renderTime renders a tick as a human phrase, signing negative offsets.
func renderTime(t int64) string {
	if t < 0 {
		return "-" + ticks.String(-t)
	}
	return ticks.String(t)
}

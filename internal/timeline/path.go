package timeline

import (
	"fmt"

	"github.com/trialmesh/usdm-timeline/internal/diag"
)

// Decision marks the point where a walk passed through a decision
// instance. Recorded for diagnostics only; a Path does not retain it.
type Decision struct {
	InstanceID string
}

// Exit marks the terminal edge of a linear path.
type Exit struct {
	ExitID string
}

// Path assembles one strictly linear walk through a timeline for
// consumers that want a single branch rather than the full graph: an
// ordered timepoint sequence plus at most one terminal exit marker.
type Path struct {
	sink       diag.Sink
	timepoints []*Timepoint
	end        *Exit
}

// NewPath creates an empty Path reporting to sink.
func NewPath(sink diag.Sink) *Path {
	return &Path{sink: sink}
}

// Add appends an item to the path. Timepoints extend the sequence; an
// Exit becomes the terminal marker, replacing any previous one; a
// Decision is logged and dropped. Anything else is reported as an error.
func (p *Path) Add(item any) {
	switch v := item.(type) {
	case *Timepoint:
		p.timepoints = append(p.timepoints, v)
	case Decision:
		p.sink.Info(fmt.Sprintf("Decision %q on path", v.InstanceID))
	case Exit:
		p.end = &v
	default:
		p.sink.Error(fmt.Sprintf("Cannot add %T to path", item), diag.Loc("timeline", "Path"))
	}
}

// Timepoints returns the ordered sequence accumulated so far.
func (p *Path) Timepoints() []*Timepoint {
	return p.timepoints
}

// PathSnapshot is the serializable form of a Path. Decision is always
// null: decisions are not retained structurally, the field exists for
// output-shape compatibility with downstream consumers.
type PathSnapshot struct {
	Timepoints []NodeSnapshot `json:"timepoints"`
	EndMarker  *string        `json:"end_marker"`
	Decision   any            `json:"decision"`
}

// Snapshot serializes the path.
func (p *Path) Snapshot() PathSnapshot {
	snap := PathSnapshot{Timepoints: []NodeSnapshot{}}
	for _, tp := range p.timepoints {
		snap.Timepoints = append(snap.Timepoints, tp.Snapshot())
	}
	if p.end != nil {
		id := p.end.ExitID
		snap.EndMarker = &id
	}
	return snap
}

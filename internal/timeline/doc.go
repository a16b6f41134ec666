// Package timeline expands a schedule timeline graph into a flat,
// tick-ordered list of timepoints.
//
// ARCHITECTURE:
//
// The Expander performs a depth-first walk from a timeline's entry
// instance. Every scheduled activity instance it reaches becomes a
// Timepoint; decision instances select one successor branch via a
// free-text day-count condition and produce no node of their own;
// timeline exits terminate a branch. Nested timelines, reachable through
// an instance's own sub-timeline reference or through the activities it
// schedules, are expanded inline and spliced into the parent walk.
//
// Each Timepoint computes its own temporal offset ("tick", signed
// seconds) by walking the chain of relative timing edges back to the
// chain's anchor. The walk is bounded by the timeline's timing count, so
// a chain that never reaches an anchor terminates with a diagnostic
// instead of looping.
//
// DEGRADED-MODE CONTRACT:
//
// Expansion never fails hard. Malformed durations, missing references,
// unparseable conditions, and cyclic successor links are all reported to
// the diag.Sink and the walk continues or stops on that branch. Callers
// check the sink's error count after Expand(); a non-zero count means
// the produced graph may be incomplete.
//
// The walk is single-threaded and pure: inputs are treated as immutable,
// and an Expander instance is built per traversal, never shared.
package timeline

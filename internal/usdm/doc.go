// Package usdm defines the subset of the clinical-study data model that
// the timeline expander, reference resolver, and rules engine read.
//
// The upstream model is several hundred generated classes; this package
// carries only the records and fields those subsystems consume, as plain
// read-only structs. Nothing here mutates after loading: a Study and
// everything reachable from it is treated as immutable for the duration
// of any expansion or validation pass.
//
// Scheduled instances form a closed union: exactly
// ScheduledActivityInstance, ScheduledDecisionInstance, and nothing else
// implements ScheduledInstance. Consumers dispatch with a single type
// switch rather than runtime type inspection scattered through the code.
package usdm

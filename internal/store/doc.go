// Package store persists expansion runs for downstream diffing.
//
// Each call to the expander can be captured as a run: the tick-sorted
// node snapshots plus every diagnostic the walk produced. Runs are
// immutable once written; comparing two runs of the same timeline across
// protocol versions is the intended use.
//
// SQLite with WAL mode; a single writer, concurrent readers.
package store

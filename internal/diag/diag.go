// Package diag collects structured diagnostics from graph traversal and
// validation.
//
// The expander and its collaborators never fail hard on malformed input;
// every recoverable problem is reported through a Sink and the traversal
// degrades gracefully. Callers inspect the sink after the fact: a
// non-zero error count means the produced graph may be structurally
// incomplete.
package diag

import (
	"fmt"
	"sync"
)

// Level classifies a diagnostic record.
type Level string

const (
	LevelInfo      Level = "info"
	LevelWarning   Level = "warning"
	LevelError     Level = "error"
	LevelException Level = "exception"
)

// Location is an opaque module+method tag attached to diagnostics. It is
// used for reporting only, never for behavior.
type Location struct {
	Module string `json:"module"`
	Method string `json:"method"`
}

// Loc builds a Location.
func Loc(module, method string) Location {
	return Location{Module: module, Method: method}
}

// String implements fmt.Stringer.
func (l Location) String() string {
	if l.Module == "" && l.Method == "" {
		return ""
	}
	return l.Module + "." + l.Method
}

// Record is one collected diagnostic.
type Record struct {
	Level    Level    `json:"level"`
	Message  string   `json:"message"`
	Location Location `json:"location,omitempty"`
	Cause    string   `json:"cause,omitempty"`
}

// Sink receives diagnostics. Implementations must not fail: reporting a
// problem can never create a new one. Exception reports carry the
// underlying error alongside the message.
type Sink interface {
	Info(msg string)
	Warning(msg string, loc Location)
	Error(msg string, loc Location)
	Exception(msg string, err error, loc Location)
}

// Collector is the standard Sink: an append-only, level-counting record
// list. Safe for concurrent use, although one expansion never reports
// from more than one goroutine.
type Collector struct {
	mu      sync.Mutex
	records []Record
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Info records an informational message.
func (c *Collector) Info(msg string) {
	c.append(Record{Level: LevelInfo, Message: msg})
}

// Warning records a warning at the given location.
func (c *Collector) Warning(msg string, loc Location) {
	c.append(Record{Level: LevelWarning, Message: msg, Location: loc})
}

// Error records an error at the given location.
func (c *Collector) Error(msg string, loc Location) {
	c.append(Record{Level: LevelError, Message: msg, Location: loc})
}

// Exception records an error with its underlying cause.
func (c *Collector) Exception(msg string, err error, loc Location) {
	rec := Record{Level: LevelException, Message: msg, Location: loc}
	if err != nil {
		rec.Cause = err.Error()
	}
	c.append(rec)
}

func (c *Collector) append(r Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
}

// Records returns a copy of the collected diagnostics in report order.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Count returns the number of records at the given level.
func (c *Collector) Count(level Level) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

// ErrorCount returns the number of error and exception records. This is
// the figure callers check after an expansion or validation pass.
func (c *Collector) ErrorCount() int {
	return c.Count(LevelError) + c.Count(LevelException)
}

// Dump renders the collected records one per line, for text output.
func (c *Collector) Dump() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out string
	for _, r := range c.records {
		line := fmt.Sprintf("[%s] %s", r.Level, r.Message)
		if loc := r.Location.String(); loc != "" {
			line += " (" + loc + ")"
		}
		if r.Cause != "" {
			line += ": " + r.Cause
		}
		out += line + "\n"
	}
	return out
}

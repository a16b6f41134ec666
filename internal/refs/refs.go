// Package refs rewrites embedded usdm markup inside narrative text.
//
// Narrative fields reference other model instances with
// <usdm:ref klass="Activity" id="A1" attribute="label"/> and dictionary
// parameters with <usdm:tag name="dose"/>. Resolution is recursive: a
// substituted value may itself contain markup. Depth is bounded so
// self-referential content terminates with a diagnostic instead of
// looping.
package refs

import (
	"fmt"
	"regexp"

	"golang.org/x/text/unicode/norm"

	"github.com/trialmesh/usdm-timeline/internal/diag"
	"github.com/trialmesh/usdm-timeline/internal/usdm"
)

// MaxDepth bounds recursive substitution.
const MaxDepth = 10

// NodeResolver looks an instance attribute up by class, id, and
// attribute name. The second return is false when any of the three does
// not resolve.
type NodeResolver interface {
	Resolve(klass, id, attribute string) (string, bool)
}

var (
	refRE  = regexp.MustCompile(`<usdm:ref\s+([^<>]*?)/?>`)
	tagRE  = regexp.MustCompile(`<usdm:tag\s+([^<>]*?)/?>`)
	attrRE = regexp.MustCompile(`(\w+)\s*=\s*"([^"]*)"`)
)

// Resolver rewrites markup against a node resolver and a dictionary of
// named parameters.
type Resolver struct {
	nodes NodeResolver
	dict  map[string]string
	sink  diag.Sink
}

// New creates a Resolver. dict may be nil when the study carries no
// dictionary parameters.
func New(nodes NodeResolver, dict map[string]string, sink diag.Sink) *Resolver {
	return &Resolver{nodes: nodes, dict: dict, sink: sink}
}

// Resolve rewrites all markup in text, recursively. Unresolvable refs
// are left in place and reported; the method never fails.
func (r *Resolver) Resolve(text string) string {
	return r.resolve(norm.NFC.String(text), 0)
}

func (r *Resolver) resolve(text string, depth int) string {
	if depth >= MaxDepth {
		r.sink.Error("Reference nesting too deep, remaining markup left unresolved", diag.Loc("refs", "Resolve"))
		return text
	}

	changed := false
	out := refRE.ReplaceAllStringFunc(text, func(match string) string {
		attrs := parseAttrs(match)
		klass, id, attribute := attrs["klass"], attrs["id"], attrs["attribute"]
		if klass == "" || id == "" || attribute == "" {
			r.sink.Error(fmt.Sprintf("Malformed ref %q", match), diag.Loc("refs", "Resolve"))
			return match
		}
		value, ok := r.nodes.Resolve(klass, id, attribute)
		if !ok {
			r.sink.Error(fmt.Sprintf("Cannot resolve %s %q attribute %q", klass, id, attribute), diag.Loc("refs", "Resolve"))
			return match
		}
		changed = true
		return value
	})

	out = tagRE.ReplaceAllStringFunc(out, func(match string) string {
		name := parseAttrs(match)["name"]
		if name == "" {
			r.sink.Error(fmt.Sprintf("Malformed tag %q", match), diag.Loc("refs", "Resolve"))
			return match
		}
		value, ok := r.dict[name]
		if !ok {
			r.sink.Error(fmt.Sprintf("Cannot resolve dictionary parameter %q", name), diag.Loc("refs", "Resolve"))
			return match
		}
		changed = true
		return value
	})

	if changed {
		return r.resolve(out, depth+1)
	}
	return out
}

func parseAttrs(tag string) map[string]string {
	attrs := map[string]string{}
	for _, m := range attrRE.FindAllStringSubmatch(tag, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

// DesignResolver resolves refs against one study design. Supported
// classes are Activity, Encounter, and ScheduleTimeline; supported
// attributes are id, name, and label where the record has them.
type DesignResolver struct {
	Design *usdm.StudyDesign
}

// Resolve implements NodeResolver.
func (d DesignResolver) Resolve(klass, id, attribute string) (string, bool) {
	switch klass {
	case "Activity":
		if act := d.Design.Activity(id); act != nil {
			switch attribute {
			case "id":
				return act.ID, true
			case "label":
				return act.Label, true
			}
		}
	case "Encounter":
		if enc := d.Design.Encounter(id); enc != nil {
			switch attribute {
			case "id":
				return enc.ID, true
			case "label":
				return enc.Label, true
			}
		}
	case "ScheduleTimeline":
		if tl := d.Design.Timeline(id); tl != nil {
			switch attribute {
			case "id":
				return tl.ID, true
			case "name":
				return tl.Name, true
			}
		}
	}
	return "", false
}

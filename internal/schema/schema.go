// Package schema validates raw study definition documents against the
// embedded CUE schema before they are decoded into model records.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed study.cue
var studyCUE string

// Issue is one schema violation.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String implements fmt.Stringer.
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Validate unifies a decoded study document with the #Study definition
// and returns every violation found. A nil return means the document is
// schema-valid.
func Validate(doc map[string]any) []Issue {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(studyCUE, cue.Filename("study.cue"))
	if err := schemaVal.Err(); err != nil {
		return []Issue{{Message: fmt.Sprintf("internal schema error: %v", err)}}
	}

	def := schemaVal.LookupPath(cue.ParsePath("#Study"))
	if !def.Exists() {
		return []Issue{{Message: "internal schema error: #Study definition missing"}}
	}

	// Concrete validation: a required field the document omits stays a
	// bare type after unification and is reported as incomplete.
	unified := def.Unify(ctx.Encode(doc))
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var issues []Issue
	for _, e := range cueerrors.Errors(err) {
		issues = append(issues, Issue{
			Path:    strings.Join(e.Path(), "."),
			Message: e.Error(),
		})
	}
	return issues
}

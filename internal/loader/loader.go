// Package loader reads study definition files into model records.
//
// Files are YAML; JSON documents load through the same path since YAML
// is a superset. Schema validation is a separate, optional step so the
// CLI can report violations without refusing to decode.
package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trialmesh/usdm-timeline/internal/schema"
	"github.com/trialmesh/usdm-timeline/internal/usdm"
)

// Load error codes.
const (
	ErrCodeNotFound = "L001" // file missing or unreadable
	ErrCodeDecode   = "L002" // document does not decode
	ErrCodeEmpty    = "L003" // study has no designs
)

// LoadError reports a failure to load a study definition file.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }

// Load reads and decodes a study definition file.
func Load(path string) (*usdm.Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "cannot read study file", Err: err}
	}
	var study usdm.Study
	if err := yaml.Unmarshal(data, &study); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Path: path, Message: "cannot decode study file", Err: err}
	}
	return &study, nil
}

// LoadDocument reads a study definition file as a raw document for
// schema validation.
func LoadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "cannot read study file", Err: err}
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Path: path, Message: "cannot decode study file", Err: err}
	}
	return doc, nil
}

// ValidateFile validates a study definition file against the embedded
// schema. The error return covers read/decode failures only; schema
// violations come back as issues.
func ValidateFile(path string) ([]schema.Issue, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return schema.Validate(doc), nil
}

// PrimaryDesign returns the first study design of the first version.
// Study definitions produced by the upstream builder always carry at
// least one of each; hand-written files may not.
func PrimaryDesign(study *usdm.Study) (*usdm.StudyDesign, error) {
	for vi := range study.Versions {
		designs := study.Versions[vi].StudyDesigns
		if len(designs) > 0 {
			return &designs[0], nil
		}
	}
	return nil, &LoadError{Code: ErrCodeEmpty, Path: study.ID, Message: "study has no designs"}
}

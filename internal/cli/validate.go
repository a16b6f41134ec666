package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trialmesh/usdm-timeline/internal/loader"
	"github.com/trialmesh/usdm-timeline/internal/rules"
	"github.com/trialmesh/usdm-timeline/internal/schema"
)

// ValidationResult holds schema and rule outcomes for one study file.
type ValidationResult struct {
	Valid        bool           `json:"valid"`
	SchemaIssues []schema.Issue `json:"schemaIssues,omitempty"`
	Report       *rules.Report  `json:"report,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var schemaOnly bool

	cmd := &cobra.Command{
		Use:   "validate <study-file>",
		Short: "Validate a study file against the schema and rule library",
		Long: `Validate checks a study definition file in two passes: the document
shape against the embedded schema, then the decoded study against the
structural rule library. Rule execution is skipped when the document
does not match the schema.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, args[0], schemaOnly)
		},
	}

	cmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "skip the rule library")

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command, studyPath string, schemaOnly bool) error {
	f := formatter(opts, cmd)

	issues, err := loader.ValidateFile(studyPath)
	if err != nil {
		return f.Fail(ExitCommandError, "E_LOAD", err.Error())
	}
	if len(issues) > 0 {
		result := ValidationResult{Valid: false, SchemaIssues: issues}
		if jsonErr := f.OK(renderValidateText(result), result); jsonErr != nil {
			return jsonErr
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d schema issue(s)", len(issues)))
	}
	f.VerboseLog("Schema valid: %s", studyPath)

	if schemaOnly {
		return f.OK(renderValidateText(ValidationResult{Valid: true}), ValidationResult{Valid: true})
	}

	study, err := loader.Load(studyPath)
	if err != nil {
		return f.Fail(ExitCommandError, "E_LOAD", err.Error())
	}
	report := rules.DefaultRegistry().Run(study)
	result := ValidationResult{Valid: report.Errors == 0, Report: &report}

	if err := f.OK(renderValidateText(result), result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d rule error(s)", report.Errors))
	}
	return nil
}

func renderValidateText(result ValidationResult) string {
	var b strings.Builder
	if len(result.SchemaIssues) > 0 {
		fmt.Fprintf(&b, "schema: %d issue(s)", len(result.SchemaIssues))
		for _, issue := range result.SchemaIssues {
			fmt.Fprintf(&b, "\n  %s", issue)
		}
		return b.String()
	}
	b.WriteString("schema: ok")
	if result.Report == nil {
		return b.String()
	}
	fmt.Fprintf(&b, "\nrules: %d error(s)", result.Report.Errors)
	for _, rr := range result.Report.Results {
		if rr.Passed {
			continue
		}
		for _, finding := range rr.Findings {
			fmt.Fprintf(&b, "\n  [%s] %s: %s", finding.RuleID, finding.Level, finding.Message)
		}
	}
	return b.String()
}

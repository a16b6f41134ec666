package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trialmesh/usdm-timeline/internal/diag"
	"github.com/trialmesh/usdm-timeline/internal/refs"
)

// ResolveResult is the payload of a successful resolve command.
type ResolveResult struct {
	Text        string        `json:"text"`
	Diagnostics []diag.Record `json:"diagnostics"`
	ErrorCount  int           `json:"errorCount"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	var textFile string

	cmd := &cobra.Command{
		Use:   "resolve <study-file> [text]",
		Short: "Rewrite usdm markup in narrative text against a study",
		Long: `Resolve substitutes <usdm:ref .../> markup in the given text with the
referenced attribute values from the study's primary design. Text is
taken from the argument, from --file, or from stdin.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, cmd, args, textFile)
		},
	}

	cmd.Flags().StringVar(&textFile, "file", "", "read the narrative text from this file")

	return cmd
}

func runResolve(opts *RootOptions, cmd *cobra.Command, args []string, textFile string) error {
	f := formatter(opts, cmd)

	_, design, err := loadDesign(f, args[0])
	if err != nil {
		return err
	}

	text, err := resolveInput(cmd, args, textFile)
	if err != nil {
		return f.Fail(ExitCommandError, "E_INPUT", err.Error())
	}

	sink := diag.NewCollector()
	resolver := refs.New(refs.DesignResolver{Design: design}, nil, sink)
	resolved := resolver.Resolve(text)

	result := ResolveResult{
		Text:        resolved,
		Diagnostics: sink.Records(),
		ErrorCount:  sink.ErrorCount(),
	}
	if err := f.OK(resolved, result); err != nil {
		return err
	}
	if result.ErrorCount > 0 {
		return NewExitError(ExitFailure, "unresolved references")
	}
	return nil
}

// resolveInput picks the narrative text source: positional argument,
// --file, then stdin.
func resolveInput(cmd *cobra.Command, args []string, textFile string) (string, error) {
	if len(args) == 2 {
		return args[1], nil
	}
	if textFile != "" {
		data, err := os.ReadFile(textFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trialmesh/usdm-timeline/internal/store"
)

// NewRunsCommand creates the runs command, which lists persisted
// expansion runs.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	var timelineID string

	cmd := &cobra.Command{
		Use:           "runs <db> <study-id>",
		Short:         "List persisted expansion runs",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(rootOpts, cmd, args[0], args[1], timelineID)
		},
	}

	cmd.Flags().StringVar(&timelineID, "timeline", "", "filter runs to this timeline id")

	return cmd
}

func runRuns(opts *RootOptions, cmd *cobra.Command, dbPath, studyID, timelineID string) error {
	f := formatter(opts, cmd)

	s, err := store.Open(dbPath)
	if err != nil {
		return f.Fail(ExitCommandError, "E_DB", err.Error())
	}
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context(), studyID, timelineID)
	if err != nil {
		return f.Fail(ExitCommandError, "E_DB", err.Error())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d run(s)", len(runs))
	for _, run := range runs {
		fmt.Fprintf(&b, "\n%s  %s  %s  nodes=%d errors=%d", run.ID, run.CreatedAt, run.TimelineID, run.NodeCount, run.ErrorCount)
	}
	return f.OK(b.String(), runs)
}

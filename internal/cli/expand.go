package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trialmesh/usdm-timeline/internal/diag"
	"github.com/trialmesh/usdm-timeline/internal/loader"
	"github.com/trialmesh/usdm-timeline/internal/store"
	"github.com/trialmesh/usdm-timeline/internal/timeline"
	"github.com/trialmesh/usdm-timeline/internal/usdm"
)

// ExpandResult is the payload of a successful expand command.
type ExpandResult struct {
	StudyID     string                    `json:"studyId"`
	TimelineID  string                    `json:"timelineId"`
	RunID       string                    `json:"runId,omitempty"`
	Timeline    timeline.TimelineSnapshot `json:"timeline"`
	Diagnostics []diag.Record             `json:"diagnostics"`
	ErrorCount  int                       `json:"errorCount"`
}

// NewExpandCommand creates the expand command.
func NewExpandCommand(rootOpts *RootOptions) *cobra.Command {
	var timelineID string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "expand <study-file>",
		Short: "Expand a schedule timeline into tick-ordered timepoints",
		Long: `Expand walks a schedule timeline graph from its entry instance and
prints every reached timepoint with its absolute tick offset.

Malformed graphs do not abort the expansion; problems are reported as
diagnostics alongside a partial result.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(rootOpts, cmd, args[0], timelineID, dbPath)
		},
	}

	cmd.Flags().StringVar(&timelineID, "timeline", "", "timeline id to expand (default: the main timeline)")
	cmd.Flags().StringVar(&dbPath, "db", "", "persist the run to this SQLite database")

	return cmd
}

func runExpand(opts *RootOptions, cmd *cobra.Command, studyPath, timelineID, dbPath string) error {
	f := formatter(opts, cmd)

	study, design, err := loadDesign(f, studyPath)
	if err != nil {
		return err
	}
	tl, err := pickTimeline(f, design, timelineID)
	if err != nil {
		return err
	}
	f.VerboseLog("Expanding timeline %s of study %s", tl.ID, study.ID)

	sink := diag.NewCollector()
	expander := timeline.NewExpander(design, tl, sink)
	expander.Expand()

	result := ExpandResult{
		StudyID:     study.ID,
		TimelineID:  tl.ID,
		Timeline:    expander.Snapshot(),
		Diagnostics: sink.Records(),
		ErrorCount:  sink.ErrorCount(),
	}

	if dbPath != "" {
		s, err := store.Open(dbPath)
		if err != nil {
			return f.Fail(ExitCommandError, "E_DB", err.Error())
		}
		defer s.Close()
		runID, err := s.WriteRun(cmd.Context(), study.ID, tl.ID, result.Timeline, result.Diagnostics)
		if err != nil {
			return f.Fail(ExitCommandError, "E_DB", err.Error())
		}
		result.RunID = runID
		f.VerboseLog("Persisted run %s", runID)
	}

	return f.OK(renderExpandText(result), result)
}

func renderExpandText(result ExpandResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "timeline %s: %d timepoints, %d errors", result.TimelineID, len(result.Timeline.Nodes), result.ErrorCount)
	for _, node := range result.Timeline.Nodes {
		time := node.Time
		if time == "" {
			time = "start"
		}
		fmt.Fprintf(&b, "\n%-6s %12d  %-14s %s", node.ID, node.Tick, time, node.Label)
		if node.Encounter != nil {
			fmt.Fprintf(&b, " (%s)", *node.Encounter)
		}
	}
	if result.RunID != "" {
		fmt.Fprintf(&b, "\nrun: %s", result.RunID)
	}
	return b.String()
}

// loadDesign loads a study file and picks its primary design, mapping
// failures to command errors.
func loadDesign(f *OutputFormatter, path string) (*usdm.Study, *usdm.StudyDesign, error) {
	study, err := loader.Load(path)
	if err != nil {
		return nil, nil, f.Fail(ExitCommandError, "E_LOAD", err.Error())
	}
	design, err := loader.PrimaryDesign(study)
	if err != nil {
		return nil, nil, f.Fail(ExitCommandError, "E_LOAD", err.Error())
	}
	return study, design, nil
}

// pickTimeline resolves the requested timeline, defaulting to the main
// one, then to the design's first.
func pickTimeline(f *OutputFormatter, design *usdm.StudyDesign, timelineID string) (*usdm.ScheduleTimeline, error) {
	if timelineID != "" {
		tl := design.Timeline(timelineID)
		if tl == nil {
			return nil, f.Fail(ExitCommandError, "E_TIMELINE", fmt.Sprintf("timeline %q not found", timelineID))
		}
		return tl, nil
	}
	if tl := design.MainTimeline(); tl != nil {
		return tl, nil
	}
	if len(design.Timelines) > 0 {
		return &design.Timelines[0], nil
	}
	return nil, f.Fail(ExitCommandError, "E_TIMELINE", "study design has no timelines")
}

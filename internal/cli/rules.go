package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trialmesh/usdm-timeline/internal/rules"
)

// RuleInfo describes one registered rule.
type RuleInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// NewRulesCommand creates the rules command, which lists the rule
// catalogue.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rules",
		Short:         "List the structural rule library",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatter(rootOpts, cmd)

			var infos []RuleInfo
			for _, rule := range rules.DefaultRegistry().Rules() {
				infos = append(infos, RuleInfo{ID: rule.ID(), Description: rule.Description()})
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%d rule(s)", len(infos))
			for _, info := range infos {
				fmt.Fprintf(&b, "\n%s  %s", info.ID, info.Description)
			}
			return f.OK(b.String(), infos)
		},
	}
}

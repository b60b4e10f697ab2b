package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wfmake/utils/config"
	"wfmake/utils/workflow"
)

var checkCmd = &cobra.Command{
	Use:   "check <workflow.json>...",
	Short: "Analyze workflow files for structural issues",
	Long: `Check inspects generated (or hand-edited) workflow files and reports
nodes left unpinned and nodes whose position or size attributes are
malformed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			g, err := workflow.LoadFile(path)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(path)
			printReport(g.Check())
		}
		return nil
	},
}

func printReport(report workflow.CheckReport) {
	if len(report.Unpinned) == 0 {
		config.Message("All nodes are pinned")
	} else {
		config.Warning("Found %d unpinned nodes:", len(report.Unpinned))
		for _, n := range report.Unpinned {
			fmt.Printf("       (%4.0f,%4.0f) %s\n", n.X, n.Y, n.Name)
		}
	}
	if report.PosIssues > 0 {
		config.Warning("Potential issues with 'pos' attribute : %d", report.PosIssues)
	}
	if report.SizeIssues > 0 {
		config.Warning("Potential issues with 'size' attribute: %d", report.SizeIssues)
	}
}

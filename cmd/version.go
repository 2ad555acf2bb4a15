package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/spigell/roommate-matcher/internal/ranking"
	"github.com/spigell/roommate-matcher/internal/scoring"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the matching defaults it was built with",
	Run: func(cmd *cobra.Command, _ []string) {
		short, _ := cmd.Flags().GetBool("short")
		fmt.Fprint(cmd.OutOrStdout(), versionText(short))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolP("short", "s", false, "print only the version number")
}

func versionText(short bool) string {
	if short {
		return version + "\n"
	}
	return fmt.Sprintf("%s version: %s\ngo: %s\ndefault budget rule: %s\ndefault top-k: %d\n",
		app, version, runtime.Version(), scoring.BudgetAuto, ranking.DefaultTopK)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build-time variables, injected via ldflags:
//
//	go build -ldflags "-X github.com/toyinlola/mjop/cmd.Version=1.0.0
//	  -X github.com/toyinlola/mjop/cmd.Commit=$(git rev-parse --short HEAD)
//	  -X github.com/toyinlola/mjop/cmd.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mjop %s\n", Version)
		fmt.Fprintf(out, "  commit:   %s\n", Commit)
		fmt.Fprintf(out, "  built:    %s\n", BuildDate)
		fmt.Fprintf(out, "  snapshot: v%s\n", snapshotVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Package cmd implements the mjop CLI commands using Cobra.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyinlola/mjop/pkg/cli"
)

var (
	cfgFile string
	verbose bool
	format  string
	output  string

	// appConfig is loaded before any command runs.
	appConfig *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "mjop",
	Short: "NEN 2767 defect and condition assessment engine",
	Long: `mjop scores building elements on the NEN 2767 condition scale.

It keeps a per-element catalog of defect types, records defect observations
in inspection reports and derives a condition score (1 excellent .. 6 very
poor) for every report, either from its defects or from the element's age.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		if format == "" {
			format = cfg.Output.Format
		}
		return setupLogging(verbose || cfg.Output.Verbose)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns any error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: .mjop.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format (terminal|json|markdown), default from config")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "write output to file instead of stdout")
}

func setupLogging(debug bool) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}

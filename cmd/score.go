package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

// ErrThresholdExceeded is returned when an assessment breaches fail_on.
var ErrThresholdExceeded = errors.New("condition threshold exceeded")

var (
	scoreWrite bool
	scoreSave  bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <snapshot|glob>...",
	Short: "Rescore snapshots and print a condition assessment",
	Long: `Score recomputes every inspection report of the given snapshots and
prints a condition assessment per snapshot.

Arguments may be doublestar globs:
  mjop score 'surveys/**/*.json'

The command fails when the worst element rating breaches scoring.fail_on.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreWrite, "write", false, "write rescored snapshots back to their files")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "record snapshots in history and the remote save endpoint")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := appConfig

	paths, err := expandPaths(args)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}

	w, closeOut, err := openOutput(cmd)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	defer closeOut()

	f := selectFormatter(format)
	gen := newGenerator(cfg)
	failed := 0

	for _, path := range paths {
		slog.Info("scoring snapshot", "path", path)

		session, err := openSession(cfg, path)
		if err != nil {
			return fmt.Errorf("score: %w", err)
		}
		snap := session.Snapshot()

		if scoreWrite {
			if err := writeSnapshot(path, snap); err != nil {
				return fmt.Errorf("score: %w", err)
			}
		}
		if scoreSave {
			if err := persist(ctx, cfg, session); err != nil {
				return fmt.Errorf("score: %w", err)
			}
		}

		rpt := gen.Generate(snap)
		if err := f.Format(w, rpt); err != nil {
			return fmt.Errorf("score: writing report: %w", err)
		}
		if failsOn(rpt.Rating, cfg.Scoring.FailOn) {
			slog.Warn("condition threshold exceeded", "path", path, "worst", rpt.Worst, "rating", rpt.Rating)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("score: %d of %d snapshots rated at or above %s: %w",
			failed, len(paths), cfg.Scoring.FailOn, ErrThresholdExceeded)
	}
	return nil
}

// expandPaths resolves doublestar globs. Arguments without glob
// metacharacters are kept as they are so missing files surface as read errors.
func expandPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			if hasMeta(arg) {
				return nil, fmt.Errorf("pattern %q matched no files", arg)
			}
			matches = []string{arg}
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

func hasMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyinlola/mjop/pkg/state"
)

var (
	applyOut    string
	applySave   bool
	applyDryRun bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <snapshot> <actions.json|->",
	Short: "Apply a batch of edit actions to a snapshot",
	Long: `Apply reads a JSON array of actions and applies them to the snapshot as one
atomic batch. Affected reports are rescored; if any action is rejected the
snapshot is left untouched.

  [{"type": "add_defect_instance", "report_id": "r1", "category": "wood rot", "severity": "serious"},
   {"type": "edit_defect_instance", "report_id": "r1", "instance_id": "...", "field": "intensity", "value": 2}]

Use "-" to read actions from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyOut, "out", "", "write the result here instead of over the input snapshot")
	applyCmd.Flags().BoolVar(&applySave, "save", false, "record the result in history and the remote save endpoint")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "print the assessment without writing anything")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := appConfig
	snapPath, actionsPath := args[0], args[1]

	actions, err := readActions(cmd.InOrStdin(), actionsPath)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}

	session, err := openSession(cfg, snapPath)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	if err := session.Dispatch(actions...); err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	slog.Info("actions applied", "count", len(actions), "snapshot", snapPath)

	snap := session.Snapshot()
	if !applyDryRun {
		dest := snapPath
		if applyOut != "" {
			dest = applyOut
		}
		if err := writeSnapshot(dest, snap); err != nil {
			return fmt.Errorf("apply: %w", err)
		}
		if applySave {
			if err := persist(ctx, cfg, session); err != nil {
				return fmt.Errorf("apply: %w", err)
			}
		}
	}

	w, closeOut, err := openOutput(cmd)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	defer closeOut()
	return selectFormatter(format).Format(w, newGenerator(cfg).Generate(snap))
}

func readActions(stdin io.Reader, path string) ([]state.Action, error) {
	if path == "-" {
		return state.DecodeActions(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading actions: %w", err)
	}
	defer f.Close()
	return state.DecodeActions(f)
}

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/toyinlola/mjop/pkg/catalog"
	"github.com/toyinlola/mjop/pkg/interfaces"
	"github.com/toyinlola/mjop/pkg/state"
)

var seedCmd = &cobra.Command{
	Use:   "seed <snapshot> <vocabulary.yml>",
	Short: "Seed element defect catalogs from a vocabulary file",
	Long: `Seed adds the elements listed in a vocabulary file to the snapshot and
extends every element's defect catalog with the names the vocabulary lists for
its type and material. Existing catalog entries are kept.

The snapshot file is created if it does not exist yet.`,
	Args: cobra.ExactArgs(2),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	snapPath, vocabPath := args[0], args[1]

	vocab, err := catalog.LoadVocabulary(vocabPath)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	snap, err := loadSnapshotOrEmpty(snapPath)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	reducer, err := newReducer(cfg)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	session, err := state.NewSession(reducer, snap)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	actions := catalog.SeedActions(session.Snapshot(), vocab)
	if err := session.Dispatch(actions...); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	seeded := session.Snapshot()
	if err := writeSnapshot(snapPath, seeded); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	slog.Info("catalogs seeded", "snapshot", snapPath, "actions", len(actions))
	fmt.Fprintf(cmd.OutOrStdout(), "%d elements, %d seeding actions applied\n", len(seeded.Elements), len(actions))
	return nil
}

func loadSnapshotOrEmpty(path string) (*interfaces.Snapshot, error) {
	if exists, err := fileExists(path); err != nil {
		return nil, err
	} else if !exists {
		return &interfaces.Snapshot{Version: snapshotVersion}, nil
	}
	return loadSnapshot(path)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/toyinlola/mjop/pkg/interfaces"
	"github.com/toyinlola/mjop/pkg/scorer"
	"github.com/toyinlola/mjop/pkg/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List snapshots recorded in the local history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a recorded snapshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore <id> <snapshot>",
	Short: "Write a recorded snapshot to a file",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryRestore,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries to list (0 for all)")
	historyCmd.AddCommand(historyShowCmd, historyRestoreCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*storage.Store, error) {
	cfg := appConfig
	if !cfg.Storage.IsEnabled() {
		return nil, fmt.Errorf("snapshot history is disabled (storage.enabled: false)")
	}
	return storage.New(storage.Config{Path: cfg.Storage.Path, MaxEntries: cfg.Storage.MaxEntries})
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	w := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No snapshots recorded.")
		return nil
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	fmt.Fprintln(w, header.Render(fmt.Sprintf("%-6s %-20s %8s %8s  %s", "ID", "SAVED", "ELEMENTS", "REPORTS", "WORST")))
	for _, e := range entries {
		fmt.Fprintf(w, "%-6d %-20s %8d %8d  %s %s\n",
			e.ID, e.SavedAt.Local().Format("2006-01-02 15:04:05"), e.Elements, e.Reports,
			worstLabel(e.Worst), dim.Render(e.Digest[:12]))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	snap, err := historySnapshot(cmd, args[0])
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func runHistoryRestore(cmd *cobra.Command, args []string) error {
	snap, err := historySnapshot(cmd, args[0])
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := writeSnapshot(args[1], snap); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "restored snapshot %s to %s\n", args[0], args[1])
	return nil
}

func historySnapshot(cmd *cobra.Command, rawID string) (*interfaces.Snapshot, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", rawID)
	}
	store, err := openHistory()
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Get(cmd.Context(), id)
}

func worstLabel(c interfaces.ConditionScore) string {
	if c == 0 {
		return "-"
	}
	return fmt.Sprintf("%d %s", c, scorer.Label(c))
}

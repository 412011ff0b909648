package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toyinlola/mjop/pkg/cli"
	"github.com/toyinlola/mjop/pkg/interfaces"
	"github.com/toyinlola/mjop/pkg/watch"
)

var watchSave bool

var watchCmd = &cobra.Command{
	Use:   "watch <snapshot|glob>...",
	Short: "Rescore snapshots whenever their files change",
	Long: `Watch prints an assessment for each snapshot and then again every time a
snapshot file is saved. Bursts of writes are collapsed using watch.debounce.
Stop with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchSave, "save", false, "record each rescored snapshot in history and the remote save endpoint")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := appConfig

	paths, err := expandPaths(args)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	w, err := watch.New(paths, cfg.Watch.Debounce, slog.Default())
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	for _, p := range paths {
		rescoreAndPrint(ctx, cfg, out, p)
	}

	slog.Info("watching snapshots", "files", len(paths), "debounce", cfg.Watch.Debounce)
	err = w.Run(ctx, func(path string) {
		rescoreAndPrint(ctx, cfg, out, path)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// rescoreAndPrint renders one snapshot. Errors are logged so a half-written
// file does not end the watch.
func rescoreAndPrint(ctx context.Context, cfg *cli.Config, out io.Writer, path string) {
	session, err := openSession(cfg, path)
	if err != nil {
		slog.Error("rescoring failed", "path", path, "error", err)
		return
	}

	rpt := newGenerator(cfg).Generate(session.Snapshot())
	if err := selectFormatter(format).Format(out, rpt); err != nil {
		slog.Error("writing report failed", "path", path, "error", err)
		return
	}
	slog.Info("snapshot rescored", "path", path, "worst", worstOf(rpt))

	if watchSave {
		if err := persist(ctx, cfg, session); err != nil {
			slog.Error("saving snapshot failed", "path", path, "error", err)
		}
	}
}

func worstOf(rpt *interfaces.AssessmentReport) string {
	if rpt.Worst == 0 {
		return "not inspected"
	}
	return fmt.Sprintf("%d [%s]", rpt.Worst, rpt.Rating)
}

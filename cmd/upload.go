package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyinlola/mjop/pkg/interfaces"
	"github.com/toyinlola/mjop/pkg/remote"
	"github.com/toyinlola/mjop/pkg/state"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <snapshot> <report-id> <defect-or-task-id> <file>...",
	Short: "Upload photos or documents and attach them to a defect or task",
	Long: `Upload sends each file to the configured media endpoint (remote.media_url or
MJOP_MEDIA_URL) and attaches the returned references to the defect or task
with the given id. The snapshot is only written once every upload succeeded.`,
	Args: cobra.MinimumNArgs(4),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	snapPath, reportID, targetID, files := args[0], args[1], args[2], args[3:]

	uploader, err := mediaClient(cfg)
	if errors.Is(err, remote.ErrNotConfigured) {
		return fmt.Errorf("upload: no media endpoint configured (remote.media_url or %s)", remote.EnvMediaURL)
	}
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	snap, err := loadSnapshot(snapPath)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	reducer, err := newReducer(cfg)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	session, err := state.NewSession(reducer, snap)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	// Reject an unknown report or target before anything is uploaded.
	probe := state.AttachMedia{ReportID: reportID, TargetID: targetID, Ref: "probe"}
	if _, err := reducer.Reduce(session.Snapshot(), probe); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	actions, err := uploadAll(cmd, uploader, reportID, targetID, files)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if err := session.Dispatch(actions...); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if err := writeSnapshot(snapPath, session.Snapshot()); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	return nil
}

func uploadAll(cmd *cobra.Command, uploader interfaces.MediaUploader, reportID, targetID string, files []string) ([]state.Action, error) {
	actions := make([]state.Action, 0, len(files))
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		ref, err := uploader.Upload(cmd.Context(), name, f)
		f.Close()
		if err != nil {
			return nil, err
		}

		slog.Info("file uploaded", "file", name, "ref", ref)
		fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", name, ref)
		actions = append(actions, state.AttachMedia{ReportID: reportID, TargetID: targetID, Ref: ref})
	}
	return actions, nil
}

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyinlola/mjop/pkg/cli"
	"github.com/toyinlola/mjop/pkg/interfaces"
	"github.com/toyinlola/mjop/pkg/remote"
	"github.com/toyinlola/mjop/pkg/report"
	"github.com/toyinlola/mjop/pkg/scorer"
	"github.com/toyinlola/mjop/pkg/state"
	"github.com/toyinlola/mjop/pkg/storage"
)

const snapshotVersion = interfaces.SnapshotVersion

// formatter writes a structured report to a writer.
type formatter interface {
	Format(w io.Writer, report *interfaces.AssessmentReport) error
}

// selectFormatter returns the appropriate report formatter for the given format name.
func selectFormatter(name string) formatter {
	switch name {
	case "json":
		return report.NewJSONFormatter()
	case "markdown":
		return report.NewMarkdownFormatter()
	default:
		return report.NewTerminalFormatter()
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

// loadSnapshot reads a snapshot file. Files ending in .yml or .yaml are YAML,
// everything else is JSON.
func loadSnapshot(path string) (*interfaces.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	snap := &interfaces.Snapshot{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, snap)
	} else {
		err = json.Unmarshal(data, snap)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	if snap.Version != "" && snap.Version != snapshotVersion {
		return nil, fmt.Errorf("snapshot %s has version %q, expected %q", path, snap.Version, snapshotVersion)
	}
	return snap, nil
}

// writeSnapshot replaces path with snap, in the format its extension implies.
func writeSnapshot(path string, snap *interfaces.Snapshot) error {
	var buf bytes.Buffer
	if isYAML(path) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
	} else {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// newReducer builds a reducer whose calculator uses the configured clock.
func newReducer(cfg *cli.Config) (*state.Reducer, error) {
	now, err := cfg.Scoring.Now()
	if err != nil {
		return nil, err
	}
	calc := scorer.NewCalculator(
		scorer.WithClock(now),
		scorer.WithLogger(slog.Default()),
	)
	return state.NewReducer(
		state.WithCalculator(calc),
		state.WithLogger(slog.Default()),
	), nil
}

func newGenerator(cfg *cli.Config) *report.Generator {
	return report.NewGenerator(report.WithThresholds(cfg.Scoring.YellowFrom, cfg.Scoring.RedFrom))
}

// openSession loads a snapshot file into a fresh, fully rescored session.
func openSession(cfg *cli.Config, path string) (*state.Session, error) {
	snap, err := loadSnapshot(path)
	if err != nil {
		return nil, err
	}
	reducer, err := newReducer(cfg)
	if err != nil {
		return nil, err
	}
	return state.NewSession(reducer, snap)
}

// persist hands the session state to the local history (when enabled) and to
// the remote save endpoint (when configured or set in the environment).
func persist(ctx context.Context, cfg *cli.Config, session *state.Session) error {
	if cfg.Storage.IsEnabled() {
		store, err := storage.New(storage.Config{Path: cfg.Storage.Path, MaxEntries: cfg.Storage.MaxEntries})
		if err != nil {
			return err
		}
		defer store.Close()
		if err := session.Save(ctx, store); err != nil {
			return err
		}
		slog.Debug("snapshot recorded in history", "path", cfg.Storage.Path)
	}

	client, err := saveClient(cfg)
	switch {
	case errors.Is(err, remote.ErrNotConfigured):
		return nil
	case err != nil:
		return err
	}
	if err := session.Save(ctx, client); err != nil {
		return err
	}
	slog.Info("snapshot saved remotely")
	return nil
}

// saveClient uses remote.save_url, or MJOP_SAVE_URL when the config has none.
func saveClient(cfg *cli.Config) (*remote.SaveClient, error) {
	if cfg.Remote.SaveURL != "" {
		return remote.NewSaveClient(cfg.Remote.SaveURL, cfg.Remote.Token()), nil
	}
	return remote.NewSaveClientFromEnv(cfg.Remote.TokenEnv)
}

// mediaClient uses remote.media_url, or MJOP_MEDIA_URL when the config has none.
func mediaClient(cfg *cli.Config) (*remote.MediaClient, error) {
	if cfg.Remote.MediaURL != "" {
		return remote.NewMediaClient(cfg.Remote.MediaURL, cfg.Remote.Token()), nil
	}
	return remote.NewMediaClientFromEnv(cfg.Remote.TokenEnv)
}

// openOutput returns the writer selected by --output, stdout by default.
func openOutput(cmd interface{ OutOrStdout() io.Writer }) (io.Writer, func() error, error) {
	if output == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	file, err := os.Create(output)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return file, file.Close, nil
}

// failsOn reports whether rating breaches the fail_on setting.
func failsOn(rating interfaces.Rating, failOn string) bool {
	switch failOn {
	case "never":
		return false
	case "yellow":
		return rating == interfaces.RatingYellow || rating == interfaces.RatingRed
	default:
		return rating == interfaces.RatingRed
	}
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}

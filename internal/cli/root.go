// Package cli implements the retrospect CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dan-solli/retrospect/pkg/retrospect"
	"github.com/dan-solli/retrospect/pkg/store"
)

var (
	dbPath     string
	formatFlag string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "retrospect",
	Short: "Reflective timeline analysis over memory fragments",
	Long:  "Batch analyzers over chronological memory fragments: causal chains, narrative arcs, emotional trajectories, milestones, goal arcs, and a self-narrative model. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $RETROSPECT_DB or ~/.retrospect/artifacts.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("RETROSPECT_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".retrospect", "artifacts.db")
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openEngine() (*retrospect.Engine, error) {
	path := getDBPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	s, err := store.NewSQLiteArtifactStore(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}
	engine, err := retrospect.New(retrospect.Config{
		Store:  s,
		Logger: newLogger(),
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	return engine, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

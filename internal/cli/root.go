// Package cli is the terminal front end: a cobra command tree over the
// store, the deck selector and the study session.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashcards/internal/config"
	"github.com/conorfennell/flashcards/internal/logging"
	"github.com/conorfennell/flashcards/internal/storage"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *storage.DB
}

// Run executes the command line args with the given streams and closes
// the database before returning.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "flashcards",
		Short: "Study flashcards organised by subject and topic",
		Long: `flashcards keeps subjects, topics and front/back cards in a local SQLite
database and runs study sessions over a shuffled deck, recording each card
as known or not known.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newSubjectCommand(a),
		newTopicCommand(a),
		newCardCommand(a),
		newStudyCommand(a),
		newImportCommand(a),
	)
	return root
}

// open loads configuration, sets up logging and opens the database.
func (a *app) open(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if path == "" {
		path = config.ConfigFileFromEnv()
	}

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	db, err := storage.Open(cmd.Context(), cfg.Database.Path, storage.WithLogger(logger))
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.db = db
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashcards/internal/importer"
)

func newImportCommand(a *app) *cobra.Command {
	var subject, topic string

	cmd := &cobra.Command{
		Use:   "import <dir|git-url>",
		Short: "Import Q:/A: cards from markdown files",
		Long: `Import reads every .md file in a directory, or in a git repository that
is cloned (or pulled) under import.repos_dir, and adds the Q:/A: cards it
finds to a topic. Cards already in the topic are skipped.`,
		Example: `  flashcards import --subject Go --topic Channels ./notes
  flashcards import --subject Go --topic Channels https://github.com/user/notes.git`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := a.topicByName(cmd.Context(), subject, topic)
			if err != nil {
				return err
			}

			im := importer.New(a.db, a.cfg.Import.ReposDir, cmd.ErrOrStderr(), a.logger)
			res, err := im.Import(cmd.Context(), t.ID, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d cards: %d created, %d already present, %d errors.\n",
				res.Parsed, res.Created, res.Skipped, len(res.Errors))
			for _, e := range res.Errors {
				fmt.Fprintf(out, "- %s\n", e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject name (required)")
	cmd.Flags().StringVar(&topic, "topic", "", "topic name (required)")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

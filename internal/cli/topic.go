package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTopicCommand(a *app) *cobra.Command {
	var subjectName string

	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Manage the topics of a subject",
	}
	cmd.PersistentFlags().StringVar(&subjectName, "subject", "", "subject name (required)")
	_ = cmd.MarkPersistentFlagRequired("subject")

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.subjectByName(cmd.Context(), subjectName)
			if err != nil {
				return err
			}
			t, err := a.db.CreateTopic(cmd.Context(), s.ID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created topic %q in %q\n", t.Name, s.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the topics of a subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.subjectByName(cmd.Context(), subjectName)
			if err != nil {
				return err
			}
			topics, err := a.db.ListTopics(cmd.Context(), s.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(topics) == 0 {
				fmt.Fprintln(out, "No topics.")
				return nil
			}
			for _, t := range topics {
				fmt.Fprintln(out, t.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a topic with all its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := a.topicByName(cmd.Context(), subjectName, args[0])
			if err != nil {
				return err
			}
			if err := a.db.DeleteTopic(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted topic %q\n", t.Name)
			return nil
		},
	})

	return cmd
}

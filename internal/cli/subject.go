package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSubjectCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage subjects",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.db.CreateSubject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created subject %q\n", s.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := a.db.ListSubjects(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(subjects) == 0 {
				fmt.Fprintln(out, "No subjects.")
				return nil
			}
			for _, s := range subjects {
				fmt.Fprintln(out, s.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a subject with all its topics and cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.subjectByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.db.DeleteSubject(cmd.Context(), s.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted subject %q\n", s.Name)
			return nil
		},
	})

	return cmd
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCardCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage the cards of a topic",
	}
	cmd.AddCommand(
		newCardAddCommand(a),
		newCardListCommand(a),
		newCardEditCommand(a),
		newCardDeleteCommand(a),
	)
	return cmd
}

func newCardAddCommand(a *app) *cobra.Command {
	var subject, topic, front, back string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card to a topic",
		Example: `  flashcards card add --subject Go --topic Channels \
    --front "What does close on a nil channel do?" --back "It panics."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := a.topicByName(cmd.Context(), subject, topic)
			if err != nil {
				return err
			}
			c, err := a.db.CreateCard(cmd.Context(), t.ID, front, back)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created card %d\n", c.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject name (required)")
	cmd.Flags().StringVar(&topic, "topic", "", "topic name (required)")
	cmd.Flags().StringVar(&front, "front", "", "front text (required)")
	cmd.Flags().StringVar(&back, "back", "", "back text (required)")
	for _, name := range []string{"subject", "topic", "front", "back"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newCardListCommand(a *app) *cobra.Command {
	var subject, topic string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the cards of a topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := a.topicByName(cmd.Context(), subject, topic)
			if err != nil {
				return err
			}
			cards, err := a.db.ListCardsByTopic(cmd.Context(), t.ID)
			if err != nil {
				return err
			}
			return writeCardTable(cmd.OutOrStdout(), cards)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject name (required)")
	cmd.Flags().StringVar(&topic, "topic", "", "topic name (required)")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func newCardEditCommand(a *app) *cobra.Command {
	var front, back string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the text of a card",
		Long:  "Edit replaces the front and/or back of a card. The known flag is left as it is.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("front") && !cmd.Flags().Changed("back") {
				return fmt.Errorf("nothing to change: pass --front and/or --back")
			}
			card, err := a.db.GetCard(cmd.Context(), id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("front") {
				card.Front = front
			}
			if cmd.Flags().Changed("back") {
				card.Back = back
			}
			if err := a.db.UpdateCard(cmd.Context(), id, card.Front, card.Back); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated card %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&front, "front", "", "new front text")
	cmd.Flags().StringVar(&back, "back", "", "new back text")
	return cmd
}

func newCardDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			if err := a.db.DeleteCard(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %d\n", id)
			return nil
		},
	}
}

func parseCardID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid card id %q: %w", s, err)
	}
	return id, nil
}

package historycmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ewittry/parley/pkg/chat"
	"github.com/ewittry/parley/pkg/config"
	"github.com/ewittry/parley/pkg/transcript"
)

const historyLongDesc string = `Browse recorded conversations.

Without arguments, lists every recorded conversation (one per head of
the transcript chain) with its head hash and a preview of the opening
message. With a hash prefix, prints that conversation in full.

Examples:
  parley history
  parley history 3f9a
  parley history --db /tmp/chats.db`

const historyShortDesc string = "Browse recorded conversations"

type historyCommander struct {
	dbPath string
}

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history [hash-prefix]",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return cmder.run(cmd.Context(), cmd, prefix)
		},
	}

	cmd.Flags().StringVar(&cmder.dbPath, "db", "", "Path to the transcript database")

	return cmd
}

func (c *historyCommander) run(ctx context.Context, cmd *cobra.Command, prefix string) error {
	dbPath, err := config.ResolveDBPath(c.dbPath)
	if err != nil {
		return fmt.Errorf("could not resolve transcript database: %w", err)
	}

	storer, err := transcript.NewSQLiteStorer(dbPath)
	if err != nil {
		return fmt.Errorf("could not open transcript database %s: %w", dbPath, err)
	}
	defer storer.Close()

	if prefix != "" {
		return c.printConversation(ctx, cmd, storer, prefix)
	}
	return c.listConversations(ctx, cmd, storer)
}

func (c *historyCommander) listConversations(ctx context.Context, cmd *cobra.Command, storer transcript.Storer) error {
	heads, err := storer.Heads(ctx)
	if err != nil {
		return fmt.Errorf("could not list conversations: %w", err)
	}

	if len(heads) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded conversations.")
		return nil
	}

	for _, head := range heads {
		history, err := storer.History(ctx, head.Hash)
		if err != nil {
			return fmt.Errorf("could not load conversation %s: %w", head.Hash, err)
		}

		opening := ""
		if len(history) > 0 {
			opening = truncate(history[0].Content, 60)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s  %2d turns  %s\n",
			head.Hash[:12], len(history), opening)
	}

	return nil
}

func (c *historyCommander) printConversation(ctx context.Context, cmd *cobra.Command, storer transcript.Storer, prefix string) error {
	entries, err := storer.List(ctx)
	if err != nil {
		return fmt.Errorf("could not list entries: %w", err)
	}

	var match *transcript.Entry
	for _, e := range entries {
		if strings.HasPrefix(e.Hash, prefix) {
			if match != nil {
				return fmt.Errorf("hash prefix %q is ambiguous", prefix)
			}
			match = e
		}
	}
	if match == nil {
		return fmt.Errorf("no conversation matches %q", prefix)
	}

	history, err := storer.History(ctx, match.Hash)
	if err != nil {
		return fmt.Errorf("could not load conversation: %w", err)
	}

	for _, e := range history {
		label := "You"
		if e.Role != chat.RoleUser {
			label = "Assistant"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", label, e.Content)
	}

	return nil
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

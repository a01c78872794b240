package main

import (
	"fmt"
	"os"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mandalnilabja/goatchat/internal/chat"
	"github.com/mandalnilabja/goatchat/internal/storage/models"
)

// listTimeLayout renders timestamps in tables.
const listTimeLayout = "2006-01-02 15:04"

func newConvoCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "convo",
		Aliases: []string{"conversations"},
		Short:   "Browse and manage stored conversations",
	}
	cmd.AddCommand(
		newConvoListCmd(c),
		newConvoShowCmd(c),
		newConvoExportCmd(c),
		newConvoRenameCmd(c),
		newConvoRemoveCmd(c),
	)
	return cmd
}

func newConvoListCmd(c *cli) *cobra.Command {
	var filter models.ConversationFilter

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List conversations, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services()
			if err != nil {
				return err
			}
			convs, err := svc.store.ListConversations(filter)
			if err != nil {
				return err
			}
			if len(convs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no conversations")
				return nil
			}

			table := uitable.New()
			table.MaxColWidth = 50
			table.AddRow("ID", "TITLE", "PROVIDER", "MODEL", "UPDATED")
			for _, conv := range convs {
				table.AddRow(conv.ID, conv.Title, conv.Provider, conv.Model, conv.UpdatedAt.Local().Format(listTimeLayout))
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "search titles and message content")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 20, "maximum conversations to show")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "conversations to skip")
	return cmd
}

func newConvoShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a conversation transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services()
			if err != nil {
				return err
			}
			conv, err := svc.store.GetConversation(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s (%s/%s)\n\n", conv.Title, conv.Provider, conv.Model)
			return chat.ExportText(out, conv, nil)
		},
	}
}

func newConvoExportCmd(c *cli) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a conversation as json or txt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != chat.FormatJSON && format != chat.FormatText {
				return fmt.Errorf("unsupported export format %q (use json or txt)", format)
			}
			svc, err := c.services()
			if err != nil {
				return err
			}
			conv, err := svc.store.GetConversation(args[0])
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return chat.Export(cmd.OutOrStdout(), conv, format)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := chat.Export(f, conv, format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", chat.FormatJSON, "export format: json or txt")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newConvoRenameCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services()
			if err != nil {
				return err
			}
			return svc.store.RenameConversation(args[0], args[1])
		},
	}
}

func newConvoRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Delete conversations and their messages",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services()
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := svc.store.DeleteConversation(id); err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mandalnilabja/goatchat/internal/storage/models"
)

func newLogsCmd(c *cli) *cobra.Command {
	var filter models.LogFilter

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent gateway calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services()
			if err != nil {
				return err
			}
			logs, err := svc.store.GetRequestLogs(filter)
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no request logs")
				return nil
			}

			table := uitable.New()
			table.MaxColWidth = 40
			table.AddRow("TIME", "PROVIDER", "MODEL", "STREAM", "STATUS", "ERROR", "MS")
			for _, l := range logs {
				table.AddRow(
					l.CreatedAt.Local().Format(listTimeLayout),
					l.Provider,
					l.Model,
					yesNo(l.IsStreaming),
					strconv.Itoa(l.StatusCode),
					l.ErrorKind,
					strconv.FormatInt(l.DurationMs, 10),
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Provider, "filter-provider", "", "only calls to this provider")
	cmd.Flags().StringVar(&filter.ConversationID, "conversation", "", "only calls for this conversation")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 20, "maximum entries to show")

	cmd.AddCommand(newLogsPruneCmd(c))
	return cmd
}

func newLogsPruneCmd(c *cli) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete request logs older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			svc, err := c.services()
			if err != nil {
				return err
			}
			n, err := svc.store.DeleteRequestLogs(time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d request logs\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the newest log to delete, e.g. 720h")
	return cmd
}

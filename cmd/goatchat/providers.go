package main

import (
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mandalnilabja/goatchat/internal/provider"
)

func newProvidersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported providers and their common models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := provider.NewRegistry()

			table := uitable.New()
			table.MaxColWidth = 60
			table.Wrap = true
			table.AddRow("ID", "STREAM", "DEFAULT", "MODELS")
			for _, id := range registry.IDs() {
				desc, err := registry.Lookup(id)
				if err != nil {
					return err
				}
				isDefault := ""
				if id == c.cfg.DefaultProvider {
					isDefault = "*"
				}
				table.AddRow(id, yesNo(desc.SupportsStream), isDefault, strings.Join(desc.Models, ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/storage/models"
)

func newCredsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "creds",
		Aliases: []string{"credentials"},
		Short:   "Manage stored provider API keys",
	}
	cmd.AddCommand(
		newCredsAddCmd(c),
		newCredsListCmd(c),
		newCredsRemoveCmd(c),
		newCredsDefaultCmd(c),
	)
	return cmd
}

func newCredsAddCmd(c *cli) *cobra.Command {
	var (
		providerID string
		name       string
		key        string
		isDefault  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store an API key (read from stdin when --key is omitted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services()
			if err != nil {
				return err
			}

			providerID = strings.ToLower(strings.TrimSpace(providerID))
			if _, err := svc.registry.Lookup(providerID); err != nil {
				return err
			}
			if name == "" {
				name = providerID
			}
			if key == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read API key: %w", err)
				}
				key = strings.TrimSpace(line)
			}
			if key == "" {
				return errors.New("API key is required")
			}

			cred := &models.Credential{
				Provider:  providerID,
				Name:      name,
				APIKey:    key,
				IsDefault: isDefault,
			}
			if err := svc.store.CreateCredential(cred); err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					return fmt.Errorf("a credential named %q already exists", name)
				}
				return err
			}
			svc.creds.Invalidate(providerID)

			fmt.Fprintf(cmd.OutOrStdout(), "stored %s (%s) %s\n", cred.Name, cred.ID, storage.MaskAPIKey(key))
			return nil
		},
	}

	cmd.Flags().StringVar(&providerID, "provider", "", "provider id")
	cmd.Flags().StringVar(&name, "name", "", "credential name (defaults to the provider id)")
	cmd.Flags().StringVar(&key, "key", "", "API key")
	cmd.Flags().BoolVar(&isDefault, "default", false, "make this the provider's default key")
	_ = cmd.MarkFlagRequired("provider")
	return cmd
}

func newCredsListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored API keys",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services()
			if err != nil {
				return err
			}
			creds, err := svc.store.ListCredentials()
			if err != nil {
				return err
			}
			if len(creds) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no stored credentials")
				return nil
			}

			table := uitable.New()
			table.AddRow("ID", "PROVIDER", "NAME", "KEY", "DEFAULT")
			for _, cred := range creds {
				p := cred.ToPreview()
				isDefault := ""
				if p.IsDefault {
					isDefault = "*"
				}
				table.AddRow(p.ID, p.Provider, p.Name, p.APIKeyPreview, isDefault)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newCredsRemoveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id|name>",
		Aliases: []string{"remove"},
		Short:   "Delete a stored API key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services()
			if err != nil {
				return err
			}
			cred, err := findCredential(svc.store, args[0])
			if err != nil {
				return err
			}
			if err := svc.store.DeleteCredential(cred.ID); err != nil {
				return err
			}
			svc.creds.Invalidate(cred.Provider)

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", cred.Name)
			return nil
		},
	}
}

func newCredsDefaultCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "default <id|name>",
		Short: "Make a stored key its provider's default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.services()
			if err != nil {
				return err
			}
			cred, err := findCredential(svc.store, args[0])
			if err != nil {
				return err
			}
			if err := svc.store.SetDefaultCredential(cred.ID); err != nil {
				return err
			}
			svc.creds.Invalidate(cred.Provider)

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now the default for %s\n", cred.Name, cred.Provider)
			return nil
		},
	}
}

// findCredential looks ref up by id, then by name.
func findCredential(store storage.CredentialStore, ref string) (*models.Credential, error) {
	cred, err := store.GetCredential(ref)
	if err == nil {
		return cred, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	cred, err = store.GetCredentialByName(ref)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no credential with id or name %q", ref)
	}
	return cred, err
}

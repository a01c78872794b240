package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/goatchat/internal/chat"
	"github.com/mandalnilabja/goatchat/internal/types"
)

func newAskCmd(c *cli) *cobra.Command {
	var (
		gen    genFlags
		system string
	)

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Send a one-shot prompt and print the answer",
		Long:  "Send a one-shot prompt and print the answer. The prompt is read from stdin when no argument is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen.load(cmd)

			prompt := strings.Join(args, " ")
			if strings.TrimSpace(prompt) == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read prompt: %w", err)
				}
				prompt = string(data)
			}
			if strings.TrimSpace(prompt) == "" {
				return errors.New("prompt is required")
			}

			svc, err := c.services()
			if err != nil {
				return err
			}
			route, err := svc.router.Resolve(c.flags.provider, c.flags.model)
			if err != nil {
				return err
			}

			var messages []types.ChatMessage
			if system != "" {
				messages = append(messages, types.NewTextMessage(types.RoleSystem, system))
			}
			messages = append(messages, types.NewTextMessage(types.RoleUser, prompt))

			params := sendParams(c.cfg, &gen)
			opts := types.SendOptions{
				ProviderID:  route.ProviderID,
				Credential:  params.Credential,
				Model:       route.Model,
				Stream:      params.Stream,
				Temperature: params.Temperature,
				MaxTokens:   params.MaxTokens,
			}

			return ask(cmd, svc.gateway, messages, opts)
		},
	}

	gen.register(cmd)
	cmd.Flags().StringVarP(&system, "system", "s", "", "system prompt")
	return cmd
}

// ask sends messages and prints the answer, streaming when deltas arrive.
func ask(cmd *cobra.Command, sender chat.Sender, messages []types.ChatMessage, opts types.SendOptions) error {
	out := cmd.OutOrStdout()
	streamed := false

	text, err := sender.Send(cmd.Context(), messages, opts, func(delta string) {
		streamed = true
		fmt.Fprint(out, delta)
	})
	if err != nil {
		if streamed {
			fmt.Fprintln(out)
		}
		return errors.New(chat.Remediation(err))
	}

	if !streamed {
		fmt.Fprint(out, text)
	}
	fmt.Fprintln(out)
	return nil
}

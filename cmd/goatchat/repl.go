package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/goatchat/internal/chat"
	"github.com/mandalnilabja/goatchat/internal/storage"
)

const replHelp = `Commands:
  /model <model> [provider]   switch model for this conversation
  /title <title>              rename the conversation
  /retry                      ask again without a new message
  /clear                      delete all messages
  /export <json|txt> [path]   write the transcript
  /exit                       quit`

// errQuit ends the loop.
var errQuit = errors.New("quit")

func newChatCmd(c *cli) *cobra.Command {
	var (
		gen            genFlags
		conversationID string
		title          string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive, stored conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen.load(cmd)

			svc, err := c.services()
			if err != nil {
				return err
			}

			r := &repl{
				chat:   svc.chat,
				store:  svc.store,
				params: sendParams(c.cfg, &gen),
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
			}

			if conversationID != "" {
				r.conversationID = conversationID
				if c.flags.provider != "" || c.flags.model != "" {
					if _, err := svc.chat.SetModel(conversationID, c.flags.provider, c.flags.model); err != nil {
						return err
					}
				}
			} else {
				conv, err := svc.chat.NewConversation(title, c.flags.provider, c.flags.model)
				if err != nil {
					return err
				}
				r.conversationID = conv.ID
			}

			return r.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	gen.register(cmd)
	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "resume a stored conversation by id")
	cmd.Flags().StringVar(&title, "title", "", "title for a new conversation")
	return cmd
}

// repl is the interactive loop over one stored conversation.
type repl struct {
	chat           *chat.Service
	store          storage.ConversationStore
	conversationID string
	params         chat.SendParams
	out            io.Writer
	errOut         io.Writer
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	conv, err := r.store.GetConversation(r.conversationID)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.errOut, "%s [%s] %s/%s (/help for commands)\n", conv.Title, conv.ID, conv.Provider, conv.Model)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		fmt.Fprint(r.errOut, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.errOut)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "/"):
			if err := r.command(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintln(r.errOut, "error:", err)
			}
		default:
			r.send(ctx, line)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

// send runs one turn and prints the reply, or its remediation on failure.
func (r *repl) send(ctx context.Context, text string) {
	streamed := false
	msg, err := r.chat.Send(ctx, r.conversationID, text, r.params, func(delta string) {
		streamed = true
		fmt.Fprint(r.out, delta)
	})

	if msg == nil {
		fmt.Fprintln(r.errOut, "error:", err)
		return
	}
	if streamed && err != nil {
		fmt.Fprintln(r.out)
	}
	if !streamed || err != nil {
		fmt.Fprint(r.out, msg.Content)
	}
	fmt.Fprintln(r.out)
}

func (r *repl) command(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case "/exit", "/quit":
		return errQuit

	case "/help":
		fmt.Fprintln(r.errOut, replHelp)

	case "/model":
		if len(args) == 0 {
			return errors.New("usage: /model <model> [provider]")
		}
		providerID := ""
		if len(args) > 1 {
			providerID = args[1]
		}
		route, err := r.chat.SetModel(r.conversationID, providerID, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(r.errOut, "using %s/%s\n", route.ProviderID, route.Model)

	case "/title":
		title := strings.TrimSpace(strings.TrimPrefix(line, name))
		if title == "" {
			return errors.New("usage: /title <title>")
		}
		if err := r.store.RenameConversation(r.conversationID, title); err != nil {
			return err
		}
		fmt.Fprintf(r.errOut, "renamed to %q\n", title)

	case "/retry":
		r.send(ctx, "")

	case "/clear":
		if err := r.store.ClearConversation(r.conversationID); err != nil {
			return err
		}
		fmt.Fprintln(r.errOut, "conversation cleared")

	case "/export":
		return r.export(args)

	default:
		return fmt.Errorf("unknown command %s (try /help)", name)
	}
	return nil
}

func (r *repl) export(args []string) error {
	format := "txt"
	if len(args) > 0 {
		format = args[0]
	}
	conv, err := r.store.GetConversation(r.conversationID)
	if err != nil {
		return err
	}

	path := chat.ExportFilename(conv, format)
	if len(args) > 1 {
		path = args[1]
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := chat.Export(f, conv, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(r.errOut, "exported to %s\n", path)
	return nil
}

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/goatchat/internal/chat"
	"github.com/mandalnilabja/goatchat/internal/config"
	"github.com/mandalnilabja/goatchat/internal/provider"
	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/storage/encryption"
	"github.com/mandalnilabja/goatchat/internal/types"
)

type fakeSender struct {
	calls  int
	deltas []string
	reply  string
	err    error
}

func (f *fakeSender) Send(_ context.Context, _ []types.ChatMessage, opts types.SendOptions, onDelta func(string)) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if opts.Stream && onDelta != nil {
		for _, d := range f.deltas {
			onDelta(d)
		}
	}
	return f.reply, nil
}

func newTestRepl(t *testing.T, sender *fakeSender, stream bool) (*repl, storage.Storage, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	enc, err := encryption.NewWithKey(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)
	store, err := storage.NewSQLiteStorageWithEncryptor(filepath.Join(t.TempDir(), "test.db"), enc)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	router := provider.NewRouter(provider.NewRegistry(), &config.Config{
		DefaultProvider: "openrouter",
		DefaultModel:    "deepseek/deepseek-chat-v3.1:free",
	})
	svc := chat.NewService(store, sender, router)

	conv, err := svc.NewConversation("", "", "")
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	return &repl{
		chat:           svc,
		store:          store,
		conversationID: conv.ID,
		params:         chat.SendParams{Stream: stream},
		out:            &out,
		errOut:         &errOut,
	}, store, &out, &errOut
}

func TestReplSession(t *testing.T) {
	sender := &fakeSender{deltas: []string{"Hi", " there"}, reply: "Hi there"}
	r, store, out, errOut := newTestRepl(t, sender, true)

	input := "hello\n\n/title Greetings\n/model gpt-4o-mini openai\n/bogus\n/exit\nnever sent\n"
	require.NoError(t, r.run(context.Background(), strings.NewReader(input)))

	require.Equal(t, 1, sender.calls)
	require.Equal(t, "Hi there\n", out.String())
	require.Contains(t, errOut.String(), "unknown command /bogus")
	require.Contains(t, errOut.String(), "using openai/gpt-4o-mini")

	conv, err := store.GetConversation(r.conversationID)
	require.NoError(t, err)
	require.Equal(t, "Greetings", conv.Title)
	require.Equal(t, "openai", conv.Provider)
	require.Equal(t, "gpt-4o-mini", conv.Model)
	require.Len(t, conv.Messages, 2)
	require.Equal(t, "Hi there", conv.Messages[1].Content)
}

func TestReplPrintsRemediationAndRetries(t *testing.T) {
	sender := &fakeSender{err: types.NewHTTPStatusError("openrouter", 401, "bad key")}
	r, store, out, _ := newTestRepl(t, sender, false)

	require.NoError(t, r.run(context.Background(), strings.NewReader("hello\n")))
	require.True(t, strings.HasPrefix(out.String(), chat.ErrorPrefix))

	sender.err = nil
	sender.reply = "recovered"
	out.Reset()
	require.NoError(t, r.run(context.Background(), strings.NewReader("/retry\n")))
	require.Equal(t, "recovered\n", out.String())
	require.Equal(t, 2, sender.calls)

	conv, err := store.GetConversation(r.conversationID)
	require.NoError(t, err)
	require.Equal(t, "recovered", conv.Messages[len(conv.Messages)-1].Content)
}

func TestReplClearAndExport(t *testing.T) {
	sender := &fakeSender{reply: "pong"}
	r, store, _, errOut := newTestRepl(t, sender, false)

	path := filepath.Join(t.TempDir(), "out.txt")
	input := "ping\n/export txt " + path + "\n/clear\n"
	require.NoError(t, r.run(context.Background(), strings.NewReader(input)))
	require.Contains(t, errOut.String(), "exported to "+path)
	require.FileExists(t, path)

	conv, err := store.GetConversation(r.conversationID)
	require.NoError(t, err)
	require.Empty(t, conv.Messages)
}

func TestAsk(t *testing.T) {
	newCmd := func() (*cobra.Command, *bytes.Buffer) {
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&out)
		cmd.SetContext(context.Background())
		return cmd, &out
	}
	messages := []types.ChatMessage{types.NewTextMessage(types.RoleUser, "hi")}

	cmd, out := newCmd()
	err := ask(cmd, &fakeSender{deltas: []string{"a", "b"}, reply: "ab"}, messages, types.SendOptions{Stream: true})
	require.NoError(t, err)
	require.Equal(t, "ab\n", out.String())

	cmd, out = newCmd()
	err = ask(cmd, &fakeSender{reply: "whole"}, messages, types.SendOptions{})
	require.NoError(t, err)
	require.Equal(t, "whole\n", out.String())

	cmd, _ = newCmd()
	err = ask(cmd, &fakeSender{err: types.NewHTTPStatusError("openai", 429, "")}, messages, types.SendOptions{})
	require.Error(t, err)
	require.Equal(t, chat.Remediation(types.NewHTTPStatusError("openai", 429, "")), err.Error())
}

func TestSendParams(t *testing.T) {
	cfg := &config.Config{Stream: true, Temperature: 0.3, MaxTokens: config.DefaultMaxTokens}

	p := sendParams(cfg, &genFlags{})
	require.True(t, p.Stream)
	require.Equal(t, 0.3, *p.Temperature)
	require.Zero(t, p.MaxTokens)

	p = sendParams(cfg, &genFlags{noStream: true, temperature: 1.1, temperatureSet: true, maxTokens: 50, apiKey: "k"})
	require.False(t, p.Stream)
	require.Equal(t, 1.1, *p.Temperature)
	require.Equal(t, 50, p.MaxTokens)
	require.Equal(t, "k", p.Credential)

	cfg.MaxTokens = 900
	require.Equal(t, 900, sendParams(cfg, &genFlags{}).MaxTokens)
}

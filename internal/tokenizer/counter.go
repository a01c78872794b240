package tokenizer

import (
	"strings"

	"github.com/mandalnilabja/goatchat/internal/types"
)

// Message token overhead varies by model family.
// These values are based on OpenAI's documentation.
const (
	// Per-message overhead tokens
	messageOverheadGPT4  = 3 // <|start|>role<|end|>
	messageOverheadGPT35 = 4 // Slightly different format

	// Reply priming tokens (assistant response start)
	replyPrimingTokens = 3
)

// CountMessages counts tokens for a slice of messages.
func (t *TiktokenTokenizer) CountMessages(messages []types.ChatMessage, model string) (int, error) {
	total := 0
	for _, msg := range messages {
		tokens, err := t.CountMessage(msg, model)
		if err != nil {
			return 0, err
		}
		total += tokens
	}

	// Add reply priming tokens
	total += replyPrimingTokens

	return total, nil
}

// CountMessage counts role, content and per-message overhead.
func (t *TiktokenTokenizer) CountMessage(msg types.ChatMessage, model string) (int, error) {
	roleTokens, err := t.CountTokens(msg.Role, model)
	if err != nil {
		return 0, err
	}
	contentTokens, err := t.CountTokens(msg.Content, model)
	if err != nil {
		return 0, err
	}
	return roleTokens + contentTokens + t.getMessageOverhead(model), nil
}

// getMessageOverhead returns the per-message token overhead for a model.
func (t *TiktokenTokenizer) getMessageOverhead(model string) int {
	modelLower := strings.ToLower(model)
	if strings.Contains(modelLower, "gpt-3.5") {
		return messageOverheadGPT35
	}
	return messageOverheadGPT4
}

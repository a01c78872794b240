package tokenizer

import (
	"github.com/mandalnilabja/goatchat/internal/types"
)

// MessageCounter counts a single message. *TiktokenTokenizer satisfies it.
type MessageCounter interface {
	CountMessage(msg types.ChatMessage, model string) (int, error)
}

// TrimHistory drops the oldest turns until messages fit within budget
// tokens. System turns and the final message are never dropped, so the
// result may still exceed budget. Once anything is dropped, leading
// assistant turns go too, so the first kept non-system turn is a user
// turn. A budget <= 0 disables trimming.
//
// The returned slice is a copy; messages is not modified.
func TrimHistory(counter MessageCounter, messages []types.ChatMessage, model string, budget int) ([]types.ChatMessage, error) {
	out := append([]types.ChatMessage(nil), messages...)
	if budget <= 0 || len(out) < 2 {
		return out, nil
	}

	costs := make([]int, len(out))
	total := replyPrimingTokens
	for i, msg := range out {
		n, err := counter.CountMessage(msg, model)
		if err != nil {
			return nil, err
		}
		costs[i] = n
		total += n
	}

	drop := make([]bool, len(out))
	trimmed := false
	last := len(out) - 1
	for i := 0; i < last && total > budget; i++ {
		if out[i].Role == types.RoleSystem {
			continue
		}
		drop[i] = true
		trimmed = true
		total -= costs[i]
	}

	// Anthropic and Gemini reject histories that open with an assistant turn
	if trimmed {
		for i := 0; i < last; i++ {
			if drop[i] || out[i].Role == types.RoleSystem {
				continue
			}
			if out[i].Role != types.RoleAssistant {
				break
			}
			drop[i] = true
		}
	}

	kept := out[:0]
	for i, msg := range out {
		if !drop[i] {
			kept = append(kept, msg)
		}
	}
	return kept, nil
}

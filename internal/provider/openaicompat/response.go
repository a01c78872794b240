package openaicompat

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoChoices is returned when a response has no choices array.
var ErrNoChoices = errors.New("response has no choices")

// ParseResponse extracts choices[0].message.content. A null content yields "".
func ParseResponse(body []byte) (string, error) {
	var completion ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", ErrNoChoices
	}

	content := completion.Choices[0].Message.Content
	if content == nil {
		return "", nil
	}
	return *content, nil
}

// ParseChunk extracts choices[0].delta.content from one SSE line.
// Non-data lines, the [DONE] terminator and malformed JSON yield no delta.
func ParseChunk(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, SSEDataPrefix) {
		return "", false
	}

	data := strings.TrimSpace(strings.TrimPrefix(trimmed, SSEDataPrefix))
	if data == SSEDone {
		return "", false
	}

	var chunk ChatCompletionChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return "", false // Skip malformed chunks
	}
	if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == nil {
		return "", false
	}

	delta := *chunk.Choices[0].Delta.Content
	return delta, delta != ""
}

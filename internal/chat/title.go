package chat

import (
	"regexp"
	"strings"

	"github.com/mandalnilabja/goatchat/internal/storage"
)

var (
	titleStrip = regexp.MustCompile(`[^\w\s-]`)
	titleSpace = regexp.MustCompile(`\s+`)
)

// AutoTitle derives a conversation title from its first user message:
// the first 50 characters without punctuation. Titles shorter than 10
// characters fall back to the raw first 30 characters.
func AutoTitle(content string) string {
	trimmed := strings.TrimSpace(content)

	title := titleStrip.ReplaceAllString(truncate(trimmed, 50), "")
	title = strings.TrimSpace(titleSpace.ReplaceAllString(title, " "))
	if title == "" {
		title = storage.DefaultTitle
	}

	if len([]rune(title)) < 10 {
		title = strings.TrimSpace(truncate(trimmed, 30))
		if title == "" {
			title = storage.DefaultTitle
		}
	}
	return title
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

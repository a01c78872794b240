package chat

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mandalnilabja/goatchat/internal/storage/models"
)

// Export formats
const (
	FormatJSON = "json"
	FormatText = "txt"
)

// textTimeLayout renders message times in exported transcripts.
const textTimeLayout = "2006-01-02 15:04:05"

// ExportJSON writes conv, including its messages, as indented JSON.
func ExportJSON(w io.Writer, conv *models.Conversation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(conv)
}

// ExportText writes a plain transcript: one "[role] time" header and the
// content per message, separated by blank lines. Times are rendered in loc
// (time.Local when nil).
func ExportText(w io.Writer, conv *models.Conversation, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	blocks := make([]string, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		blocks = append(blocks, fmt.Sprintf("[%s] %s\n%s\n", m.Role, m.CreatedAt.In(loc).Format(textTimeLayout), m.Content))
	}

	_, err := io.WriteString(w, strings.Join(blocks, "\n"))
	return err
}

// Export writes conv in format (json or txt).
func Export(w io.Writer, conv *models.Conversation, format string) error {
	switch format {
	case FormatJSON:
		return ExportJSON(w, conv)
	case FormatText:
		return ExportText(w, conv, nil)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// ExportFilename names an export file after the conversation title.
func ExportFilename(conv *models.Conversation, format string) string {
	name := strings.TrimSpace(conv.Title)
	if name == "" {
		name = "conversation"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	return name + "." + format
}

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	if format == FormatJSON {
		return "application/json; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

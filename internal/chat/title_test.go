package chat

import (
	"strings"
	"testing"
)

func TestAutoTitle(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"How do I write a goroutine pool in Go?", "How do I write a goroutine pool in Go"},
		{"  Explain   the CAP theorem,   please!  ", "Explain the CAP theorem please"},
		{"Hi!", "Hi!"},
		{"", "New Chat"},
		{"!!!???", "!!!???"},
		{strings.Repeat("abcde ", 12), strings.TrimSpace(strings.Repeat("abcde ", 8)) + " ab"},
		{"Résumé tips for a backend role", "Rsum tips for a backend role"},
	}

	for _, tc := range tests {
		t.Run(tc.content, func(t *testing.T) {
			if got := AutoTitle(tc.content); got != tc.want {
				t.Errorf("AutoTitle(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

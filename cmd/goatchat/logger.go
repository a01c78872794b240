package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mandalnilabja/goatchat/internal/config"
	"github.com/mandalnilabja/goatchat/internal/version"
)

// parseLevel maps a level name to a slog level; unknown names are info.
func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func setupLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func printStartupBanner(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🐐 Goatchat %s - Multi-Provider Chat Gateway\n", version.Version)
	fmt.Fprintln(w, "════════════════════════════════════════════════")
	fmt.Fprintf(w, "Chat API:      http://localhost%s/v1/chat\n", cfg.ServerPort)
	fmt.Fprintf(w, "Conversations: http://localhost%s/v1/conversations\n", cfg.ServerPort)
	fmt.Fprintf(w, "Admin API:     http://localhost%s/api/admin/\n", cfg.ServerPort)
	fmt.Fprintf(w, "Default:       %s / %s\n", cfg.DefaultProvider, cfg.DefaultModel)
	fmt.Fprintf(w, "Data:          %s\n", config.DataDir())
	if cfg.AdminToken == "" {
		fmt.Fprintln(w, "Warning:       admin API is not protected (set GOATCHAT_ADMIN_TOKEN)")
	}
	fmt.Fprintln(w, "════════════════════════════════════════════════")
	fmt.Fprintf(w, "\n")
}

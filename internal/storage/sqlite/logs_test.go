package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/mandalnilabja/goatchat/internal/storage/models"
)

func TestRequestLogs(t *testing.T) {
	storage := setupTestDB(t)

	old := time.Now().Add(-48 * time.Hour)
	entries := []*models.RequestLog{
		{RequestID: "r1", Provider: "openrouter", Model: "a", IsStreaming: true, StatusCode: 200, DurationMs: 120},
		{RequestID: "r2", Provider: "gemini", Model: "b", StatusCode: 429, ErrorKind: "http_status", ErrorMessage: "slow down"},
		{RequestID: "r3", Provider: "openrouter", Model: "c", CreatedAt: old},
	}
	for _, e := range entries {
		if err := storage.LogRequest(e); err != nil {
			t.Fatalf("LogRequest failed: %v", err)
		}
	}

	all, err := storage.GetRequestLogs(models.LogFilter{})
	if err != nil {
		t.Fatalf("GetRequestLogs failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(all))
	}
	if all[len(all)-1].RequestID != "r3" {
		t.Errorf("expected oldest log last, got %q", all[len(all)-1].RequestID)
	}

	byProvider, _ := storage.GetRequestLogs(models.LogFilter{Provider: "openrouter"})
	if len(byProvider) != 2 {
		t.Errorf("expected 2 openrouter logs, got %d", len(byProvider))
	}

	failed, _ := storage.GetRequestLogs(models.LogFilter{Provider: "gemini"})
	if len(failed) != 1 || failed[0].ErrorKind != "http_status" || failed[0].StatusCode != 429 {
		t.Errorf("unexpected gemini log %+v", failed)
	}

	since := time.Now().Add(-time.Hour)
	recent, _ := storage.GetRequestLogs(models.LogFilter{StartDate: &since})
	if len(recent) != 2 {
		t.Errorf("expected 2 recent logs, got %d", len(recent))
	}

	limited, _ := storage.GetRequestLogs(models.LogFilter{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected 1 log, got %d", len(limited))
	}

	deleted, err := storage.DeleteRequestLogs(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteRequestLogs failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted log, got %d", deleted)
	}

	if err := storage.LogRequest(&models.RequestLog{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

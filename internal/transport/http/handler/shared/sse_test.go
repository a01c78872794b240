package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSSE(t *testing.T) {
	rec := httptest.NewRecorder()
	sse := NewSSE(rec)

	if sse.Started() {
		t.Fatal("expected stream not started before the first event")
	}
	if err := sse.Event(map[string]string{"delta": "He"}); err != nil {
		t.Fatalf("Event failed: %v", err)
	}
	if err := sse.Event(map[string]string{"delta": "llo"}); err != nil {
		t.Fatalf("Event failed: %v", err)
	}
	if err := sse.Done(); err != nil {
		t.Fatalf("Done failed: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected event-stream content type, got %q", ct)
	}
	if !rec.Flushed {
		t.Error("expected flushed response")
	}
	want := "data: {\"delta\":\"He\"}\n\ndata: {\"delta\":\"llo\"}\n\ndata: [DONE]\n\n"
	if rec.Body.String() != want {
		t.Errorf("expected %q, got %q", want, rec.Body.String())
	}
}

func TestWriteJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONError(rec, "bad", http.StatusBadRequest)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	want := "{\"error\":{\"code\":400,\"message\":\"bad\"}}\n"
	if rec.Body.String() != want {
		t.Errorf("expected %q, got %q", want, rec.Body.String())
	}
}

package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrStreamingUnsupported is returned when the writer cannot flush.
var ErrStreamingUnsupported = errors.New("streaming unsupported")

// SSE writes server-sent events: one "data:" line per event, flushed as it
// is written, and a final "data: [DONE]".
type SSE struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
}

// NewSSE prepares w for an event stream. Headers are sent with the first
// event so handlers can still fall back to a JSON error before that.
func NewSSE(w http.ResponseWriter) *SSE {
	return &SSE{w: w, rc: http.NewResponseController(w)}
}

// Started reports whether any event has been written.
func (s *SSE) Started() bool {
	return s.started
}

func (s *SSE) start() {
	if s.started {
		return
	}
	s.started = true
	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)
}

// Event writes v as a JSON data line.
func (s *SSE) Event(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.write(data)
}

// Done writes the end-of-stream marker.
func (s *SSE) Done() error {
	return s.write([]byte("[DONE]"))
}

func (s *SSE) write(data []byte) error {
	s.start()
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	if err := s.rc.Flush(); err != nil {
		if errors.Is(err, http.ErrNotSupported) {
			return ErrStreamingUnsupported
		}
		return err
	}
	return nil
}

// Writer returns the underlying writer, for error responses sent before
// the stream starts.
func (s *SSE) Writer() http.ResponseWriter {
	return s.w
}

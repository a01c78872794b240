package gateway

import (
	"bytes"
	"strings"
)

// Accumulator reassembles stream lines across arbitrary chunk boundaries
// and collects the deltas extracted from them. One per call; not safe for
// concurrent use.
type Accumulator struct {
	partial []byte
	text    strings.Builder
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Feed appends chunk and processes every complete line in order. Each
// non-empty delta is appended to the accumulated text and then passed to
// onDelta before the next line is looked at. The trailing fragment without
// a newline is kept for the next Feed.
func (a *Accumulator) Feed(chunk []byte, extract func(line string) (string, bool), onDelta func(string)) {
	buf := append(a.partial, chunk...)

	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			break
		}
		line := string(buf[:idx])
		buf = buf[idx+1:]

		if extract == nil {
			continue
		}
		delta, ok := extract(line)
		if !ok || delta == "" {
			continue
		}
		a.text.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}

	// Copy so the backing array of a large chunk is not retained
	a.partial = append([]byte(nil), buf...)
}

// Text returns everything accumulated so far.
func (a *Accumulator) Text() string {
	return a.text.String()
}

// Pending returns the number of buffered bytes not yet terminated by a
// newline. They are dropped when the stream ends.
func (a *Accumulator) Pending() int {
	return len(a.partial)
}

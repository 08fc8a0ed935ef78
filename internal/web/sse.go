package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Stream event names
const (
	eventProgress = "progress"
	eventItem     = "item"
	eventDone     = "done"
)

var (
	errStreamingUnsupported = errors.New("streaming unsupported")
	errStreamClosed         = errors.New("stream closed")
)

// eventStream writes Server-Sent Events. Sends are serialized; after the first
// failed write the stream is closed and further sends are dropped.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher

	mu     sync.Mutex
	closed bool

	progress rate.Sometimes
}

func newEventStream(w http.ResponseWriter, interval time.Duration) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &eventStream{
		w:        w,
		flusher:  flusher,
		progress: rate.Sometimes{First: 1, Interval: interval},
	}, nil
}

// Send writes one event with a JSON payload
func (s *eventStream) Send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStreamClosed
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		s.closed = true
		return err
	}
	s.flusher.Flush()
	return nil
}

// Throttled sends an event at most once per interval. The first call always goes out.
func (s *eventStream) Throttled(event string, data any) {
	s.progress.Do(func() {
		_ = s.Send(event, data)
	})
}

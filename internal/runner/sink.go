package runner

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/rxtech-lab/argo-signal/internal/types"
)

// JSONSink writes each signal as one JSON line.
type JSONSink struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

// NewJSONSink creates a sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{encoder: json.NewEncoder(w)}
}

// Publish implements Sink.
func (s *JSONSink) Publish(_ context.Context, signal types.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.encoder.Encode(signal)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, signal types.Signal) error

// Publish implements Sink.
func (f SinkFunc) Publish(ctx context.Context, signal types.Signal) error {
	return f(ctx, signal)
}

// MultiSink publishes to every sink in order and stops at the first error.
type MultiSink []Sink

// Publish implements Sink.
func (m MultiSink) Publish(ctx context.Context, signal types.Signal) error {
	for _, sink := range m {
		if err := sink.Publish(ctx, signal); err != nil {
			return err
		}
	}

	return nil
}

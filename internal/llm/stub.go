package llm

import (
	"context"
	"sync/atomic"
	"time"
)

// StubClient is an in-process Client returning a fixed reply. Delay simulates
// a slow model; the reply is still produced after ctx is done so callers can
// prove they discard late replies.
type StubClient struct {
	Response string
	Err      error
	Delay    time.Duration

	calls  atomic.Int32
	closed atomic.Bool
}

// Generate returns Response or Err after Delay
func (s *StubClient) Generate(ctx context.Context, _ string) (string, error) {
	s.calls.Add(1)
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}

// Calls reports how many times Generate ran
func (s *StubClient) Calls() int {
	return int(s.calls.Load())
}

// Closed reports whether Close was called
func (s *StubClient) Closed() bool {
	return s.closed.Load()
}

// Close marks the stub closed
func (s *StubClient) Close() error {
	s.closed.Store(true)
	return nil
}

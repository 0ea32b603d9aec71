package forwarder

import (
	"context"
	"sync"

	"github.com/Sokol111/log2kafka/pkg/messaging/kafka/producer"
)

type fakeSink struct {
	mu       sync.Mutex
	messages []producer.Message
	sendErr  error
	flushErr error
	flushes  int
	closed   bool
}

func (s *fakeSink) Send(_ context.Context, msg producer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeSink) Flush(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return s.flushErr
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSink) values() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, string(m.Value))
	}
	return out
}

// encoderFunc adapts a function to LineEncoder.
type encoderFunc func(line string) ([]byte, error)

func (f encoderFunc) Serialize(line string) ([]byte, error) {
	return f(line)
}

package producer

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Sokol111/log2kafka/pkg/messaging/kafka/config"
	"go.uber.org/zap"
)

// stdoutSink prints each message instead of producing it. Used for dry runs.
type stdoutSink struct {
	mu  sync.Mutex
	out io.Writer
}

func newStdoutSink(_ config.Config, _ *zap.Logger) (Sink, error) {
	return NewWriterSink(os.Stdout), nil
}

// NewWriterSink returns a sink that writes a header line and the hex-encoded value of
// every message to w.
func NewWriterSink(w io.Writer) Sink {
	return &stdoutSink{out: w}
}

func (s *stdoutSink) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dest := config.Destination{Topic: msg.Topic, Partition: msg.Partition}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.out, "%s key=%s %d bytes\n%s\n",
		dest, msg.Key, len(msg.Value), hex.EncodeToString(msg.Value)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

func (s *stdoutSink) Flush(context.Context) error {
	if f, ok := s.out.(interface{ Sync() error }); ok {
		// Sync fails on pipes and terminals; nothing useful to report.
		_ = f.Sync()
	}
	return nil
}

func (s *stdoutSink) Close() error {
	return nil
}

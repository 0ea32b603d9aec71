package forwarder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Sokol111/log2kafka/pkg/messaging/kafka/producer"
	"go.uber.org/zap"
)

const initialBufferSize = 64 * 1024

// LineReader feeds every line of its input to a Forwarder and flushes the sink at the end.
type LineReader struct {
	forwarder *Forwarder
	sink      producer.Sink
	cfg       InputConfig
	open      func() (io.ReadCloser, error)
	log       *zap.Logger
}

func newLineReader(f *Forwarder, sink producer.Sink, cfg InputConfig, log *zap.Logger) *LineReader {
	return &LineReader{
		forwarder: f,
		sink:      sink,
		cfg:       cfg,
		open:      func() (io.ReadCloser, error) { return openInput(cfg.Path) },
		log:       log,
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == StdinPath {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

// Run reads until end of input or until ctx is cancelled. Cancellation closes the input to
// unblock a pending read and is not an error.
func (r *LineReader) Run(ctx context.Context) error {
	in, err := r.open()
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = in.Close() })
	defer func() {
		if stop() {
			_ = in.Close()
		}
	}()

	r.log.Info("reading input", zap.String("path", r.cfg.Path))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, min(initialBufferSize, r.cfg.MaxLineSize)), r.cfg.MaxLineSize)

	var lines int64
	for scanner.Scan() {
		lines++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if _, err := r.forwarder.Forward(ctx, line); err != nil {
			if ctx.Err() != nil {
				break
			}
			if r.cfg.StopOnSendError {
				return fmt.Errorf("line %d: %w", lines, err)
			}
			r.log.Error("failed to forward line", zap.Int64("line", lines), zap.Error(err))
		}
	}

	if ctx.Err() != nil {
		r.log.Info("input reading cancelled", zap.Int64("lines", lines))
		return nil
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("line %d exceeds max-line-size of %d bytes: %w", lines+1, r.cfg.MaxLineSize, err)
		}
		return fmt.Errorf("failed to read input: %w", err)
	}

	if err := r.sink.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush sink: %w", err)
	}

	stats := r.forwarder.Stats()
	r.log.Info("input exhausted",
		zap.Int64("lines", lines),
		zap.Int64("encoded", stats.Encoded),
		zap.Int64("raw", stats.Raw),
		zap.Int64("discarded", stats.Discarded),
		zap.Int64("send_errors", stats.SendErrors))
	return nil
}

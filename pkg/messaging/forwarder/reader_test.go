package forwarder

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestReader(t *testing.T, input io.ReadCloser, cfg InputConfig) (*LineReader, *fakeSink, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	sink := &fakeSink{}
	f, err := New(Options{Sink: sink})
	require.NoError(t, err)

	applyDefaults(&cfg)
	r := newLineReader(f, sink, cfg, zap.New(core))
	r.open = func() (io.ReadCloser, error) { return input, nil }
	return r, sink, logs
}

func TestLineReader_Run(t *testing.T) {
	// Given
	input := io.NopCloser(strings.NewReader("first\r\n\nsecond\nthird"))
	r, sink, logs := newTestReader(t, input, InputConfig{})

	// When
	err := r.Run(context.Background())

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, sink.values())
	assert.Equal(t, 1, sink.flushes)

	summary := logs.FilterMessage("input exhausted").All()
	require.Len(t, summary, 1)
	fields := summary[0].ContextMap()
	assert.Equal(t, int64(4), fields["lines"])
	assert.Equal(t, int64(3), fields["raw"])
	assert.Equal(t, int64(1), fields["discarded"])
}

func TestLineReader_ReadsFile(t *testing.T) {
	// Given
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o600))

	sink := &fakeSink{}
	f, err := New(Options{Sink: sink})
	require.NoError(t, err)
	cfg := InputConfig{Path: path}
	applyDefaults(&cfg)
	r := newLineReader(f, sink, cfg, zap.NewNop())

	// When
	err = r.Run(context.Background())

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, sink.values())
}

func TestLineReader_MissingFile(t *testing.T) {
	sink := &fakeSink{}
	f, err := New(Options{Sink: sink})
	require.NoError(t, err)
	r := newLineReader(f, sink, InputConfig{Path: filepath.Join(t.TempDir(), "absent.log"), MaxLineSize: defaultMaxLineSize}, zap.NewNop())

	err = r.Run(context.Background())

	assert.ErrorContains(t, err, "failed to open input")
	assert.Zero(t, sink.flushes)
}

func TestLineReader_LineTooLong(t *testing.T) {
	// Given
	input := io.NopCloser(strings.NewReader("short\n" + strings.Repeat("x", 200) + "\n"))
	r, sink, _ := newTestReader(t, input, InputConfig{MaxLineSize: 64})

	// When
	err := r.Run(context.Background())

	// Then
	require.Error(t, err)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, []string{"short"}, sink.values())
	assert.Zero(t, sink.flushes)
}

func TestLineReader_SendErrors(t *testing.T) {
	tests := []struct {
		name        string
		stopOnError bool
		wantErr     bool
	}{
		{name: "logged and skipped by default", stopOnError: false, wantErr: false},
		{name: "stops when configured", stopOnError: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			input := io.NopCloser(strings.NewReader("a\nb\n"))
			r, sink, logs := newTestReader(t, input, InputConfig{StopOnSendError: tt.stopOnError})
			sink.sendErr = errors.New("queue full")

			// When
			err := r.Run(context.Background())

			// Then
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSend)
				assert.Contains(t, err.Error(), "line 1")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, logs.FilterMessage("failed to forward line").Len())
			assert.Equal(t, 1, sink.flushes)
		})
	}
}

func TestLineReader_CancelUnblocksRead(t *testing.T) {
	// Given: a pipe that never delivers EOF
	pr, pw := io.Pipe()
	defer pw.Close()
	r, sink, _ := newTestReader(t, pr, InputConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	_, err := pw.Write([]byte("line\n"))
	require.NoError(t, err)

	// When
	cancel()

	// Then
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, []string{"line"}, sink.values())
	assert.Zero(t, sink.flushes)
}

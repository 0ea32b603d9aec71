package producer

import (
	"bytes"
	"context"
	"testing"

	"github.com/Sokol111/log2kafka/pkg/messaging/kafka/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Run("builds stdout sink", func(t *testing.T) {
		s, err := New(config.DriverStdout, testConfig(), zap.NewNop())

		require.NoError(t, err)
		assert.IsType(t, &stdoutSink{}, s)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		_, err := New("pigeon", testConfig(), zap.NewNop())

		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown sink driver "pigeon"`)
	})
}

func TestRegister(t *testing.T) {
	var out bytes.Buffer
	Register("buffer", func(config.Config, *zap.Logger) (Sink, error) {
		return NewWriterSink(&out), nil
	})

	s, err := New("buffer", testConfig(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), Message{Topic: "logs", Value: []byte{0x01}}))

	assert.Contains(t, Drivers(), "buffer")
	assert.Equal(t, "logs key= 1 bytes\n01\n", out.String())
}

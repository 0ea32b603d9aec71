package forwarder

import (
	"context"
	"errors"
	"testing"

	"github.com/Sokol111/log2kafka/pkg/messaging/avro/mapping"
	kafkaconfig "github.com/Sokol111/log2kafka/pkg/messaging/kafka/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testForwarder struct {
	*Forwarder
	sink   *fakeSink
	reader *sdkmetric.ManualReader
	logs   *observer.ObservedLogs
}

func newTestForwarder(t *testing.T, enc LineEncoder) *testForwarder {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	reader := sdkmetric.NewManualReader()
	sink := &fakeSink{}
	partition := int32(3)

	f, err := New(Options{
		Encoder:       enc,
		Sink:          sink,
		Destination:   kafkaconfig.Destination{Topic: "logs", Partition: &partition},
		Key:           []byte("L2K"),
		Logger:        zap.New(core),
		MeterProvider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
	})
	require.NoError(t, err)
	return &testForwarder{Forwarder: f, sink: sink, reader: reader, logs: logs}
}

// counter sums every data point of the named counter, optionally filtered by attribute.
func (tf *testForwarder) counter(t *testing.T, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, tf.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if matchesAttrs(dp.Attributes, attrs) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func matchesAttrs(set attribute.Set, attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		v, ok := set.Value(kv.Key)
		if !ok || v.Emit() != kv.Value.Emit() {
			return false
		}
	}
	return true
}

func TestNew_RequiresSink(t *testing.T) {
	_, err := New(Options{})

	assert.ErrorContains(t, err, "sink is required")
}

func TestForward_Encoded(t *testing.T) {
	// Given
	enc := encoderFunc(func(line string) ([]byte, error) {
		return []byte("avro:" + line), nil
	})
	tf := newTestForwarder(t, enc)

	// When
	outcome, err := tf.Forward(context.Background(), "INFO: started")

	// Then
	require.NoError(t, err)
	assert.Equal(t, OutcomeEncoded, outcome)
	require.Len(t, tf.sink.messages, 1)
	msg := tf.sink.messages[0]
	assert.Equal(t, "logs", msg.Topic)
	require.NotNil(t, msg.Partition)
	assert.Equal(t, int32(3), *msg.Partition)
	assert.Equal(t, []byte("L2K"), msg.Key)
	assert.Equal(t, []byte("avro:INFO: started"), msg.Value)

	assert.Equal(t, Stats{Encoded: 1}, tf.Stats())
	assert.Equal(t, int64(1), tf.counter(t, "log2kafka.lines.encoded"))
}

func TestForward_EmptyLineDiscarded(t *testing.T) {
	// Given
	called := false
	tf := newTestForwarder(t, encoderFunc(func(string) ([]byte, error) {
		called = true
		return nil, nil
	}))

	// When
	outcome, err := tf.Forward(context.Background(), "")

	// Then
	require.NoError(t, err)
	assert.Equal(t, OutcomeDiscarded, outcome)
	assert.False(t, called)
	assert.Empty(t, tf.sink.messages)
	assert.Equal(t, Stats{Discarded: 1}, tf.Stats())
	assert.Equal(t, int64(1), tf.counter(t, "log2kafka.lines.discarded"))
	assert.Equal(t, 1, tf.logs.FilterMessage("empty message discarded").Len())
}

func TestForward_NoEncoderSendsRaw(t *testing.T) {
	tf := newTestForwarder(t, nil)

	outcome, err := tf.Forward(context.Background(), "plain text")

	require.NoError(t, err)
	assert.Equal(t, OutcomeRaw, outcome)
	assert.Equal(t, []string{"plain text"}, tf.sink.values())
	assert.Equal(t, int64(1), tf.counter(t, "log2kafka.lines.raw", attribute.String("reason", "no_serializer")))
}

func TestForward_FallsBackToRaw(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
		field  string
	}{
		{
			name:   "extraction failure",
			err:    &mapping.ExtractionError{Field: "host"},
			reason: "extraction",
			field:  "host",
		},
		{
			name:   "coercion failure",
			err:    &mapping.CoercionError{Field: "status", Value: "abc", Err: errors.New("invalid syntax")},
			reason: "coercion",
			field:  "status",
		},
		{
			name:   "unclassified failure",
			err:    errors.New("boom"),
			reason: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			tf := newTestForwarder(t, encoderFunc(func(string) ([]byte, error) {
				return nil, tt.err
			}))

			// When
			outcome, err := tf.Forward(context.Background(), "unparseable line")

			// Then
			require.NoError(t, err)
			assert.Equal(t, OutcomeRaw, outcome)
			assert.Equal(t, []string{"unparseable line"}, tf.sink.values())
			assert.Equal(t, int64(1), tf.counter(t, "log2kafka.lines.raw", attribute.String("reason", tt.reason)))

			warnings := tf.logs.FilterMessage("serialization failed, sending raw message").FilterLevelExact(zapcore.WarnLevel)
			require.Equal(t, 1, warnings.Len())
			fields := warnings.All()[0].ContextMap()
			assert.Equal(t, tt.reason, fields["kind"])
			assert.Equal(t, tt.field, fields["field"])
		})
	}
}

func TestForward_ThrottlesRepeatedWarnings(t *testing.T) {
	// Given
	tf := newTestForwarder(t, encoderFunc(func(string) ([]byte, error) {
		return nil, &mapping.ExtractionError{Field: "host"}
	}))

	// When
	for range 5 {
		_, err := tf.Forward(context.Background(), "no host here")
		require.NoError(t, err)
	}

	// Then
	msgs := tf.logs.FilterMessage("serialization failed, sending raw message")
	assert.Equal(t, 1, msgs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t, 4, msgs.FilterLevelExact(zapcore.DebugLevel).Len())
	assert.Equal(t, int64(5), tf.Stats().Raw)
}

func TestForward_SendError(t *testing.T) {
	// Given
	tf := newTestForwarder(t, encoderFunc(func(line string) ([]byte, error) {
		return []byte(line), nil
	}))
	brokerErr := errors.New("broker unavailable")
	tf.sink.sendErr = brokerErr

	// When
	outcome, err := tf.Forward(context.Background(), "INFO: started")

	// Then
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSend)
	assert.ErrorIs(t, err, brokerErr)
	assert.Equal(t, OutcomeEncoded, outcome)
	assert.Equal(t, Stats{SendErrors: 1}, tf.Stats())
	assert.Equal(t, int64(1), tf.counter(t, "log2kafka.send.errors"))
	assert.Zero(t, tf.counter(t, "log2kafka.lines.encoded"))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "discarded", OutcomeDiscarded.String())
	assert.Equal(t, "encoded", OutcomeEncoded.String())
	assert.Equal(t, "raw", OutcomeRaw.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}

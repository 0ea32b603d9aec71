package logger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogThrottler_DefaultInterval(t *testing.T) {
	// Given: zero interval
	// When: creating throttler
	throttler := NewLogThrottler(zap.NewNop(), 0)

	// Then: interval should default to 5 minutes
	require.NotNil(t, throttler)
	assert.Equal(t, 5*time.Minute, throttler.interval)
}

func TestLogThrottler_Warn_FirstCallLogsWarn(t *testing.T) {
	// Given: a new throttler with observer
	core, logs := observer.New(zapcore.DebugLevel)
	throttler := NewLogThrottler(zap.New(core), time.Minute)

	// When: first call with a key
	emitted := throttler.Warn("test-key", "test message", zap.String("field", "value"))

	// Then: should log as WARN without a suppressed count
	assert.True(t, emitted)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "value", entry.ContextMap()["field"])
	assert.NotContains(t, entry.ContextMap(), "suppressed")
}

func TestLogThrottler_Warn_SubsequentCallsLogDebug(t *testing.T) {
	// Given: a throttler with a long interval
	core, logs := observer.New(zapcore.DebugLevel)
	throttler := NewLogThrottler(zap.New(core), time.Hour)

	// When: multiple calls with the same key
	throttler.Warn("test-key", "first message")
	emitted := throttler.Warn("test-key", "second message")

	// Then: first should be WARN, rest should be DEBUG
	assert.False(t, emitted)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.DebugLevel, logs.All()[1].Level)
}

func TestLogThrottler_Warn_ReportsSuppressedCount(t *testing.T) {
	// Given: a throttler with a short interval
	core, logs := observer.New(zapcore.WarnLevel)
	throttler := NewLogThrottler(zap.New(core), 20*time.Millisecond)

	// When: several calls are demoted before the interval passes
	throttler.Warn("test-key", "msg")
	throttler.Warn("test-key", "msg")
	throttler.Warn("test-key", "msg")
	time.Sleep(40 * time.Millisecond)
	throttler.Warn("test-key", "msg")

	// Then: the second WARN carries the number of demoted entries
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, int64(2), logs.All()[1].ContextMap()["suppressed"])
}

func TestLogThrottler_Warn_DifferentKeysAreIndependent(t *testing.T) {
	// Given: a throttler
	core, logs := observer.New(zapcore.DebugLevel)
	throttler := NewLogThrottler(zap.New(core), time.Hour)

	// When: interleaved calls with different keys
	throttler.Warn("key-a", "first A")
	throttler.Warn("key-b", "first B")
	throttler.Warn("key-a", "second A")

	// Then: each key has its own limiter
	require.Equal(t, 3, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
	assert.Equal(t, zapcore.DebugLevel, logs.All()[2].Level)
}

func TestLogThrottler_ConcurrentAccess(t *testing.T) {
	// Given: a throttler
	core, logs := observer.New(zapcore.DebugLevel)
	throttler := NewLogThrottler(zap.New(core), time.Hour)

	// When: concurrent access from multiple goroutines
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				throttler.Warn("shared-key", "concurrent message")
			}
		}()
	}
	wg.Wait()

	// Then: every call is logged and exactly one is WARN
	assert.Equal(t, 500, logs.Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

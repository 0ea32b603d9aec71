package logger

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultThrottleInterval = 5 * time.Minute

// LogThrottler emits a WARN at most once per interval for each key and demotes the rest
// to DEBUG. The next WARN for a key carries the number of entries demoted since the last one.
type LogThrottler struct {
	log      *zap.Logger
	interval time.Duration

	mu   sync.Mutex
	keys map[string]*throttleState
}

type throttleState struct {
	limiter    *rate.Limiter
	suppressed int
}

// NewLogThrottler creates a new LogThrottler with the given logger.
// If interval is 0, it defaults to 5 minutes.
func NewLogThrottler(log *zap.Logger, interval time.Duration) *LogThrottler {
	if interval == 0 {
		interval = defaultThrottleInterval
	}
	return &LogThrottler{
		log:      log,
		interval: interval,
		keys:     make(map[string]*throttleState),
	}
}

// Warn logs msg as WARN when the key's limiter allows it and as DEBUG otherwise.
// It reports whether the WARN was emitted.
func (t *LogThrottler) Warn(key string, msg string, fields ...zap.Field) bool {
	allowed, suppressed := t.take(key)
	if !allowed {
		t.log.Debug(msg, fields...)
		return false
	}
	if suppressed > 0 {
		fields = append(fields, zap.Int("suppressed", suppressed))
	}
	t.log.Warn(msg, fields...)
	return true
}

func (t *LogThrottler) take(key string) (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.keys[key]
	if !ok {
		// 1 event per interval, no burst
		state = &throttleState{limiter: rate.NewLimiter(rate.Every(t.interval), 1)}
		t.keys[key] = state
	}
	if !state.limiter.Allow() {
		state.suppressed++
		return false, 0
	}
	suppressed := state.suppressed
	state.suppressed = 0
	return true, suppressed
}

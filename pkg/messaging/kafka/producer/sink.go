package producer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Sokol111/log2kafka/pkg/messaging/kafka/config"
	"go.uber.org/zap"
)

// Message is one payload addressed to a topic. A nil Partition lets the driver choose.
type Message struct {
	Topic     string
	Partition *int32
	Key       []byte
	Value     []byte
}

// Sink accepts messages for delivery to Kafka.
type Sink interface {
	// Send hands the message to the driver. Drivers with asynchronous delivery return once the
	// message is queued and report delivery failures through the log.
	Send(ctx context.Context, msg Message) error
	// Flush waits until queued messages are delivered or ctx is done.
	Flush(ctx context.Context) error
	// Close flushes and releases the driver. Safe to call more than once.
	Close() error
}

// Factory builds a sink for the given configuration.
type Factory func(conf config.Config, log *zap.Logger) (Sink, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		config.DriverConfluent: newConfluentSink,
		config.DriverSarama:    newSaramaSink,
		config.DriverStdout:    newStdoutSink,
	}
)

// Register makes a sink driver available under name, replacing any previous one.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// New builds the sink registered under name.
func New(name string, conf config.Config, log *zap.Logger) (Sink, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown sink driver %q (available: %v)", name, Drivers())
	}
	return f(conf, log)
}

// Drivers lists registered driver names in sorted order.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package serialization turns text lines into self-describing Avro containers.
package serialization

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Sokol111/log2kafka/pkg/messaging/avro/encoding"
	"github.com/Sokol111/log2kafka/pkg/messaging/avro/mapping"
	hambavro "github.com/hamba/avro/v2"
	"go.uber.org/zap"
)

// Serializer maps a line to a record and frames it as a complete Avro container.
// Configuration, compiled patterns and the sync token are fixed at construction, so one
// Serializer may be shared by concurrent callers once New has returned.
type Serializer struct {
	mapper  *mapping.Mapper
	encoder *encoding.FrameEncoder
}

type options struct {
	log          *zap.Logger
	sync         *encoding.Sync
	matchTimeout *time.Duration
}

// Option configures a Serializer.
type Option func(*options)

// WithLogger sets the logger used while loading the configuration.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithSync fixes the sync token instead of generating one.
func WithSync(sync encoding.Sync) Option {
	return func(o *options) {
		o.sync = &sync
	}
}

// WithMatchTimeout bounds a single pattern evaluation.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.matchTimeout = &d
	}
}

// New reads a schema/mapping configuration and builds a Serializer. Any configuration error
// aborts construction.
func New(source io.Reader, opts ...Option) (*Serializer, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	content, err := io.ReadAll(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read serializer config: %w", err)
	}

	var parseOpts []mapping.ParseOption
	if o.matchTimeout != nil {
		parseOpts = append(parseOpts, mapping.WithMatchTimeout(*o.matchTimeout))
	}

	cfg, err := mapping.Parse(string(content), parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load serializer config: %w", err)
	}

	sync := encoding.NewSync()
	if o.sync != nil {
		sync = *o.sync
	}

	encoder, err := encoding.NewFrameEncoder(cfg.Schema, cfg.SchemaJSON, sync)
	if err != nil {
		return nil, fmt.Errorf("failed to build container header: %w", err)
	}

	o.log.Info("serializer configured",
		zap.String("schema", cfg.Schema.FullName()),
		zap.Int("mappings", len(cfg.Mappings)),
		zap.Stringer("sync", sync),
	)
	for _, m := range cfg.Mappings {
		o.log.Debug("field mapping",
			zap.String("field", m.Field),
			zap.String("pattern", m.Pattern),
			zap.Int("group", m.Group),
		)
	}

	return &Serializer{
		mapper:  mapping.NewMapper(cfg),
		encoder: encoder,
	}, nil
}

// NewFromFile builds a Serializer from a configuration file.
func NewFromFile(path string, opts ...Option) (*Serializer, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open serializer config [%s]: %w", path, err)
	}
	defer f.Close()

	return New(f, opts...)
}

// Serialize returns header ++ data block for one line. A zero-length line fails with
// ErrEmptyInput without touching the patterns.
func (s *Serializer) Serialize(line string) ([]byte, error) {
	if len(line) == 0 {
		return nil, ErrEmptyInput
	}

	record, err := s.mapper.Extract(line)
	if err != nil {
		return nil, err
	}

	return s.encoder.Frame(record)
}

// Schema returns the record schema.
func (s *Serializer) Schema() *hambavro.RecordSchema {
	return s.mapper.Config().Schema
}

// Sync returns the token shared by every container this Serializer produces.
func (s *Serializer) Sync() encoding.Sync {
	return s.encoder.Sync()
}

// Header returns a copy of the container header.
func (s *Serializer) Header() []byte {
	return s.encoder.Header()
}

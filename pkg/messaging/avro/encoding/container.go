// Package encoding writes Avro object containers holding a single data block.
//
// Every frame produced by a FrameEncoder is a complete container:
//
//	magic(4) | metadata map | sync(16) | count=1 | length | record(length bytes) | sync(16)
//
// so that a reader decodes it without any external schema.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"

	hambavro "github.com/hamba/avro/v2"
)

// Magic opens every Avro object container.
var Magic = [4]byte{'O', 'b', 'j', 1}

// Reserved metadata keys.
const (
	SchemaKey = "avro.schema"
	CodecKey  = "avro.codec"
)

// NullCodec marks uncompressed data blocks.
const NullCodec = "null"

// ErrEncoding is the parent of every error returned while encoding a record.
var ErrEncoding = errors.New("avro encoding failed")

const writerBufferSize = 512

// FrameEncoder builds the container header once and frames records behind it.
// It holds no mutable state and is safe for concurrent use.
type FrameEncoder struct {
	schema  hambavro.Schema
	encoder Encoder
	sync    Sync
	header  []byte
}

// FrameOption configures a FrameEncoder.
type FrameOption func(*FrameEncoder)

// WithEncoder replaces the default hamba/avro record encoder.
func WithEncoder(encoder Encoder) FrameOption {
	return func(e *FrameEncoder) {
		e.encoder = encoder
	}
}

// NewFrameEncoder writes the header for schema. schemaJSON is stored verbatim under SchemaKey.
func NewFrameEncoder(schema hambavro.Schema, schemaJSON string, sync Sync, opts ...FrameOption) (*FrameEncoder, error) {
	e := &FrameEncoder{
		schema:  schema,
		encoder: NewHambaEncoder(),
		sync:    sync,
	}
	for _, opt := range opts {
		opt(e)
	}

	header, err := buildHeader(map[string][]byte{
		SchemaKey: []byte(schemaJSON),
		CodecKey:  []byte(NullCodec),
	}, sync)
	if err != nil {
		return nil, err
	}
	e.header = header

	return e, nil
}

// Sync returns the token written after the header and after every data block.
func (e *FrameEncoder) Sync() Sync {
	return e.sync
}

// Header returns a copy of the container header.
func (e *FrameEncoder) Header() []byte {
	return slices.Clone(e.header)
}

// Encode returns the data block for one record: count, byte length, payload and sync.
func (e *FrameEncoder) Encode(record any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.writeBlock(&buf, record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Frame returns header and data block in one buffer.
func (e *FrameEncoder) Frame(record any) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(e.header) + writerBufferSize)
	buf.Write(e.header)

	if err := e.writeBlock(&buf, record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *FrameEncoder) writeBlock(buf *bytes.Buffer, record any) error {
	payload, err := e.encoder.Encode(record, e.schema)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	w := hambavro.NewWriter(buf, writerBufferSize)
	w.WriteLong(1)
	w.WriteLong(int64(len(payload)))
	_, _ = w.Write(payload)
	_, _ = w.Write(e.sync[:])
	return flush(w)
}

// buildHeader writes magic, the metadata map with keys in sorted order and the sync token.
func buildHeader(meta map[string][]byte, sync Sync) ([]byte, error) {
	var buf bytes.Buffer
	w := hambavro.NewWriter(&buf, writerBufferSize)

	_, _ = w.Write(Magic[:])

	keys := slices.Sorted(maps.Keys(meta))
	w.WriteLong(int64(len(keys)))
	for _, key := range keys {
		w.WriteString(key)
		w.WriteBytes(meta[key])
	}
	w.WriteLong(0)

	_, _ = w.Write(sync[:])

	if err := flush(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func flush(w *hambavro.Writer) error {
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if w.Error != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, w.Error)
	}
	return nil
}

package encoding

import (
	"fmt"

	hambavro "github.com/hamba/avro/v2"
)

// Encoder encodes a record value to Avro binary.
type Encoder interface {
	// Encode serializes msg using the schema's binary encoding.
	Encode(msg any, schema hambavro.Schema) ([]byte, error)
}

type hambaEncoder struct{}

// NewHambaEncoder creates an Avro encoder using hamba/avro library.
func NewHambaEncoder() Encoder {
	return &hambaEncoder{}
}

func (e *hambaEncoder) Encode(msg any, schema hambavro.Schema) ([]byte, error) {
	avroData, err := hambavro.Marshal(schema, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal avro data: %w", err)
	}
	return avroData, nil
}

package encoding

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// SyncSize is the length of the token separating container blocks.
const SyncSize = 16

// Sync is the token written after the header and after every data block.
type Sync [SyncSize]byte

// NewSync returns a token taken from a random UUID. It only has to differ between encoders
// writing to the same reader.
func NewSync() Sync {
	return Sync(uuid.New())
}

func (s Sync) String() string {
	return hex.EncodeToString(s[:])
}

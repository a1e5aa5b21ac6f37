// Package block implements the sealed unit of the ledger. A block binds a
// caller payload to its position in the chain and to the proof-of-work that
// sealed it.
package block

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

// GenesisPrevHash is the previous-hash sentinel carried only by the
// genesis block.
const GenesisPrevHash = "0"

// zeroDigest is returned when a payload cannot be serialized for hashing.
// It can never satisfy a difficulty check against a real chain.
const zeroDigest = "0000000000000000000000000000000000000000000000000000000000000000"

// ErrMissingFields is returned when a persisted record lacks the fields
// required to reconstruct a block.
var ErrMissingFields = errors.New("record missing required fields")

// =============================================================================

// Payload represents the caller supplied data recorded inside a block.
// Values may be nested maps, sequences, or scalars.
type Payload map[string]any

// Block represents one sealed record in the ledger. Once mined, a block
// is never mutated again.
type Block struct {
	Index     uint64    // Position in the chain, strictly sequential from 0.
	Timestamp uint64    // Wall-clock capture at creation, part of the hash.
	Payload   Payload   // Caller data plus linkage metadata.
	PrevHash  string    // Hash of the predecessor, or the genesis sentinel.
	Nonce     uint64    // Mutated only by the proof-of-work search.
	Hash      string    // Hex digest over the five hashed fields.
	CreatedAt time.Time // Informational capture time, excluded from the hash.
}

// New constructs a block in its unsealed state. The hash is computed
// immediately over nonce zero so mining can start from a consistent value.
func New(index uint64, timestamp uint64, payload Payload, prevHash string) Block {
	b := Block{
		Index:     index,
		Timestamp: timestamp,
		Payload:   payload,
		PrevHash:  prevHash,
		Nonce:     0,
		CreatedAt: time.Now().UTC(),
	}
	b.Hash = b.ComputeHash()

	return b
}

// ComputeHash returns the SHA-256 hex digest of the canonical serialization
// of the block's hashed fields. The fields are marshaled through a map so
// the JSON encoder emits keys in sorted order, which keeps the digest
// reproducible across implementations.
func (b Block) ComputeHash() string {
	canonical := map[string]any{
		"index":         b.Index,
		"timestamp":     b.Timestamp,
		"data":          b.Payload,
		"previous_hash": b.PrevHash,
		"nonce":         b.Nonce,
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return zeroDigest
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// =============================================================================

// BlockData represents what is serialized to disk for a single block.
type BlockData struct {
	Index     uint64  `json:"index"`
	Timestamp uint64  `json:"timestamp"`
	Data      Payload `json:"data"`
	PrevHash  string  `json:"previous_hash"`
	Nonce     uint64  `json:"nonce"`
	Hash      string  `json:"hash"`
	CreatedAt string  `json:"created_at"`
}

// NewBlockData constructs the value to serialize to disk.
func NewBlockData(b Block) BlockData {
	return BlockData{
		Index:     b.Index,
		Timestamp: b.Timestamp,
		Data:      b.Payload,
		PrevHash:  b.PrevHash,
		Nonce:     b.Nonce,
		Hash:      b.Hash,
		CreatedAt: b.CreatedAt.Format(time.RFC3339Nano),
	}
}

// ToBlock converts a persisted record back into a block, preserving the
// stored hash and nonce. Hashes are never recomputed on load so tampering
// stays detectable by validation.
func ToBlock(bd BlockData) (Block, error) {
	if bd.Hash == "" || bd.PrevHash == "" || bd.Data == nil {
		return Block{}, ErrMissingFields
	}

	createdAt, err := time.Parse(time.RFC3339Nano, bd.CreatedAt)
	if err != nil {
		createdAt = time.Now().UTC()
	}

	b := Block{
		Index:     bd.Index,
		Timestamp: bd.Timestamp,
		Payload:   bd.Data,
		PrevHash:  bd.PrevHash,
		Nonce:     bd.Nonce,
		Hash:      bd.Hash,
		CreatedAt: createdAt,
	}

	return b, nil
}

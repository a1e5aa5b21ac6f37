package ledgergrp

import (
	"time"

	"github.com/voteguard/ledger/business/sys/validate"
	"github.com/voteguard/ledger/foundation/ledger/block"
)

// newRecord is what a caller submits to have sealed into the ledger. The
// data map is opaque to the ledger; callers recording sensitive content
// should submit a content hash or reference rather than the raw data.
type newRecord struct {
	Data map[string]any `json:"data" validate:"required,min=1"`
}

// Validate checks the record against the validation rules.
func (nr newRecord) Validate() error {
	return validate.Check(nr)
}

// blockResult is the client representation of a sealed block.
type blockResult struct {
	Index     uint64         `json:"index"`
	Timestamp uint64         `json:"timestamp"`
	Data      map[string]any `json:"data"`
	PrevHash  string         `json:"previous_hash"`
	Nonce     uint64         `json:"nonce"`
	Hash      string         `json:"hash"`
	CreatedAt string         `json:"created_at"`
}

func toBlockResult(b block.Block) blockResult {
	return blockResult{
		Index:     b.Index,
		Timestamp: b.Timestamp,
		Data:      b.Payload,
		PrevHash:  b.PrevHash,
		Nonce:     b.Nonce,
		Hash:      b.Hash,
		CreatedAt: b.CreatedAt.Format(time.RFC3339Nano),
	}
}

func toBlockResults(blocks []block.Block) []blockResult {
	results := make([]blockResult, len(blocks))
	for i, b := range blocks {
		results[i] = toBlockResult(b)
	}
	return results
}

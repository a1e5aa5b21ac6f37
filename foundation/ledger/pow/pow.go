// Package pow implements the proof-of-work search that seals a block. The
// search is the one deliberately CPU-heavy primitive in the ledger, so it
// lives behind a small worker type that callers can substitute in tests.
package pow

import (
	"errors"

	"github.com/voteguard/ledger/foundation/ledger/block"
)

// DefaultMaxIterations bounds the nonce search for the low-volume audit
// workload this ledger serves. The cap is policy, not a protocol constant.
const DefaultMaxIterations = 1_000_000

// ErrMiningTimeout is returned when the iteration cap is exhausted before
// a hash satisfying the difficulty target is found. The operation is
// retryable; the candidate block must be discarded by the caller.
var ErrMiningTimeout = errors.New("mining iteration cap exhausted")

// EventHandler defines a function that is called when events occur during
// the mining operation.
type EventHandler func(v string, args ...any)

// =============================================================================

// Worker performs the nonce search for candidate blocks.
type Worker struct {
	maxIterations uint64
	evHandler     EventHandler
}

// New constructs a mining worker with the specified iteration cap. A cap
// of zero selects DefaultMaxIterations.
func New(maxIterations uint64, evHandler EventHandler) *Worker {
	if maxIterations == 0 {
		maxIterations = DefaultMaxIterations
	}

	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Worker{
		maxIterations: maxIterations,
		evHandler:     ev,
	}
}

// Mine increments the block's nonce and recomputes its hash until the hex
// digest carries at least difficulty leading '0' characters or the
// iteration cap is reached. Pointer semantics are being used since a nonce
// is being discovered.
func (w *Worker) Mine(b *block.Block, difficulty int) error {
	w.evHandler("pow: mine: started: block[%d] difficulty[%d]", b.Index, difficulty)
	defer w.evHandler("pow: mine: completed: block[%d]", b.Index)

	var attempts uint64
	for !IsSolved(difficulty, b.Hash) {
		if attempts >= w.maxIterations {
			w.evHandler("pow: mine: TIMEOUT: block[%d] attempts[%d]", b.Index, attempts)
			return ErrMiningTimeout
		}

		attempts++
		if attempts%100_000 == 0 {
			w.evHandler("pow: mine: attempts[%d]", attempts)
		}

		b.Nonce++
		b.Hash = b.ComputeHash()
	}

	w.evHandler("pow: mine: SOLVED: block[%d] nonce[%d] hash[%s]", b.Index, b.Nonce, b.Hash)

	return nil
}

// IsSolved checks the hash complies with the proof-of-work rules. We need
// to match a difficulty number of leading '0' characters.
func IsSolved(difficulty int, hash string) bool {
	const match = "0000000000000000"

	if len(hash) != 64 {
		return false
	}

	if difficulty <= 0 {
		return true
	}

	return hash[:difficulty] == match[:difficulty]
}

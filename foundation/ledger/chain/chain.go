// Package chain is the core API for the ledger and implements all the
// business rules and processing: genesis creation, sequential append with
// commit-or-rollback, full-chain validation, and linear payload search.
package chain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/voteguard/ledger/foundation/ledger/block"
	"github.com/voteguard/ledger/foundation/ledger/pow"
)

// Difficulty is clamped to this range to bound mining latency. The ledger
// is a tamper-evidence mechanism for a low-volume audit log, not a
// competitive mining network.
const (
	minDifficulty = 1
	maxDifficulty = 4
)

// ledgerVersion is stamped into the linkage metadata of every appended
// record.
const ledgerVersion = "1.0"

// ErrInvalidGenesis is returned when the first block of a chain fails the
// sentinel or index check.
var ErrInvalidGenesis = errors.New("invalid genesis block")

// =============================================================================

// EventHandler defines a function that is called when events occur in the
// processing of blocks.
type EventHandler func(v string, args ...any)

// Miner interface represents the behavior required to be implemented by
// any package providing support for sealing a candidate block. Tests
// substitute a zero-difficulty variant to stay fast.
type Miner interface {
	Mine(b *block.Block, difficulty int) error
}

// Storage interface represents the behavior required to be implemented by
// any package providing support for persisting the block sequence.
type Storage interface {
	ReadAll() ([]block.BlockData, error)
	WriteAll(records []block.BlockData) error
	Reset() error
	Close() error
}

// =============================================================================

// Config represents the configuration required to construct a chain.
type Config struct {
	Storage    Storage
	Miner      Miner
	Difficulty int
	EvHandler  EventHandler
}

// Info represents a summary of the chain's current state.
type Info struct {
	Blocks      int    `json:"blocks"`
	Difficulty  int    `json:"difficulty"`
	Valid       bool   `json:"valid"`
	LatestIndex uint64 `json:"latest_index"`
	LatestHash  string `json:"latest_hash"`
}

// Chain manages the hash-linked block sequence. A chain is constructed
// once per process and handed to callers by reference; it assumes a single
// logical writer, with Append taking exclusive access and the read
// operations taking shared access.
type Chain struct {
	mu         sync.RWMutex
	storage    Storage
	miner      Miner
	difficulty int
	evHandler  EventHandler
	blocks     []block.Block
}

// New constructs a chain by loading the persisted sequence from storage.
// A missing, structurally broken, or invalid sequence is discarded
// wholesale and replaced with a freshly mined genesis chain. Recovery is
// always whole-chain replacement, never partial patching.
func New(cfg Config) (*Chain, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	c := Chain{
		storage:    cfg.Storage,
		miner:      cfg.Miner,
		difficulty: clampDifficulty(cfg.Difficulty),
		evHandler:  ev,
	}

	records, err := c.storage.ReadAll()
	if err != nil {
		ev("chain: new: read failed, recovering with fresh genesis: %s", err)
		if err := c.recover(); err != nil {
			return nil, err
		}
		return &c, nil
	}

	if len(records) == 0 {
		ev("chain: new: no persisted chain, creating genesis")
		if err := c.recover(); err != nil {
			return nil, err
		}
		return &c, nil
	}

	blocks := make([]block.Block, 0, len(records))
	for i, record := range records {
		b, err := block.ToBlock(record)
		if err != nil {
			ev("chain: new: record[%d] corrupt, recovering with fresh genesis: %s", i, err)
			if err := c.recover(); err != nil {
				return nil, err
			}
			return &c, nil
		}
		blocks = append(blocks, b)
	}

	c.blocks = blocks
	if err := c.validate(); err != nil {
		ev("chain: new: loaded chain invalid, recovering with fresh genesis: %s", err)
		c.blocks = nil
		if err := c.recover(); err != nil {
			return nil, err
		}
		return &c, nil
	}

	ev("chain: new: loaded %d blocks", len(c.blocks))

	return &c, nil
}

// Close cleanly releases the chain's storage.
func (c *Chain) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.storage.Close()
}

// =============================================================================

// Append seals the specified payload into a new block at the tail of the
// chain: build, mine, persist, then commit. On any failure the in-memory
// state is left exactly as it was before the call.
func (c *Chain) Append(payload block.Payload) (block.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.blocks) == 0 {
		c.evHandler("chain: append: no genesis block, creating")
		if err := c.createGenesis(); err != nil {
			return block.Block{}, err
		}
	}

	tail := c.blocks[len(c.blocks)-1]

	// Merge the caller payload with the system linkage metadata. The caller
	// map is never mutated.
	data := make(block.Payload, len(payload)+3)
	for k, v := range payload {
		data[k] = v
	}
	data["recorded_at"] = time.Now().UTC().Format(time.RFC3339)
	data["previous_block_hash"] = tail.Hash
	data["version"] = ledgerVersion

	nb := block.New(tail.Index+1, uint64(time.Now().UTC().Unix()), data, tail.Hash)

	c.evHandler("chain: append: mining block[%d]", nb.Index)

	if err := c.miner.Mine(&nb, c.difficulty); err != nil {
		return block.Block{}, fmt.Errorf("mining block %d: %w", nb.Index, err)
	}

	if err := c.persist(append(c.blocks, nb)); err != nil {
		return block.Block{}, fmt.Errorf("persisting block %d: %w", nb.Index, err)
	}

	c.blocks = append(c.blocks, nb)

	c.evHandler("chain: append: committed block[%d] hash[%s]", nb.Index, nb.Hash)

	return nb, nil
}

// Latest returns the tail block of the chain. The ok value is false only
// when the chain holds no blocks.
func (c *Chain) Latest() (block.Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.blocks) == 0 {
		return block.Block{}, false
	}

	return c.blocks[len(c.blocks)-1], true
}

// Blocks returns a copy of the full block sequence in chain order.
func (c *Chain) Blocks() []block.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blocks := make([]block.Block, len(c.blocks))
	copy(blocks, c.blocks)

	return blocks
}

// Validate performs a full scan of the chain, checking hash integrity,
// linkage, index contiguity, and the proof-of-work prefix for every block.
// It returns nil when the chain is valid.
func (c *Chain) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.validate()
}

// Search performs a linear scan returning, in chain order, every block
// whose payload contains all the criteria fields with exactly matching
// values. No secondary index is maintained; the ledger is expected to stay
// at audit-log scale.
func (c *Chain) Search(criteria block.Payload) []block.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []block.Block

	for _, b := range c.blocks {
		match := true
		for key, want := range criteria {
			got, exists := b.Payload[key]
			if !exists || !valuesEqual(got, want) {
				match = false
				break
			}
		}
		if match {
			matches = append(matches, b)
		}
	}

	return matches
}

// Info returns a summary of the chain's current state.
func (c *Chain) Info() Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info := Info{
		Blocks:     len(c.blocks),
		Difficulty: c.difficulty,
		Valid:      c.validate() == nil,
	}

	if len(c.blocks) > 0 {
		tail := c.blocks[len(c.blocks)-1]
		info.LatestIndex = tail.Index
		info.LatestHash = tail.Hash
	}

	return info
}

// Truncate discards the chain both on disk and in memory and replaces it
// with a freshly mined genesis chain. This is the administrative reset
// path.
func (c *Chain) Truncate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.storage.Reset(); err != nil {
		return err
	}

	c.blocks = nil

	return c.createGenesis()
}

// =============================================================================

// recover discards whatever was loaded and replaces the chain with a
// freshly mined, persisted genesis chain. Must not be called while
// holding the mutex.
func (c *Chain) recover() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.blocks = nil

	return c.createGenesis()
}

// createGenesis mines and persists the first block of a new chain. The
// caller must hold the write lock. On any failure the chain remains empty.
func (c *Chain) createGenesis() error {
	payload := block.Payload{
		"genesis": true,
		"message": "vote confirmation ledger genesis block",
		"version": ledgerVersion,
	}

	genesis := block.New(0, uint64(time.Now().UTC().Unix()), payload, block.GenesisPrevHash)

	c.evHandler("chain: genesis: mining")

	if err := c.miner.Mine(&genesis, c.difficulty); err != nil {
		return fmt.Errorf("mining genesis block: %w", err)
	}

	if err := c.persist([]block.Block{genesis}); err != nil {
		return fmt.Errorf("persisting genesis block: %w", err)
	}

	c.blocks = []block.Block{genesis}

	c.evHandler("chain: genesis: committed hash[%s]", genesis.Hash)

	return nil
}

// persist writes the specified full sequence to storage. A write failure
// is a hard error; the caller must leave the in-memory chain untouched.
func (c *Chain) persist(blocks []block.Block) error {
	records := make([]block.BlockData, len(blocks))
	for i, b := range blocks {
		records[i] = block.NewBlockData(b)
	}

	return c.storage.WriteAll(records)
}

// validate runs the full-chain scan. The caller must hold at least a read
// lock.
func (c *Chain) validate() error {
	if len(c.blocks) == 0 {
		return errors.New("chain has no blocks")
	}

	genesis := c.blocks[0]
	if genesis.Index != 0 || genesis.PrevHash != block.GenesisPrevHash {
		return ErrInvalidGenesis
	}

	for i, b := range c.blocks {
		if b.ComputeHash() != b.Hash {
			return fmt.Errorf("block %d: stored hash does not match recomputed hash", b.Index)
		}

		if !pow.IsSolved(c.difficulty, b.Hash) {
			return fmt.Errorf("block %d: hash does not satisfy difficulty %d", b.Index, c.difficulty)
		}

		if i == 0 {
			continue
		}

		prev := c.blocks[i-1]
		if b.PrevHash != prev.Hash {
			return fmt.Errorf("block %d: linkage broken, previous hash does not match block %d", b.Index, prev.Index)
		}

		if b.Index != prev.Index+1 {
			return fmt.Errorf("block %d: index is not sequential after block %d", b.Index, prev.Index)
		}
	}

	return nil
}

// valuesEqual compares two payload values through their canonical JSON
// forms. Loading a chain turns numbers into float64, so direct equality
// would miss matches against in-memory integer values.
func valuesEqual(a, b any) bool {
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}

	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}

	return bytes.Equal(aj, bj)
}

// clampDifficulty bounds the difficulty to the supported range.
func clampDifficulty(difficulty int) int {
	switch {
	case difficulty < minDifficulty:
		return minDifficulty
	case difficulty > maxDifficulty:
		return maxDifficulty
	}

	return difficulty
}

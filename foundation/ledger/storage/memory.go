package storage

import "github.com/voteguard/ledger/foundation/ledger/block"

// Memory represents an in-memory storage implementation for testing. It
// implements the chain.Storage interface and can be armed to fail writes
// so rollback behavior can be exercised.
type Memory struct {
	records  []block.BlockData
	writeErr error
}

// NewMemory constructs a Memory value for use.
func NewMemory() *Memory {
	return &Memory{}
}

// FailWrites arms the storage so every subsequent WriteAll returns the
// specified error. Passing nil disarms it.
func (m *Memory) FailWrites(err error) {
	m.writeErr = err
}

// ReadAll returns a copy of the stored sequence.
func (m *Memory) ReadAll() ([]block.BlockData, error) {
	records := make([]block.BlockData, len(m.records))
	copy(records, m.records)

	return records, nil
}

// WriteAll replaces the stored sequence with the specified records.
func (m *Memory) WriteAll(records []block.BlockData) error {
	if m.writeErr != nil {
		return m.writeErr
	}

	m.records = make([]block.BlockData, len(records))
	copy(m.records, records)

	return nil
}

// Reset clears the stored sequence.
func (m *Memory) Reset() error {
	m.records = nil
	return nil
}

// Close in this implementation has nothing to do.
func (m *Memory) Close() error {
	return nil
}

// Package storage handles all the lower level support for reading and
// writing the block sequence. The whole chain is rewritten on every
// successful append, so implementations deal in full sequences rather
// than individual blocks.
package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/voteguard/ledger/foundation/ledger/block"
)

// backupExtension is appended to the chain file name when rotating the
// previous contents out of the way before a rewrite.
const backupExtension = ".backup"

// Disk represents the storage implementation for reading and writing the
// block sequence as a single JSON document on disk. This implements the
// chain.Storage interface.
type Disk struct {
	path string
}

// NewDisk constructs a Disk value for use, creating the parent directory
// of the chain file if needed.
func NewDisk(path string) (*Disk, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return &Disk{path: path}, nil
}

// ReadAll reads the persisted block sequence. A missing chain file is not
// an error; it yields an empty sequence so the chain can synthesize a
// genesis block.
func (d *Disk) ReadAll() ([]block.BlockData, error) {
	f, err := os.Open(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var records []block.BlockData
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, err
	}

	return records, nil
}

// WriteAll replaces the persisted sequence with the specified records.
// Before overwriting, the existing file is moved to a backup location.
// The rotation is best effort; a failed rotation does not stop the write.
func (d *Disk) WriteAll(records []block.BlockData) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	if _, err := os.Stat(d.path); err == nil {
		os.Rename(d.path, d.path+backupExtension)
	}

	f, err := os.OpenFile(d.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return nil
}

// Reset removes the chain file and its backup from disk.
func (d *Disk) Reset() error {
	if err := os.Remove(d.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := os.Remove(d.path + backupExtension); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// Close in this implementation has nothing to do since the file is opened
// and released inside each read or write call.
func (d *Disk) Close() error {
	return nil
}

// Path returns the location of the chain file.
func (d *Disk) Path() string {
	return d.path
}

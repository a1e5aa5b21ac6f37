package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/voteguard/ledger/foundation/ledger/block"
	"github.com/voteguard/ledger/foundation/ledger/storage"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func testRecords(hashes ...string) []block.BlockData {
	records := make([]block.BlockData, len(hashes))
	for i, hash := range hashes {
		records[i] = block.BlockData{
			Index:    uint64(i),
			Data:     block.Payload{"type": "vote"},
			PrevHash: "0",
			Hash:     hash,
		}
	}
	return records
}

func TestDisk(t *testing.T) {
	t.Log("Given the need to persist the block sequence as one document on disk.")
	{
		t.Logf("\tTest 0:\tWhen reading before any chain has been written.")
		{
			d, err := storage.NewDisk(filepath.Join(t.TempDir(), "ledger", "chain.json"))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould construct the storage: %v.", failed, err)
			}

			records, err := d.ReadAll()
			if err != nil || records != nil {
				t.Fatalf("\t%s\tTest 0:\tShould read an empty sequence, got %d records, err %v.", failed, len(records), err)
			}
			t.Logf("\t%s\tTest 0:\tShould read an empty sequence.", success)
		}

		t.Logf("\tTest 1:\tWhen writing and reading back a sequence.")
		{
			path := filepath.Join(t.TempDir(), "chain.json")
			d, err := storage.NewDisk(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould construct the storage: %v.", failed, err)
			}

			if err := d.WriteAll(testRecords("aa", "bb")); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould write the sequence: %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould write the sequence.", success)

			records, err := d.ReadAll()
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould read the sequence back: %v.", failed, err)
			}
			if len(records) != 2 || records[0].Hash != "aa" || records[1].Hash != "bb" {
				t.Fatalf("\t%s\tTest 1:\tShould read the same records back.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould read the same records back.", success)
		}

		t.Logf("\tTest 2:\tWhen rewriting rotates the previous contents to a backup.")
		{
			path := filepath.Join(t.TempDir(), "chain.json")
			d, err := storage.NewDisk(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould construct the storage: %v.", failed, err)
			}

			if err := d.WriteAll(testRecords("aa")); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould write the first sequence: %v.", failed, err)
			}
			if err := d.WriteAll(testRecords("aa", "bb")); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould write the second sequence: %v.", failed, err)
			}

			if _, err := os.Stat(path + ".backup"); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould keep a backup of the previous contents: %v.", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould keep a backup of the previous contents.", success)

			records, err := d.ReadAll()
			if err != nil || len(records) != 2 {
				t.Fatalf("\t%s\tTest 2:\tShould read the new sequence, got %d records, err %v.", failed, len(records), err)
			}
			t.Logf("\t%s\tTest 2:\tShould read the new sequence.", success)
		}

		t.Logf("\tTest 3:\tWhen resetting the storage.")
		{
			path := filepath.Join(t.TempDir(), "chain.json")
			d, err := storage.NewDisk(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould construct the storage: %v.", failed, err)
			}

			if err := d.WriteAll(testRecords("aa")); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould write the sequence: %v.", failed, err)
			}
			if err := d.WriteAll(testRecords("aa", "bb")); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould rewrite the sequence: %v.", failed, err)
			}

			if err := d.Reset(); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould reset the storage: %v.", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould reset the storage.", success)

			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Fatalf("\t%s\tTest 3:\tShould remove the chain file.", failed)
			}
			if _, err := os.Stat(path + ".backup"); !os.IsNotExist(err) {
				t.Fatalf("\t%s\tTest 3:\tShould remove the backup file.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould remove the chain and backup files.", success)
		}
	}
}

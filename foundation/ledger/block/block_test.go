package block_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/voteguard/ledger/foundation/ledger/block"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestComputeHash(t *testing.T) {
	t.Log("Given the need to validate the canonical hashing contract.")
	{
		t.Logf("\tTest 0:\tWhen constructing a block with a nested payload.")
		{
			payload := block.Payload{
				"type":    "vote",
				"hash":    "abc",
				"attempt": 1,
				"meta":    map[string]any{"zone": "west", "booth": 4},
			}

			b := block.New(1, 1700000000, payload, "aa11")

			if b.Hash == "" {
				t.Fatalf("\t%s\tTest 0:\tShould compute a hash at construction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould compute a hash at construction.", success)

			if b.Nonce != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould construct with nonce zero, got %d.", failed, b.Nonce)
			}
			t.Logf("\t%s\tTest 0:\tShould construct with nonce zero.", success)

			if b.ComputeHash() != b.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould recompute to the same digest.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould recompute to the same digest.", success)
		}

		t.Logf("\tTest 1:\tWhen the block round-trips through the persisted form.")
		{
			payload := block.Payload{
				"type":    "vote",
				"attempt": 1,
				"meta":    map[string]any{"booth": 4},
			}

			b := block.New(3, 1700000000, payload, "bb22")

			data, err := json.Marshal(block.NewBlockData(b))
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould marshal the record: %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould marshal the record.", success)

			var bd block.BlockData
			if err := json.Unmarshal(data, &bd); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould unmarshal the record: %v.", failed, err)
			}

			loaded, err := block.ToBlock(bd)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould reconstruct the block: %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reconstruct the block.", success)

			// JSON decoding turns the integer payload values into float64.
			// The canonical digest must survive that.
			if loaded.ComputeHash() != b.Hash {
				t.Logf("\t%s\tTest 1:\tgot: %s", failed, loaded.ComputeHash())
				t.Logf("\t%s\tTest 1:\texp: %s", failed, b.Hash)
				t.Fatalf("\t%s\tTest 1:\tShould keep the digest stable across a round-trip.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould keep the digest stable across a round-trip.", success)
		}

		t.Logf("\tTest 2:\tWhen any hashed field changes.")
		{
			b := block.New(1, 1700000000, block.Payload{"type": "vote"}, "aa11")
			base := b.Hash

			b.Nonce++
			if b.ComputeHash() == base {
				t.Fatalf("\t%s\tTest 2:\tShould change the digest when the nonce changes.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould change the digest when the nonce changes.", success)

			b.Nonce--
			b.Payload["type"] = "audit"
			if b.ComputeHash() == base {
				t.Fatalf("\t%s\tTest 2:\tShould change the digest when the payload changes.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould change the digest when the payload changes.", success)
		}
	}
}

func TestToBlock(t *testing.T) {
	t.Log("Given the need to reject records missing required fields.")
	{
		records := []block.BlockData{
			{Index: 1, Data: block.Payload{"type": "vote"}, PrevHash: "aa11"},
			{Index: 1, Data: block.Payload{"type": "vote"}, Hash: "bb22"},
			{Index: 1, PrevHash: "aa11", Hash: "bb22"},
		}

		for testID, record := range records {
			t.Logf("\tTest %d:\tWhen reconstructing an incomplete record.", testID)
			{
				if _, err := block.ToBlock(record); !errors.Is(err, block.ErrMissingFields) {
					t.Fatalf("\t%s\tTest %d:\tShould reject the record, got %v.", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould reject the record.", success, testID)
			}
		}
	}

	t.Log("Given the need to preserve stored hashes on load.")
	{
		t.Logf("\tTest 0:\tWhen reconstructing a tampered record.")
		{
			record := block.BlockData{
				Index:    1,
				Data:     block.Payload{"type": "vote"},
				PrevHash: "aa11",
				Nonce:    42,
				Hash:     "not-the-real-digest",
			}

			b, err := block.ToBlock(record)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould reconstruct the block: %v.", failed, err)
			}

			if b.Hash != record.Hash || b.Nonce != record.Nonce {
				t.Fatalf("\t%s\tTest 0:\tShould keep the stored hash and nonce verbatim.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the stored hash and nonce verbatim.", success)
		}
	}
}

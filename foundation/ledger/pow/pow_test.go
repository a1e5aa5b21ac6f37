package pow_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/voteguard/ledger/foundation/ledger/block"
	"github.com/voteguard/ledger/foundation/ledger/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestMine(t *testing.T) {
	t.Log("Given the need to seal blocks with proof-of-work.")
	{
		t.Logf("\tTest 0:\tWhen mining a block at difficulty 2.")
		{
			b := block.New(1, 1700000000, block.Payload{"type": "vote"}, "aa11")
			w := pow.New(0, nil)

			if err := w.Mine(&b, 2); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould find a solution: %v.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould find a solution.", success)

			if !strings.HasPrefix(b.Hash, "00") {
				t.Fatalf("\t%s\tTest 0:\tShould produce a hash with 2 leading zeros, got %s.", failed, b.Hash)
			}
			t.Logf("\t%s\tTest 0:\tShould produce a hash with 2 leading zeros.", success)

			if b.ComputeHash() != b.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould leave the block hash consistent with its fields.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the block hash consistent with its fields.", success)
		}

		t.Logf("\tTest 1:\tWhen the iteration cap is exhausted.")
		{
			b := block.New(1, 1700000000, block.Payload{"type": "vote"}, "aa11")
			w := pow.New(1, nil)

			err := w.Mine(&b, 4)
			if !errors.Is(err, pow.ErrMiningTimeout) {
				t.Fatalf("\t%s\tTest 1:\tShould report a mining timeout, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould report a mining timeout.", success)
		}
	}
}

func TestIsSolved(t *testing.T) {
	t.Log("Given the need to validate the difficulty check.")
	{
		tt := []struct {
			name       string
			difficulty int
			hash       string
			solved     bool
		}{
			{"solved", 3, "000" + strings.Repeat("a", 61), true},
			{"unsolved", 3, "00a" + strings.Repeat("a", 61), false},
			{"short hash", 1, "0", false},
			{"zero difficulty", 0, strings.Repeat("a", 64), true},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking a %s hash.", testID, tst.name)
			{
				if got := pow.IsSolved(tst.difficulty, tst.hash); got != tst.solved {
					t.Fatalf("\t%s\tTest %d:\tShould report %v, got %v.", failed, testID, tst.solved, got)
				}
				t.Logf("\t%s\tTest %d:\tShould report %v.", success, testID, tst.solved)
			}
		}
	}
}

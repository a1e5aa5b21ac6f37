// Package cmd contains the admin tool commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/voteguard/ledger/foundation/ledger/chain"
	"github.com/voteguard/ledger/foundation/ledger/pow"
	"github.com/voteguard/ledger/foundation/ledger/storage"
)

var (
	chainPath     string
	difficulty    int
	maxIterations uint64
	verbose       bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&chainPath, "chain-path", "c", "zledger/chain.json", "Path to the chain file.")
	rootCmd.PersistentFlags().IntVarP(&difficulty, "difficulty", "d", 2, "Leading zero hex digits required of each block hash.")
	rootCmd.PersistentFlags().Uint64VarP(&maxIterations, "max-iterations", "m", pow.DefaultMaxIterations, "Mining iteration cap.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print ledger events while working.")
}

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Ledger administration",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// openChain constructs a chain over the configured chain file. Opening an
// empty or corrupted file mines a fresh genesis chain as a side effect,
// which is the documented recovery behavior.
func openChain(ev chain.EventHandler) (*chain.Chain, error) {
	strg, err := storage.NewDisk(chainPath)
	if err != nil {
		return nil, err
	}

	return chain.New(chain.Config{
		Storage:    strg,
		Miner:      pow.New(maxIterations, pow.EventHandler(ev)),
		Difficulty: difficulty,
		EvHandler:  ev,
	})
}

// events returns an event handler honoring the verbose flag.
func events(cmd *cobra.Command) chain.EventHandler {
	if !verbose {
		return nil
	}

	return func(v string, args ...any) {
		cmd.PrintErrf(v+"\n", args...)
	}
}

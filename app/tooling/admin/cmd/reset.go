package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the chain and mine a fresh genesis block.",
	Run:   resetRun,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func resetRun(cmd *cobra.Command, args []string) {
	c, err := openChain(events(cmd))
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	if err := c.Truncate(); err != nil {
		log.Fatal(err)
	}

	b, _ := c.Latest()
	fmt.Printf("chain reset, genesis hash %s\n", b.Hash)
}

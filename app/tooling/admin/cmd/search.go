package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/voteguard/ledger/foundation/ledger/block"
)

var searchCmd = &cobra.Command{
	Use:   "search key=value [key=value ...]",
	Short: "Print the blocks whose payload matches every criterion.",
	Args:  cobra.MinimumNArgs(1),
	Run:   searchRun,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func searchRun(cmd *cobra.Command, args []string) {
	criteria := block.Payload{}
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			log.Fatalf("criterion %q is not in key=value form", arg)
		}
		criteria[key] = value
	}

	c, err := openChain(events(cmd))
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	matches := c.Search(criteria)
	for _, b := range matches {
		record, err := json.MarshalIndent(block.NewBlockData(b), "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(record))
	}

	fmt.Printf("%d block(s) matched\n", len(matches))
}

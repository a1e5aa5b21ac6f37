package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print a summary of the chain.",
	Run:   infoRun,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func infoRun(cmd *cobra.Command, args []string) {
	c, err := openChain(events(cmd))
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	data, err := json.MarshalIndent(c.Info(), "", "  ")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(data))
}

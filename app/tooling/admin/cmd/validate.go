package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the full-chain validation scan.",
	Run:   validateRun,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateRun(cmd *cobra.Command, args []string) {
	c, err := openChain(events(cmd))
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	if err := c.Validate(); err != nil {
		log.Fatal("chain invalid: ", err)
	}

	fmt.Println("chain valid")
}

// This program provides administrative access to the ledger chain file:
// inspect it, validate it, search it, or reset it to a fresh genesis chain.
package main

import "github.com/voteguard/ledger/app/tooling/admin/cmd"

func main() {
	cmd.Execute()
}

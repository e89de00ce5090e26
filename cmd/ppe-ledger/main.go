// Package main is the entry point for the ppe-ledger CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/ppe-ledger/cmd/ppe-ledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the qval CLI.
package main

import (
	"os"

	"github.com/johnchase/qiime2/cmd/qval/commands"
)

func main() {
	os.Exit(commands.Execute())
}

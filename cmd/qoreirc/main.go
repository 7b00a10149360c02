package main

import (
	"os"

	"github.com/cwbudde/qoreir/cmd/qoreirc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

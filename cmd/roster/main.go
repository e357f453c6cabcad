package main

import (
	"os"

	"github.com/arnavshah/guard-roster-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

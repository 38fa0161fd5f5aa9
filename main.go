package main

import (
	"os"

	"github.com/linguaplay/scoring-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

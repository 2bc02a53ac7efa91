package main

import (
	"os"

	"github.com/gkcalat/pipelines/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

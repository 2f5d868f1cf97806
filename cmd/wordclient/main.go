package main

import (
	"os"

	"github.com/wordgame/wordclient/cmd/wordclient/cmd"
)

func main() {
	if err := cmd.Root.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/bimmerbailey/chatscrub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/JPM1118/animback/cmd"
)

func main() {
	os.Exit(Main())
}

// Main runs animback and returns the process exit status.
func Main() int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

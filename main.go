package main

import (
	"os"

	"github.com/aginor/exphil/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

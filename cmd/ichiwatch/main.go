package main

import (
	"os"

	"github.com/rustyeddy/ichiwatch/cmd/ichiwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

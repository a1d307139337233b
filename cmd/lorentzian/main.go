package main

import (
	"os"

	"github.com/rustyeddy/lorentzian/cmd/lorentzian/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

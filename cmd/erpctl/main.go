package main

import (
	"os"

	"github.com/jhoicas/erp-core/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

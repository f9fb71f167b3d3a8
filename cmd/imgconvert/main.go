package main

import (
	"os"

	"github.com/phambaophuc/image-convert/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

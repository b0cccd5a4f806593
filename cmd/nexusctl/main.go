package main

import (
	"os"

	"nexus/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

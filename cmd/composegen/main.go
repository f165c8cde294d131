package main

import (
	"os"

	"composegen/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

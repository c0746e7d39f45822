package main

import (
	"os"

	"yttranscript/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}

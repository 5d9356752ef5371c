package main

import (
	"os"

	"github.com/arthur-debert/typeset/pkg/cli"
)

func main() {
	os.Exit(cli.Exec(os.Args[1:]))
}

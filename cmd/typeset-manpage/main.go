package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/typeset/internal/version"
	"github.com/arthur-debert/typeset/pkg/args"
)

func main() {
	rootCmd := args.NewRootCmd(nil)

	header := &doc.GenManHeader{
		Title:   "TYPESET",
		Section: "1",
		Source:  "typeset " + version.Version,
		Manual:  "typeset manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}

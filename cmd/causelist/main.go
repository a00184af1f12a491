package main

import (
	"fmt"
	"os"

	"github.com/ppiankov/causelist/internal/cli"
)

func main() {
	err := cli.Execute()
	if cli.ShouldPrint(err) {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}

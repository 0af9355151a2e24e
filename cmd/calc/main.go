// Command calc is a command-line front end to the LearnMint calculator. It
// shares the history ledger format and stores with the HTTP service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Command mimir is the front-end driver of spec §6: it takes a domain and
// problem file, picks an applicable-action generator, runs SIW, and writes
// the resulting plan (if any) to an output file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

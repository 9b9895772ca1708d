// Command rarextract is a small CLI front-end over the rarextract library:
// it can list an archive's members, parse its headers only, or extract them
// to a destination directory.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rdb is the REPL entry point: it opens a database file given as the
// sole positional argument and drives the shell against it.
// Usage: go run ./cmd/rdb <path-to-db>
package main

import (
	"fmt"
	"log"
	"os"

	bplus "rdb/bplustree"
	"rdb/repl"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Must supply a database filename.")
		os.Exit(1)
	}

	tree, err := bplus.Open(os.Args[1])
	if err != nil {
		log.Fatalf("opening %s: %v", os.Args[1], err)
	}

	shell := repl.New(os.Stdout, os.Stdin, tree)
	if err := shell.Run(); err != nil {
		log.Fatalf("rdb: %v", err)
	}
}

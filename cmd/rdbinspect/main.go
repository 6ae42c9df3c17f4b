// Inspect a rdb database file without starting the REPL.
// Usage: go run ./cmd/rdbinspect <path-to-db>
// Example: go run ./cmd/rdbinspect databases/demo.db
package main

import (
	"fmt"
	"os"

	bplus "rdb/bplustree"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <database file>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s databases/demo.db\n", os.Args[0])
		os.Exit(1)
	}

	path := os.Args[1]
	tree, err := bplus.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer tree.Close()

	bplus.PrintConstants(os.Stdout)
	fmt.Println("Tree:")
	if err := bplus.PrintTree(os.Stdout, tree); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

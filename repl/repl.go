// Package repl implements the line-oriented shell that drives the
// storage engine: print a prompt, read a line, dispatch it to either a
// meta-command or a statement, print the result, repeat.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	bplus "rdb/bplustree"
	"rdb/statement"
)

const prompt = "rdb > "

// REPL reads lines from in, writes responses to out, and drives tree.
type REPL struct {
	out     io.Writer
	scanner *bufio.Scanner
	tree    *bplus.Tree
}

// New constructs a REPL bound to tree, reading from in and writing to out.
func New(out io.Writer, in io.Reader, tree *bplus.Tree) *REPL {
	return &REPL{out: out, scanner: bufio.NewScanner(in), tree: tree}
}

// Run drives the prompt/read/execute loop until ".exit" or EOF. It
// returns a non-nil error only on a fatal I/O error (including a failed
// flush); ".exit" and EOF both flush the tree and return.
func (r *REPL) Run() error {
	for {
		fmt.Fprint(r.out, prompt)

		if !r.scanner.Scan() {
			return r.tree.Close()
		}

		line := r.scanner.Text()
		if line == "" {
			continue
		}

		exit, err := r.execute(line)
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}

// execute dispatches one input line. The bool return reports whether
// the REPL should stop (".exit"); the error return is reserved for
// fatal I/O errors that abort the process, not user-facing parse or
// constraint errors, which are printed and swallowed here.
func (r *REPL) execute(line string) (bool, error) {
	stmt, err := statement.Parse(line)
	if err != nil {
		fmt.Fprintln(r.out, err.Error())
		return false, nil
	}

	switch stmt.Kind {
	case statement.KindExit:
		return true, r.tree.Close()

	case statement.KindBTree:
		fmt.Fprintln(r.out, "Tree:")
		if err := bplus.PrintTree(r.out, r.tree); err != nil {
			return false, fmt.Errorf("print tree: %w", err)
		}
		return false, nil

	case statement.KindConstants:
		bplus.PrintConstants(r.out)
		return false, nil

	case statement.KindInsert:
		if err := r.tree.Insert(stmt.Row); err != nil {
			if errors.Is(err, bplus.ErrDuplicateKey) {
				fmt.Fprintln(r.out, err.Error())
				return false, nil
			}
			return false, fmt.Errorf("insert: %w", err)
		}
		fmt.Fprintln(r.out, "Executed.")
		return false, nil

	case statement.KindSelect:
		rows, err := r.tree.SelectAll()
		if err != nil {
			return false, fmt.Errorf("select: %w", err)
		}
		for _, rw := range rows {
			fmt.Fprintln(r.out, rw.String())
		}
		fmt.Fprintln(r.out, "Executed.")
		return false, nil
	}

	// Unreachable: statement.Parse never returns a Kind outside the
	// cases above without a non-nil error.
	return false, fmt.Errorf("unhandled statement kind %v for %q", stmt.Kind, line)
}

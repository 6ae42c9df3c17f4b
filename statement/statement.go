// Package statement tokenizes a single REPL input line into the action
// the engine understands: a meta-command (prefixed with '.') or one of
// the two supported statements, insert and select.
package statement

import (
	"fmt"
	"strings"

	"rdb/row"
)

// Kind identifies what a parsed line asks the engine to do.
type Kind int

const (
	KindInsert Kind = iota
	KindSelect
	KindExit
	KindBTree
	KindConstants
)

// Statement is the result of tokenizing one input line.
type Statement struct {
	Kind Kind
	Row  row.Row // populated only for KindInsert
}

// UnrecognizedMetaError reports a meta-command this shell doesn't know,
// e.g. ".foo".
type UnrecognizedMetaError struct{ Text string }

func (e *UnrecognizedMetaError) Error() string {
	return fmt.Sprintf("Unrecognized command '%s'.", e.Text)
}

// UnrecognizedStatementError reports a statement keyword this shell
// doesn't know.
type UnrecognizedStatementError struct{ Text string }

func (e *UnrecognizedStatementError) Error() string {
	return fmt.Sprintf("Unrecognized keyword at start of '%s'.", e.Text)
}

// Parse tokenizes line into a Statement. A leading '.' marks a
// meta-command; anything else is a statement keyword. Row-parse errors
// (row.ErrIDNotPositive, row.ErrStringTooLong, row.ErrSyntax) and the
// two Unrecognized* errors above are the only errors Parse returns.
func Parse(line string) (Statement, error) {
	if strings.HasPrefix(line, ".") {
		return parseMeta(line)
	}
	return parseStatement(line)
}

func parseMeta(line string) (Statement, error) {
	switch line {
	case ".exit":
		return Statement{Kind: KindExit}, nil
	case ".btree":
		return Statement{Kind: KindBTree}, nil
	case ".constants":
		return Statement{Kind: KindConstants}, nil
	default:
		return Statement{}, &UnrecognizedMetaError{Text: line}
	}
}

func parseStatement(line string) (Statement, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Statement{}, &UnrecognizedStatementError{Text: line}
	}

	switch fields[0] {
	case "select":
		return Statement{Kind: KindSelect}, nil
	case "insert":
		r, err := row.Parse(fields[1:])
		if err != nil {
			return Statement{}, err
		}
		return Statement{Kind: KindInsert, Row: r}, nil
	default:
		return Statement{}, &UnrecognizedStatementError{Text: line}
	}
}

package statement

import (
	"errors"
	"testing"

	"rdb/row"
)

func TestParseMetaCommands(t *testing.T) {
	cases := map[string]Kind{
		".exit":      KindExit,
		".btree":     KindBTree,
		".constants": KindConstants,
	}
	for input, want := range cases {
		stmt, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if stmt.Kind != want {
			t.Errorf("Parse(%q).Kind = %v, want %v", input, stmt.Kind, want)
		}
	}
}

func TestParseUnrecognizedMeta(t *testing.T) {
	_, err := Parse(".frobnicate")
	var target *UnrecognizedMetaError
	if !errors.As(err, &target) {
		t.Fatalf("expected UnrecognizedMetaError, got %v", err)
	}
	if err.Error() != "Unrecognized command '.frobnicate'." {
		t.Errorf("unexpected error text: %q", err.Error())
	}
}

func TestParseSelect(t *testing.T) {
	stmt, err := Parse("select")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.Kind != KindSelect {
		t.Errorf("expected KindSelect, got %v", stmt.Kind)
	}
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse("insert 1 user1 person1@example.com")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.Kind != KindInsert {
		t.Fatalf("expected KindInsert, got %v", stmt.Kind)
	}
	want := row.Row{ID: 1, Username: "user1", Email: "person1@example.com"}
	if stmt.Row != want {
		t.Errorf("got row %+v, want %+v", stmt.Row, want)
	}
}

func TestParseInsertPropagatesRowErrors(t *testing.T) {
	if _, err := Parse("insert -1 cstack foo@bar.com"); !errors.Is(err, row.ErrIDNotPositive) {
		t.Errorf("expected ErrIDNotPositive, got %v", err)
	}
	if _, err := Parse("insert 1 cstack"); !errors.Is(err, row.ErrSyntax) {
		t.Errorf("expected ErrSyntax, got %v", err)
	}
}

func TestParseUnrecognizedStatement(t *testing.T) {
	_, err := Parse("delete 1")
	var target *UnrecognizedStatementError
	if !errors.As(err, &target) {
		t.Fatalf("expected UnrecognizedStatementError, got %v", err)
	}
	if err.Error() != "Unrecognized keyword at start of 'delete 1'." {
		t.Errorf("unexpected error text: %q", err.Error())
	}
}

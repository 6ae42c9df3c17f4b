package bplus

import (
	"bytes"
	"path/filepath"
	"testing"

	"rdb/row"
)

func TestPrintConstants(t *testing.T) {
	var buf bytes.Buffer
	PrintConstants(&buf)

	want := "Constants:\n" +
		"ROW_SIZE: 292\n" +
		"COMMON_NODE_HEADER_SIZE: 6\n" +
		"LEAF_NODE_HEADER_SIZE: 14\n" +
		"LEAF_NODE_CELL_SIZE: 296\n" +
		"LEAF_NODE_SPACE_FOR_CELLS: 4082\n" +
		"LEAF_NODE_MAX_CELLS: 13\n"

	if buf.String() != want {
		t.Errorf("PrintConstants:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrintTreeSingleLeaf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tree, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tree.Close()

	for _, id := range []uint32{3, 1, 2} {
		if err := tree.Insert(row.Row{ID: id, Username: "u", Email: "e"}); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}

	var buf bytes.Buffer
	if err := PrintTree(&buf, tree); err != nil {
		t.Fatalf("PrintTree: %v", err)
	}

	want := "- leaf (size 3)\n" +
		"  - 1\n" +
		"  - 2\n" +
		"  - 3\n"
	if buf.String() != want {
		t.Errorf("PrintTree:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrintTreeAfterLeafSplit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tree, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer tree.Close()

	for id := uint32(1); id <= 14; id++ {
		if err := tree.Insert(row.Row{ID: id, Username: "u", Email: "e"}); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}

	var buf bytes.Buffer
	if err := PrintTree(&buf, tree); err != nil {
		t.Fatalf("PrintTree: %v", err)
	}

	want := "- internal (size 1)\n" +
		"  - leaf (size 7)\n" +
		"    - 1\n" +
		"    - 2\n" +
		"    - 3\n" +
		"    - 4\n" +
		"    - 5\n" +
		"    - 6\n" +
		"    - 7\n" +
		"  - key 7\n" +
		"  - leaf (size 7)\n" +
		"    - 8\n" +
		"    - 9\n" +
		"    - 10\n" +
		"    - 11\n" +
		"    - 12\n" +
		"    - 13\n" +
		"    - 14\n"
	if buf.String() != want {
		t.Errorf("PrintTree after split:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

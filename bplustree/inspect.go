package bplus

import (
	"fmt"
	"io"
	"strings"

	"rdb/row"
)

// PrintConstants writes the fixed block of page-layout constants that
// backs the ".constants" meta-command.
func PrintConstants(w io.Writer) {
	fmt.Fprintln(w, "Constants:")
	fmt.Fprintf(w, "ROW_SIZE: %d\n", row.Size)
	fmt.Fprintf(w, "COMMON_NODE_HEADER_SIZE: %d\n", CommonHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_HEADER_SIZE: %d\n", LeafHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_CELL_SIZE: %d\n", LeafCellSize)
	fmt.Fprintf(w, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", LeafSpaceForCells)
	fmt.Fprintf(w, "LEAF_NODE_MAX_CELLS: %d\n", LeafMaxCells)
}

// PrintTree writes a recursive, depth-indented dump of the tree rooted
// at t, in the same traversal order the original sqlite-tutorial ".btree"
// command uses: each internal node prints its keys and children
// interleaved, each leaf prints its keys in order.
func PrintTree(w io.Writer, t *Tree) error {
	return printNode(w, t, t.RootPageNum(), 0)
}

func printNode(w io.Writer, t *Tree, pageNum uint32, depth int) error {
	node, err := t.Pager().Get(pageNum)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)

	if nodeType(node) == NodeLeaf {
		numCells := leafNumCells(node)
		fmt.Fprintf(w, "%s- leaf (size %d)\n", indent, numCells)
		for i := uint32(0); i < numCells; i++ {
			fmt.Fprintf(w, "%s  - %d\n", indent, leafKeyAt(node, i))
		}
		return nil
	}

	numKeys := internalNumKeys(node)
	childIndent := strings.Repeat("  ", depth+1)
	fmt.Fprintf(w, "%s- internal (size %d)\n", indent, numKeys)
	for i := uint32(0); i < numKeys; i++ {
		if err := printNode(w, t, internalChildAt(node, i), depth+1); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s- key %d\n", childIndent, internalKeyAt(node, i))
	}
	return printNode(w, t, internalRightChild(node), depth+1)
}

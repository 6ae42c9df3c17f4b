package bplus

import "fmt"

// Cursor is a position in the tree's logical row ordering: a page
// number plus a cell index within that page. It is only valid until
// the next mutation — an Insert that splits a node invalidates any
// cursor obtained before the split.
type Cursor struct {
	tree       *Tree
	pageNum    uint32
	cellNum    uint32
	endOfTable bool
}

// Start returns a cursor positioned at the tree's minimum key, following
// the left spine of internal nodes down to the first leaf.
func (t *Tree) Start() (*Cursor, error) {
	pageNum := t.rootPageNum
	for {
		node, err := t.pager.Get(pageNum)
		if err != nil {
			return nil, err
		}
		if nodeType(node) == NodeLeaf {
			return &Cursor{
				tree:       t,
				pageNum:    pageNum,
				cellNum:    0,
				endOfTable: leafNumCells(node) == 0,
			}, nil
		}
		pageNum = internalChildAt(node, 0)
	}
}

// find descends from the root to the leaf that does or should contain
// key, returning a position: either the cell holding key, or the
// insertion point for it. It always returns a position, never a
// not-found signal — callers compare the key at that cell themselves.
func (t *Tree) find(key uint32) (pageNum uint32, cellNum uint32, err error) {
	pageNum = t.rootPageNum
	for {
		node, err := t.pager.Get(pageNum)
		if err != nil {
			return 0, 0, err
		}
		if nodeType(node) == NodeLeaf {
			return pageNum, leafFindCell(node, key), nil
		}
		pageNum = internalFindChild(node, key)
	}
}

// leafFindCell binary-searches a leaf's cells for key, returning either
// the index of the matching cell or the index at which key should be
// inserted to keep the cells in ascending order.
func leafFindCell(node Page, key uint32) uint32 {
	numCells := leafNumCells(node)
	lo, hi := uint32(0), numCells
	for lo < hi {
		mid := (lo + hi) / 2
		if leafKeyAt(node, mid) >= key {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// internalFindChild picks the child whose subtree can contain key: the
// leftmost child whose routing key is >= key, or the right child if key
// exceeds every routing key.
func internalFindChild(node Page, key uint32) uint32 {
	numKeys := internalNumKeys(node)
	lo, hi := uint32(0), numKeys
	for lo < hi {
		mid := (lo + hi) / 2
		if internalKeyAt(node, mid) >= key {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return childAt(node, lo)
}

// Advance moves the cursor to the next row in key order, following the
// leaf chain when the current leaf is exhausted.
func (c *Cursor) Advance() error {
	node, err := c.tree.pager.Get(c.pageNum)
	if err != nil {
		return err
	}
	c.cellNum++
	if c.cellNum < leafNumCells(node) {
		return nil
	}
	next := leafNextLeaf(node)
	if next == 0 {
		c.endOfTable = true
		return nil
	}
	c.pageNum = next
	c.cellNum = 0
	return nil
}

// EndOfTable reports whether the cursor has advanced past the last row.
func (c *Cursor) EndOfTable() bool { return c.endOfTable }

// Value returns the serialized row bytes at the cursor's position.
func (c *Cursor) Value() ([]byte, error) {
	node, err := c.tree.pager.Get(c.pageNum)
	if err != nil {
		return nil, err
	}
	numCells := leafNumCells(node)
	if c.cellNum >= numCells {
		return nil, fmt.Errorf("cursor past end of leaf page %d (cell %d of %d)", c.pageNum, c.cellNum, numCells)
	}
	return leafValueAt(node, c.cellNum), nil
}

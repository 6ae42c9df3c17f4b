package bplus

import (
	"errors"
	"fmt"

	"rdb/row"
)

// ErrDuplicateKey is returned by Insert when the id already exists.
var ErrDuplicateKey = errors.New("Error: Duplicate key.")

// Tree is a disk-backed B+Tree whose root always lives at page 0, so
// external references to "the database" never need to change when the
// tree grows a level.
type Tree struct {
	pager       *Pager
	rootPageNum uint32
}

// Open opens the database file at path, initializing a fresh empty leaf
// root if the file is new.
func Open(path string) (*Tree, error) {
	pager, err := OpenPager(path)
	if err != nil {
		return nil, err
	}

	t := &Tree{pager: pager, rootPageNum: 0}
	if pager.PageCount() == 0 {
		if err := t.initializeEmptyRoot(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Tree) initializeEmptyRoot() error {
	pageNum, err := t.pager.Allocate()
	if err != nil {
		return err
	}
	if pageNum != 0 {
		return fmt.Errorf("expected root page to be 0, got %d", pageNum)
	}
	root, err := t.pager.Get(0)
	if err != nil {
		return err
	}
	initializeLeafNode(root)
	setIsRoot(root, true)
	return nil
}

// Close flushes all pages to disk and closes the underlying file.
func (t *Tree) Close() error { return t.pager.Close() }

// Pager exposes the tree's pager for diagnostics (.btree, .constants).
func (t *Tree) Pager() *Pager { return t.pager }

// RootPageNum returns the tree's root page number (always 0).
func (t *Tree) RootPageNum() uint32 { return t.rootPageNum }

// Insert adds r to the tree, failing with ErrDuplicateKey if r.ID
// already exists. No mutation occurs on failure.
func (t *Tree) Insert(r row.Row) error {
	pageNum, cellNum, err := t.find(r.ID)
	if err != nil {
		return err
	}

	leaf, err := t.pager.Get(pageNum)
	if err != nil {
		return err
	}
	if cellNum < leafNumCells(leaf) && leafKeyAt(leaf, cellNum) == r.ID {
		return ErrDuplicateKey
	}

	var buf [row.Size]byte
	r.Serialize(buf[:])
	return t.leafInsert(pageNum, cellNum, r.ID, buf[:])
}

// SelectAll returns every row in ascending key order.
func (t *Tree) SelectAll() ([]row.Row, error) {
	cursor, err := t.Start()
	if err != nil {
		return nil, err
	}
	var rows []row.Row
	for !cursor.EndOfTable() {
		val, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row.Deserialize(val))
		if err := cursor.Advance(); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// maxKey returns the largest key stored in the subtree rooted at
// pageNum: a leaf's last cell, or (recursively) its right child's max.
func (t *Tree) maxKey(pageNum uint32) (uint32, error) {
	node, err := t.pager.Get(pageNum)
	if err != nil {
		return 0, err
	}
	if nodeType(node) == NodeLeaf {
		n := leafNumCells(node)
		if n == 0 {
			return 0, nil
		}
		return leafKeyAt(node, n-1), nil
	}
	return t.maxKey(internalRightChild(node))
}

func (t *Tree) reparent(childPageNum, parentPageNum uint32) error {
	child, err := t.pager.Get(childPageNum)
	if err != nil {
		return err
	}
	setParentPointer(child, parentPageNum)
	return nil
}

// leafInsert writes (key, rowBytes) at cellNum in the leaf at pageNum,
// shifting later cells right, or splits the leaf if it is already full.
func (t *Tree) leafInsert(pageNum, cellNum, key uint32, rowBytes []byte) error {
	node, err := t.pager.Get(pageNum)
	if err != nil {
		return err
	}

	numCells := leafNumCells(node)
	if numCells >= LeafMaxCells {
		return t.leafSplitInsert(pageNum, cellNum, key, rowBytes)
	}

	for i := numCells; i > cellNum; i-- {
		copy(leafCell(node, i), leafCell(node, i-1))
	}
	setLeafNumCells(node, numCells+1)
	setLeafKeyAt(node, cellNum, key)
	copy(leafValueAt(node, cellNum), rowBytes)
	return nil
}

// leafSplitInsert splits a full leaf into two, inserting (key, rowBytes)
// into whichever half its target position falls in, then propagates the
// new sibling into the parent (or splits the root).
//
// The redistribution loop walks old-index LeafMaxCells down to 0 so that
// a cell is always read out of oldNode before anything is written back
// into the same slot.
func (t *Tree) leafSplitInsert(oldPageNum, cellNum, key uint32, rowBytes []byte) error {
	oldNode, err := t.pager.Get(oldPageNum)
	if err != nil {
		return err
	}

	newPageNum, err := t.pager.Allocate()
	if err != nil {
		return err
	}
	newNode, err := t.pager.Get(newPageNum)
	if err != nil {
		return err
	}
	initializeLeafNode(newNode)
	setParentPointer(newNode, parentPointer(oldNode))
	setLeafNextLeaf(newNode, leafNextLeaf(oldNode))
	setLeafNextLeaf(oldNode, newPageNum)

	for i := int(LeafMaxCells); i >= 0; i-- {
		var dest Page
		if uint32(i) >= LeafLeftSplitCount {
			dest = newNode
		} else {
			dest = oldNode
		}
		indexInNode := uint32(i) % LeafLeftSplitCount

		switch {
		case uint32(i) == cellNum:
			setLeafKeyAt(dest, indexInNode, key)
			copy(leafValueAt(dest, indexInNode), rowBytes)
		case uint32(i) > cellNum:
			copy(leafCell(dest, indexInNode), leafCell(oldNode, uint32(i)-1))
		default:
			copy(leafCell(dest, indexInNode), leafCell(oldNode, uint32(i)))
		}
	}
	setLeafNumCells(oldNode, LeafLeftSplitCount)
	setLeafNumCells(newNode, LeafRightSplitCount)

	if isRoot(oldNode) {
		leftMax := leafKeyAt(oldNode, LeafLeftSplitCount-1)
		return t.splitRoot(newPageNum, leftMax)
	}

	parentPageNum := parentPointer(oldNode)
	leftMax := leafKeyAt(oldNode, LeafLeftSplitCount-1)
	if err := t.updateChildKey(parentPageNum, oldPageNum, leftMax); err != nil {
		return err
	}
	return t.internalInsert(parentPageNum, newPageNum)
}

// updateChildKey finds the routing cell in parent that points at
// childPageNum and rewrites its key (the child's max key changed
// because it just gave cells away in a split). A child that is the
// parent's right child has no stored key, so there is nothing to
// rewrite.
func (t *Tree) updateChildKey(parentPageNum, childPageNum, newKey uint32) error {
	parent, err := t.pager.Get(parentPageNum)
	if err != nil {
		return err
	}
	numKeys := internalNumKeys(parent)
	for i := uint32(0); i < numKeys; i++ {
		if internalChildAt(parent, i) == childPageNum {
			setInternalKeyAt(parent, i, newKey)
			return nil
		}
	}
	return nil
}

// internalInsert adds childPageNum as a new child of the internal node
// at parentPageNum, splitting that node first if it is already full.
func (t *Tree) internalInsert(parentPageNum, childPageNum uint32) error {
	parent, err := t.pager.Get(parentPageNum)
	if err != nil {
		return err
	}
	if err := t.reparent(childPageNum, parentPageNum); err != nil {
		return err
	}

	childMaxKey, err := t.maxKey(childPageNum)
	if err != nil {
		return err
	}

	numKeys := internalNumKeys(parent)
	if numKeys >= InternalMaxCells {
		return t.internalSplitInsert(parentPageNum, childPageNum, childMaxKey)
	}

	rightChildPageNum := internalRightChild(parent)
	rightMax, err := t.maxKey(rightChildPageNum)
	if err != nil {
		return err
	}

	if childMaxKey > rightMax {
		// The new child becomes the right-most child; the previous
		// right child is demoted into a keyed cell.
		setInternalChildAt(parent, numKeys, rightChildPageNum)
		setInternalKeyAt(parent, numKeys, rightMax)
		setInternalRightChild(parent, childPageNum)
	} else {
		index := internalInsertionIndex(parent, childMaxKey)
		for i := numKeys; i > index; i-- {
			setInternalChildAt(parent, i, internalChildAt(parent, i-1))
			setInternalKeyAt(parent, i, internalKeyAt(parent, i-1))
		}
		setInternalChildAt(parent, index, childPageNum)
		setInternalKeyAt(parent, index, childMaxKey)
	}
	setInternalNumKeys(parent, numKeys+1)
	return nil
}

// internalInsertionIndex returns the first index whose routing key
// exceeds key, i.e. where a new (child, key) cell belongs.
func internalInsertionIndex(parent Page, key uint32) uint32 {
	numKeys := internalNumKeys(parent)
	i := uint32(0)
	for i < numKeys && internalKeyAt(parent, i) < key {
		i++
	}
	return i
}

// internalSplitInsert splits a full internal node, promoting the median
// routing key to the parent (or splitting the root).
func (t *Tree) internalSplitInsert(oldPageNum, newChildPageNum, newChildMaxKey uint32) error {
	old, err := t.pager.Get(oldPageNum)
	if err != nil {
		return err
	}

	type entry struct {
		child uint32
		key   uint32
	}

	n := internalNumKeys(old)
	entries := make([]entry, 0, n+2)
	for i := uint32(0); i < n; i++ {
		entries = append(entries, entry{internalChildAt(old, i), internalKeyAt(old, i)})
	}
	rightChild := internalRightChild(old)
	rightMax, err := t.maxKey(rightChild)
	if err != nil {
		return err
	}
	entries = append(entries, entry{rightChild, rightMax})

	insertAt := len(entries)
	for i, e := range entries {
		if newChildMaxKey < e.key {
			insertAt = i
			break
		}
	}
	entries = append(entries, entry{})
	copy(entries[insertAt+1:], entries[insertAt:])
	entries[insertAt] = entry{newChildPageNum, newChildMaxKey}

	total := len(entries)
	leftCount := total / 2
	rightCount := total - leftCount

	wasRoot := isRoot(old)
	initializeInternalNode(old)
	for i := 0; i < leftCount-1; i++ {
		setInternalChildAt(old, uint32(i), entries[i].child)
		setInternalKeyAt(old, uint32(i), entries[i].key)
	}
	setInternalNumKeys(old, uint32(leftCount-1))
	setInternalRightChild(old, entries[leftCount-1].child)
	promoteKey := entries[leftCount-1].key

	newPageNum, err := t.pager.Allocate()
	if err != nil {
		return err
	}
	newNode, err := t.pager.Get(newPageNum)
	if err != nil {
		return err
	}
	initializeInternalNode(newNode)
	for i := 0; i < rightCount-1; i++ {
		setInternalChildAt(newNode, uint32(i), entries[leftCount+i].child)
		setInternalKeyAt(newNode, uint32(i), entries[leftCount+i].key)
	}
	setInternalNumKeys(newNode, uint32(rightCount-1))
	setInternalRightChild(newNode, entries[total-1].child)
	setParentPointer(newNode, parentPointer(old))

	for i := leftCount; i < total; i++ {
		if err := t.reparent(entries[i].child, newPageNum); err != nil {
			return err
		}
	}
	if err := t.reparent(entries[leftCount-1].child, oldPageNum); err != nil {
		return err
	}

	if wasRoot {
		return t.splitRoot(newPageNum, promoteKey)
	}

	parentPageNum := parentPointer(old)
	if err := t.updateChildKey(parentPageNum, oldPageNum, promoteKey); err != nil {
		return err
	}
	return t.internalInsert(parentPageNum, newPageNum)
}

// splitRoot is invoked when the root (page 0) overflows. It copies the
// root's current bytes (already reduced to the "left" half by the
// caller) into a freshly allocated page, then reinitializes page 0 as
// an internal node with one key, so the root's page number never
// changes as the tree grows.
func (t *Tree) splitRoot(rightPageNum, promoteKey uint32) error {
	root, err := t.pager.Get(t.rootPageNum)
	if err != nil {
		return err
	}

	leftPageNum, err := t.pager.Allocate()
	if err != nil {
		return err
	}
	leftNode, err := t.pager.Get(leftPageNum)
	if err != nil {
		return err
	}
	copy(leftNode, root)
	setIsRoot(leftNode, false)
	setParentPointer(leftNode, t.rootPageNum)

	if nodeType(leftNode) == NodeInternal {
		nk := internalNumKeys(leftNode)
		for i := uint32(0); i < nk; i++ {
			if err := t.reparent(internalChildAt(leftNode, i), leftPageNum); err != nil {
				return err
			}
		}
		if err := t.reparent(internalRightChild(leftNode), leftPageNum); err != nil {
			return err
		}
	}

	rightNode, err := t.pager.Get(rightPageNum)
	if err != nil {
		return err
	}
	setIsRoot(rightNode, false)
	setParentPointer(rightNode, t.rootPageNum)

	initializeInternalNode(root)
	setIsRoot(root, true)
	setInternalNumKeys(root, 1)
	setInternalChildAt(root, 0, leftPageNum)
	setInternalKeyAt(root, 0, promoteKey)
	setInternalRightChild(root, rightPageNum)
	return nil
}

// Package bplus implements the on-disk B+Tree: a pager that maps a flat
// file to fixed-size pages, the byte layout of leaf and internal nodes,
// and the search/insert/split algorithms that keep the tree balanced.
//
// Every page is exactly PageSize bytes. The first six bytes of every
// page are a common header (node type, is-root flag, parent page
// number); leaf and internal nodes each extend that header differently.
package bplus

import (
	"encoding/binary"

	"rdb/row"
)

// NodeType distinguishes leaf pages (holding rows) from internal pages
// (holding routing cells).
type NodeType byte

const (
	NodeInternal NodeType = 0
	NodeLeaf     NodeType = 1
)

const (
	PageSize = 4096

	// Common header, present at offset 0 of every page.
	nodeTypeOffset   = 0
	nodeTypeSize     = 1
	isRootOffset     = nodeTypeOffset + nodeTypeSize
	isRootSize       = 1
	parentOffset     = isRootOffset + isRootSize
	parentSize       = 4
	CommonHeaderSize = parentOffset + parentSize // 6

	// Leaf header extends the common header with a cell count and the
	// next-leaf pointer used to chain leaves in key order.
	leafNumCellsOffset = CommonHeaderSize
	leafNumCellsSize   = 4
	leafNextLeafOffset = leafNumCellsOffset + leafNumCellsSize
	leafNextLeafSize   = 4
	LeafHeaderSize     = leafNextLeafOffset + leafNextLeafSize // 14

	// Leaf cell: a 4-byte key followed by a fixed-size row.
	leafKeySize          = 4
	LeafCellSize         = leafKeySize + row.Size // 296
	LeafSpaceForCells    = PageSize - LeafHeaderSize
	LeafMaxCells         = LeafSpaceForCells / LeafCellSize // 13
	LeafRightSplitCount  = (LeafMaxCells + 1) / 2
	LeafLeftSplitCount   = (LeafMaxCells + 1) - LeafRightSplitCount

	// Internal header extends the common header with a key count and
	// the right-most child (the Nth child of an N-key node).
	internalNumKeysOffset = CommonHeaderSize
	internalNumKeysSize   = 4
	internalRightOffset   = internalNumKeysOffset + internalNumKeysSize
	internalRightSize     = 4
	InternalHeaderSize    = internalRightOffset + internalRightSize // 14

	// Internal cell: a child page number followed by the max key
	// reachable through that child.
	internalChildSize     = 4
	internalKeySize       = 4
	InternalCellSize      = internalChildSize + internalKeySize // 8
	InternalSpaceForCells = PageSize - InternalHeaderSize
	InternalMaxCells      = InternalSpaceForCells / InternalCellSize // 510
)

// Page is a raw, fixed-size node buffer as stored by the pager.
type Page []byte

func nodeType(p Page) NodeType { return NodeType(p[nodeTypeOffset]) }

func setNodeType(p Page, t NodeType) { p[nodeTypeOffset] = byte(t) }

func isRoot(p Page) bool { return p[isRootOffset] != 0 }

func setIsRoot(p Page, v bool) {
	if v {
		p[isRootOffset] = 1
	} else {
		p[isRootOffset] = 0
	}
}

func parentPointer(p Page) uint32 {
	return binary.LittleEndian.Uint32(p[parentOffset:])
}

func setParentPointer(p Page, pageNum uint32) {
	binary.LittleEndian.PutUint32(p[parentOffset:], pageNum)
}

func initializeLeafNode(p Page) {
	setNodeType(p, NodeLeaf)
	setIsRoot(p, false)
	setLeafNumCells(p, 0)
	setLeafNextLeaf(p, 0)
}

func initializeInternalNode(p Page) {
	setNodeType(p, NodeInternal)
	setIsRoot(p, false)
	setInternalNumKeys(p, 0)
	setInternalRightChild(p, 0)
}

func leafNumCells(p Page) uint32 {
	return binary.LittleEndian.Uint32(p[leafNumCellsOffset:])
}

func setLeafNumCells(p Page, n uint32) {
	binary.LittleEndian.PutUint32(p[leafNumCellsOffset:], n)
}

func leafNextLeaf(p Page) uint32 {
	return binary.LittleEndian.Uint32(p[leafNextLeafOffset:])
}

func setLeafNextLeaf(p Page, pageNum uint32) {
	binary.LittleEndian.PutUint32(p[leafNextLeafOffset:], pageNum)
}

func leafCellOffset(cellNum uint32) int {
	return LeafHeaderSize + int(cellNum)*LeafCellSize
}

func leafKeyAt(p Page, cellNum uint32) uint32 {
	off := leafCellOffset(cellNum)
	return binary.LittleEndian.Uint32(p[off:])
}

func setLeafKeyAt(p Page, cellNum uint32, key uint32) {
	off := leafCellOffset(cellNum)
	binary.LittleEndian.PutUint32(p[off:], key)
}

func leafValueAt(p Page, cellNum uint32) []byte {
	off := leafCellOffset(cellNum) + leafKeySize
	return p[off : off+row.Size]
}

func leafCell(p Page, cellNum uint32) []byte {
	off := leafCellOffset(cellNum)
	return p[off : off+LeafCellSize]
}

func internalNumKeys(p Page) uint32 {
	return binary.LittleEndian.Uint32(p[internalNumKeysOffset:])
}

func setInternalNumKeys(p Page, n uint32) {
	binary.LittleEndian.PutUint32(p[internalNumKeysOffset:], n)
}

func internalRightChild(p Page) uint32 {
	return binary.LittleEndian.Uint32(p[internalRightOffset:])
}

func setInternalRightChild(p Page, pageNum uint32) {
	binary.LittleEndian.PutUint32(p[internalRightOffset:], pageNum)
}

func internalCellOffset(cellNum uint32) int {
	return InternalHeaderSize + int(cellNum)*InternalCellSize
}

func internalChildAt(p Page, cellNum uint32) uint32 {
	off := internalCellOffset(cellNum)
	return binary.LittleEndian.Uint32(p[off:])
}

func setInternalChildAt(p Page, cellNum uint32, pageNum uint32) {
	off := internalCellOffset(cellNum)
	binary.LittleEndian.PutUint32(p[off:], pageNum)
}

func internalKeyAt(p Page, cellNum uint32) uint32 {
	off := internalCellOffset(cellNum) + internalChildSize
	return binary.LittleEndian.Uint32(p[off:])
}

func setInternalKeyAt(p Page, cellNum uint32, key uint32) {
	off := internalCellOffset(cellNum) + internalChildSize
	binary.LittleEndian.PutUint32(p[off:], key)
}

// childAt returns the index'th of an internal node's N+1 children:
// the N left children each paired with a routing key, plus one right
// child stored in the header.
func childAt(p Page, index uint32) uint32 {
	if index == internalNumKeys(p) {
		return internalRightChild(p)
	}
	return internalChildAt(p, index)
}

package bplus

import (
	"fmt"
	"io"
	"os"
)

// Pager maps a single flat file to fixed-size pages, caching every page
// it has touched. It never evicts: every cached page must survive until
// FlushAll writes it back, since a dirty page lost before flush would
// silently break the tree's on-disk invariants.
type Pager struct {
	file      *os.File
	pageCount uint32
	pages     map[uint32]Page
}

// OpenPager opens or creates the database file at path. A file whose
// size is not a whole number of pages is treated as corrupt.
func OpenPager(path string) (*Pager, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open db file %s: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat db file %s: %w", path, err)
	}

	fileLength := stat.Size()
	if fileLength%PageSize != 0 {
		file.Close()
		return nil, fmt.Errorf("db file is not a whole number of pages. Corrupt file.")
	}

	return &Pager{
		file:      file,
		pageCount: uint32(fileLength / PageSize),
		pages:     make(map[uint32]Page),
	}, nil
}

// PageCount returns the number of pages the file is known to have,
// including pages allocated but not yet flushed.
func (p *Pager) PageCount() uint32 { return p.pageCount }

// Get returns the mutable in-memory buffer for pageNum, reading it from
// disk on first access (or zero-filling it if it lies past the current
// end of file).
func (p *Pager) Get(pageNum uint32) (Page, error) {
	if page, ok := p.pages[pageNum]; ok {
		return page, nil
	}

	page := make(Page, PageSize)
	if pageNum < p.pageCount {
		_, err := p.file.ReadAt(page, int64(pageNum)*PageSize)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read page %d: %w", pageNum, err)
		}
	}

	p.pages[pageNum] = page
	return page, nil
}

// Allocate reserves the next page number, zero-fills it, and returns it.
func (p *Pager) Allocate() (uint32, error) {
	pageNum := p.pageCount
	p.pageCount++
	p.pages[pageNum] = make(Page, PageSize)
	return pageNum, nil
}

// FlushAll writes every cached page back to disk and trims the file to
// exactly PageCount pages.
func (p *Pager) FlushAll() error {
	for pageNum, page := range p.pages {
		if _, err := p.file.WriteAt(page, int64(pageNum)*PageSize); err != nil {
			return fmt.Errorf("write page %d: %w", pageNum, err)
		}
	}
	if err := p.file.Truncate(int64(p.pageCount) * PageSize); err != nil {
		return fmt.Errorf("truncate db file: %w", err)
	}
	return nil
}

// Close flushes every cached page and releases the underlying file.
func (p *Pager) Close() error {
	if err := p.FlushAll(); err != nil {
		return err
	}
	return p.file.Close()
}

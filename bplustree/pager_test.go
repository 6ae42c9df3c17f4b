package bplus

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestPagerAllocateAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	pager, err := OpenPager(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer pager.Close()

	if pager.PageCount() != 0 {
		t.Fatalf("expected fresh file to have 0 pages, got %d", pager.PageCount())
	}

	pageNum, err := pager.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if pageNum != 0 {
		t.Errorf("expected first allocated page to be 0, got %d", pageNum)
	}
	if pager.PageCount() != 1 {
		t.Errorf("expected page count 1, got %d", pager.PageCount())
	}

	page, err := pager.Get(pageNum)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	copy(page, []byte("hello page"))
}

func TestPagerFlushAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	pager, err := OpenPager(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pageNum, _ := pager.Allocate()
	page, _ := pager.Get(pageNum)
	copy(page, bytes.Repeat([]byte{0xAB}, PageSize))

	if err := pager.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenPager(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if reopened.PageCount() != 1 {
		t.Fatalf("expected 1 page after reopen, got %d", reopened.PageCount())
	}

	got, err := reopened.Get(0)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	want := bytes.Repeat([]byte{0xAB}, PageSize)
	if !bytes.Equal(got, want) {
		t.Errorf("page contents did not survive flush/reopen")
	}
}

func TestPagerRejectsCorruptFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.db")
	pager, err := OpenPager(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// Write a partial page then close the raw file handle.
	pager.file.Truncate(PageSize + 10)
	pager.file.Close()

	if _, err := OpenPager(path); err == nil {
		t.Errorf("expected Open to reject a file whose size is not a multiple of PageSize")
	}
}

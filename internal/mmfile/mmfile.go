// Package mmfile maps small read-only input files (layout tables) into memory.
package mmfile

import "errors"

// ErrTooLarge is returned for files that cannot be mapped into an int-sized slice.
var ErrTooLarge = errors.New("mmfile: file too large to map")

// File is a read-only view of a file's contents.
type File struct {
	data   []byte
	unmap  func([]byte) error
	closed bool
}

// Bytes returns the contents. The slice is invalid after Close.
func (f *File) Bytes() []byte { return f.data }

// Len returns the content length.
func (f *File) Len() int { return len(f.data) }

// Close releases the mapping. Calling it twice is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	data := f.data
	f.data = nil
	if f.unmap == nil || len(data) == 0 {
		return nil
	}
	return f.unmap(data)
}

package confscan

import (
	"io"
	"os"
)

// File is an open file handle. ReaderAt lets document readers open zip
// containers without loading them into memory.
type File interface {
	io.Reader
	io.ReaderAt
	io.Closer
}

// FileSystem is the read-only view of the disk used by a scan.
type FileSystem interface {
	// ReadDir returns the entries of a directory sorted by name.
	// Returns an error satisfying errors.Is(err, fs.ErrNotExist) if the
	// directory does not exist.
	ReadDir(dir string) ([]os.FileInfo, error)

	// Stat returns file info for the named file.
	Stat(name string) (os.FileInfo, error)

	// Open opens the named file for reading.
	Open(name string) (File, error)
}

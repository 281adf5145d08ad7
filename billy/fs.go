// Package billy implements confscan.FileSystem on top of go-billy.
package billy

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/fwojciec/confscan"
)

// Ensure FS implements confscan.FileSystem at compile time.
var _ confscan.FileSystem = (*FS)(nil)

// FS adapts a go-billy filesystem.
type FS struct {
	fs billy.Filesystem
}

// NewFS creates a new FS using the given go-billy filesystem.
func NewFS(fsys billy.Filesystem) *FS {
	return &FS{fs: fsys}
}

// NewOSFS creates an FS over the operating system filesystem. Paths are
// used as given: absolute paths resolve from the filesystem root and
// relative paths from the working directory.
func NewOSFS() *FS {
	return &FS{fs: osfs.New("")}
}

// NewInMemoryFS creates a new in-memory filesystem.
func NewInMemoryFS() *FS {
	return &FS{fs: memfs.New()}
}

// ReadDir implements confscan.FileSystem. Entries are sorted by name so
// repeated scans of an unchanged tree see the same order.
func (b *FS) ReadDir(dir string) ([]os.FileInfo, error) {
	list, err := b.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("billy: readdir %q: %w", dir, err)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list, nil
}

// Stat implements confscan.FileSystem.
func (b *FS) Stat(name string) (os.FileInfo, error) {
	info, err := b.fs.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("billy: stat %q: %w", name, err)
	}
	return info, nil
}

// Open implements confscan.FileSystem.
//
//nolint:ireturn // go-billy files satisfy confscan.File directly.
func (b *FS) Open(name string) (confscan.File, error) {
	f, err := b.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", name, err)
	}
	return f, nil
}

// Raw returns the underlying go-billy filesystem, e.g. to build fixtures in tests.
//
//nolint:ireturn // exposes the adapter target.
func (b *FS) Raw() billy.Filesystem {
	return b.fs
}

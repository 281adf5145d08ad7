package mock

import (
	"os"

	"github.com/fwojciec/confscan"
)

var _ confscan.FileSystem = (*FileSystem)(nil)

// FileSystem is a mock implementation of confscan.FileSystem.
type FileSystem struct {
	ReadDirFn func(dir string) ([]os.FileInfo, error)
	StatFn    func(name string) (os.FileInfo, error)
	OpenFn    func(name string) (confscan.File, error)
}

func (f *FileSystem) ReadDir(dir string) ([]os.FileInfo, error) {
	return f.ReadDirFn(dir)
}

func (f *FileSystem) Stat(name string) (os.FileInfo, error) {
	return f.StatFn(name)
}

//nolint:ireturn // mirrors the interface.
func (f *FileSystem) Open(name string) (confscan.File, error) {
	return f.OpenFn(name)
}

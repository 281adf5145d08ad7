package scan

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"path/filepath"

	"github.com/fwojciec/confscan"
)

// statusEvery is how many newly found directories trigger a status update.
const statusEvery = 100

// Enumerator builds the list of directories under a root.
type Enumerator struct {
	FS     confscan.FileSystem
	Status confscan.StatusFunc
	Logger *slog.Logger
}

// Enumerate returns root followed by every directory below it, depth first
// in name order. It uses an explicit stack so depth is not limited by the
// call stack. Directories that vanish or cannot be read are logged and
// skipped. Symbolic links to directories are not followed.
//
// ctx is checked once per directory; on cancellation ctx.Err() is returned.
func (e *Enumerator) Enumerate(ctx context.Context, root string) ([]string, error) {
	pending := []string{root}
	var dirs []string
	lastCount := 0

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			e.Logger.Warn("directory enumeration cancelled", "found", len(dirs))
			return nil, err
		}

		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		dirs = append(dirs, dir)

		if len(dirs)-lastCount >= statusEvery {
			lastCount = len(dirs)
			e.status(len(dirs))
		}

		entries, err := e.FS.ReadDir(dir)
		if errors.Is(err, iofs.ErrNotExist) {
			e.Logger.Error("directory does not exist", "dir", dir)
			continue
		} else if err != nil {
			e.Logger.Error("reading directory", "dir", dir, "err", err)
			continue
		}

		// Push in reverse so that pops come out in name order.
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].IsDir() {
				pending = append(pending, filepath.Join(dir, entries[i].Name()))
			}
		}
	}

	e.status(len(dirs))
	return dirs, nil
}

func (e *Enumerator) status(n int) {
	if e.Status != nil {
		e.Status(fmt.Sprintf("building directory list: %d", n))
	}
}

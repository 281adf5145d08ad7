package scan

import (
	"context"
	"errors"
	iofs "io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fwojciec/confscan"
)

// Lister collects the files of a directory list that match a pattern.
type Lister struct {
	FS     confscan.FileSystem
	Logger *slog.Logger
}

// List scans each directory in dirs, without descending, for entries whose
// name matches pattern, and returns them in directory-list order. Matching
// ignores case. Missing directories are logged and skipped. Progress is
// tracked per directory on tracker.
//
// ctx is checked once per directory; on cancellation ctx.Err() is returned.
func (l *Lister) List(ctx context.Context, dirs []string, pattern string, tracker *Tracker) ([]string, error) {
	pattern = strings.ToLower(pattern)
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, confscan.Errorf(confscan.EINVALID, "invalid file pattern %q", pattern)
	}

	tracker.Start(len(dirs))

	var files []string
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			l.Logger.Warn("file listing cancelled", "pattern", pattern)
			return nil, err
		}

		entries, err := l.FS.ReadDir(dir)
		if errors.Is(err, iofs.ErrNotExist) {
			l.Logger.Error("directory does not exist", "dir", dir)
			continue
		} else if err != nil {
			l.Logger.Error("reading directory", "dir", dir, "err", err)
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			// The pattern was validated above, so Match cannot fail here.
			if ok, _ := filepath.Match(pattern, strings.ToLower(entry.Name())); ok {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
		tracker.Step()
	}

	if err := tracker.Finish(ctx); err != nil {
		return nil, err
	}
	return files, nil
}

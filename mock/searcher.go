package mock

import (
	"context"

	"github.com/fwojciec/confscan"
)

var _ confscan.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of confscan.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, root string, progress confscan.ProgressFunc, status confscan.StatusFunc) (*confscan.Report, error)
}

func (s *Searcher) Search(ctx context.Context, root string, progress confscan.ProgressFunc, status confscan.StatusFunc) (*confscan.Report, error) {
	return s.SearchFn(ctx, root, progress, status)
}

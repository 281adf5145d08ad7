package mock

import "github.com/fwojciec/confscan"

var _ confscan.DocumentReader = (*DocumentReader)(nil)

// DocumentReader is a mock implementation of confscan.DocumentReader.
type DocumentReader struct {
	OpenTextFn  func(path string) (string, error)
	OpenPartsFn func(path string) ([]string, error)
}

func (r *DocumentReader) OpenText(path string) (string, error) {
	return r.OpenTextFn(path)
}

func (r *DocumentReader) OpenParts(path string) ([]string, error) {
	return r.OpenPartsFn(path)
}

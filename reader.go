package confscan

// DocumentReader reads the content of office documents as text.
// Implementations must not interpret the content; callers only search it
// for a marker.
type DocumentReader interface {
	// OpenText returns the primary content part of a word-processing document.
	OpenText(path string) (string, error)

	// OpenParts returns the content of every part of a spreadsheet package.
	OpenParts(path string) ([]string, error)
}

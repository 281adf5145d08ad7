package scan

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Digest fingerprints an ordered list of paths using xxhash. Equal lists in
// equal order have equal digests.
func Digest(paths []string) string {
	h := xxhash.New()
	for _, p := range paths {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Package fs exports scan reports to files.
package fs

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/confscan"
)

// Ensure ReportWriter implements confscan.ReportWriter at compile time.
var _ confscan.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes the confidential set of a report to a file.
//
// A path ending in .json receives the whole report as JSON. Any other path
// receives the confidential files, one per line. The file is written next
// to its destination and renamed into place, so readers never see a
// partial export.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a ReportWriter that writes to path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

// WriteReport replaces the destination file with the export of report.
func (w *ReportWriter) WriteReport(ctx context.Context, report *confscan.Report) error {
	if w.path == "" {
		return confscan.Errorf(confscan.EINVALID, "output path required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after rename

	if err := w.encode(tmp, report); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), w.path)
}

func (w *ReportWriter) encode(dst io.Writer, report *confscan.Report) error {
	if strings.EqualFold(filepath.Ext(w.path), ".json") {
		enc := json.NewEncoder(dst)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return WritePaths(dst, report.Paths)
}

// WritePaths writes paths one per line.
func WritePaths(dst io.Writer, paths []string) error {
	bw := bufio.NewWriter(dst)
	for _, p := range paths {
		if _, err := bw.WriteString(p + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

package scan

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fwojciec/confscan"
	"github.com/fwojciec/confscan/bloom"
)

// expectedFlagged sizes the name filter of a scan.
const expectedFlagged = 1024

// Classifier decides whether single files are confidential.
//
// Word-processing and spreadsheet files are read through a DocumentReader
// and searched for the marker. PDF files are not read: a PDF is confidential
// when its name, without extension, equals the name of a file flagged
// earlier in the same scan.
type Classifier struct {
	fs      confscan.FileSystem
	reader  confscan.DocumentReader
	marker  string
	logger  *slog.Logger
	flagged *bloom.NameSet
}

// NewClassifier returns a Classifier with an empty set of flagged names.
// An empty marker selects confscan.DefaultMarker.
func NewClassifier(fsys confscan.FileSystem, reader confscan.DocumentReader, marker string, logger *slog.Logger) *Classifier {
	if marker == "" {
		marker = confscan.DefaultMarker
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Classifier{
		fs:      fsys,
		reader:  reader,
		marker:  marker,
		logger:  logger,
		flagged: bloom.NewNameSet(expectedFlagged),
	}
}

// Eligible reports whether Classify would inspect the file rather than skip it.
// It is safe to call concurrently with Classify.
func (c *Classifier) Eligible(path string) bool {
	if isTemporary(path) {
		return false
	}
	_, err := c.fs.Stat(path)
	return err == nil
}

// Classify returns the verdict for one file. Read failures are logged and
// reported as VerdictUnreadable; they never stop the caller.
func (c *Classifier) Classify(path string, format confscan.Format) confscan.Verdict {
	if _, err := c.fs.Stat(path); err != nil {
		c.logger.Error("file does not exist", "path", path, "err", err)
		return confscan.VerdictSkipped
	}
	if isTemporary(path) {
		c.logger.Warn("ignoring temporary file", "path", path)
		return confscan.VerdictSkipped
	}

	var verdict confscan.Verdict
	switch format {
	case confscan.FormatWord:
		verdict = c.classifyText(path)
	case confscan.FormatExcel:
		verdict = c.classifyParts(path)
	case confscan.FormatPDF:
		verdict = c.classifyName(path)
	default:
		c.logger.Error("unsupported format", "path", path, "format", format)
		return confscan.VerdictUnreadable
	}

	if verdict == confscan.VerdictConfidential {
		c.logger.Debug("confidential document", "path", path)
		c.Flag(path)
	} else {
		c.logger.Debug("document classified", "path", path, "verdict", verdict)
	}
	return verdict
}

// Flag records path as confidential so PDFs with the same name match.
func (c *Classifier) Flag(path string) {
	c.flagged.Add(baseName(path))
}

func (c *Classifier) classifyText(path string) confscan.Verdict {
	text, err := c.reader.OpenText(path)
	if err != nil {
		c.logger.Error("reading document", "path", path, "err", err)
		return confscan.VerdictUnreadable
	}
	if strings.Contains(text, c.marker) {
		return confscan.VerdictConfidential
	}
	return confscan.VerdictClean
}

func (c *Classifier) classifyParts(path string) confscan.Verdict {
	parts, err := c.reader.OpenParts(path)
	if err != nil {
		c.logger.Error("reading spreadsheet", "path", path, "err", err)
		return confscan.VerdictUnreadable
	}
	for _, part := range parts {
		if strings.Contains(part, c.marker) {
			return confscan.VerdictConfidential
		}
	}
	return confscan.VerdictClean
}

func (c *Classifier) classifyName(path string) confscan.Verdict {
	if c.flagged.Contains(baseName(path)) {
		return confscan.VerdictConfidential
	}
	return confscan.VerdictClean
}

func isTemporary(path string) bool {
	return strings.HasPrefix(filepath.Base(path), confscan.TempFilePrefix)
}

// baseName returns the file name without directory and extension.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

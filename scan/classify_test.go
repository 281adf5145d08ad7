package scan_test

import (
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/confscan"
	"github.com/fwojciec/confscan/billy"
	"github.com/fwojciec/confscan/mock"
	"github.com/fwojciec/confscan/scan"
)

func writeFile(t *testing.T, fsys *billy.FS, name string, data []byte) {
	t.Helper()
	require.NoError(t, util.WriteFile(fsys.Raw(), name, data, 0o644))
}

func textReader(texts map[string]string) *mock.DocumentReader {
	return &mock.DocumentReader{
		OpenTextFn: func(path string) (string, error) {
			text, ok := texts[path]
			if !ok {
				return "", errors.New("corrupt document")
			}
			return text, nil
		},
		OpenPartsFn: func(path string) ([]string, error) {
			text, ok := texts[path]
			if !ok {
				return nil, errors.New("corrupt document")
			}
			return []string{"<workbook/>", text}, nil
		},
	}
}

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	t.Run("flags documents carrying the marker", func(t *testing.T) {
		t.Parallel()

		fsys := billy.NewInMemoryFS()
		writeFile(t, fsys, "/share/secret.docx", []byte("x"))
		writeFile(t, fsys, "/share/plain.docx", []byte("x"))
		c := scan.NewClassifier(fsys, textReader(map[string]string{
			"/share/secret.docx": `<w:tag w:val="confidentialityType"/>`,
			"/share/plain.docx":  `<w:t>hello</w:t>`,
		}), "", nil)

		assert.Equal(t, confscan.VerdictConfidential, c.Classify("/share/secret.docx", confscan.FormatWord))
		assert.Equal(t, confscan.VerdictClean, c.Classify("/share/plain.docx", confscan.FormatWord))
	})

	t.Run("searches every spreadsheet part", func(t *testing.T) {
		t.Parallel()

		fsys := billy.NewInMemoryFS()
		writeFile(t, fsys, "/share/budget.xlsx", []byte("x"))
		c := scan.NewClassifier(fsys, textReader(map[string]string{
			"/share/budget.xlsx": `<property name="confidentialityType"/>`,
		}), "", nil)

		assert.Equal(t, confscan.VerdictConfidential, c.Classify("/share/budget.xlsx", confscan.FormatExcel))
	})

	t.Run("uses a custom marker", func(t *testing.T) {
		t.Parallel()

		fsys := billy.NewInMemoryFS()
		writeFile(t, fsys, "/share/a.docx", []byte("x"))
		c := scan.NewClassifier(fsys, textReader(map[string]string{
			"/share/a.docx": "confidentialityType and restricted",
		}), "restricted", nil)

		assert.Equal(t, confscan.VerdictConfidential, c.Classify("/share/a.docx", confscan.FormatWord))
	})

	t.Run("never flags temporary files", func(t *testing.T) {
		t.Parallel()

		fsys := billy.NewInMemoryFS()
		writeFile(t, fsys, "/share/~$report.docx", []byte("x"))
		reader := &mock.DocumentReader{
			OpenTextFn: func(path string) (string, error) {
				t.Fatal("temporary file must not be read")
				return "", nil
			},
		}
		c := scan.NewClassifier(fsys, reader, "", nil)

		assert.Equal(t, confscan.VerdictSkipped, c.Classify("/share/~$report.docx", confscan.FormatWord))
	})

	t.Run("skips files that disappeared", func(t *testing.T) {
		t.Parallel()

		c := scan.NewClassifier(billy.NewInMemoryFS(), textReader(nil), "", nil)

		assert.Equal(t, confscan.VerdictSkipped, c.Classify("/share/gone.docx", confscan.FormatWord))
	})

	t.Run("reports unreadable documents", func(t *testing.T) {
		t.Parallel()

		fsys := billy.NewInMemoryFS()
		writeFile(t, fsys, "/share/broken.docx", []byte("x"))
		writeFile(t, fsys, "/share/broken.xlsx", []byte("x"))
		c := scan.NewClassifier(fsys, textReader(nil), "", nil)

		assert.Equal(t, confscan.VerdictUnreadable, c.Classify("/share/broken.docx", confscan.FormatWord))
		assert.Equal(t, confscan.VerdictUnreadable, c.Classify("/share/broken.xlsx", confscan.FormatExcel))
	})

	t.Run("matches pdf names against flagged documents", func(t *testing.T) {
		t.Parallel()

		fsys := billy.NewInMemoryFS()
		writeFile(t, fsys, "/share/report.docx", []byte("x"))
		writeFile(t, fsys, "/share/other/report.pdf", []byte("%PDF"))
		writeFile(t, fsys, "/share/Report.pdf", []byte("%PDF"))
		writeFile(t, fsys, "/share/summary.pdf", []byte("%PDF"))
		c := scan.NewClassifier(fsys, textReader(map[string]string{
			"/share/report.docx": "confidentialityType",
		}), "", nil)

		require.Equal(t, confscan.VerdictConfidential, c.Classify("/share/report.docx", confscan.FormatWord))

		assert.Equal(t, confscan.VerdictConfidential, c.Classify("/share/other/report.pdf", confscan.FormatPDF))
		assert.Equal(t, confscan.VerdictClean, c.Classify("/share/Report.pdf", confscan.FormatPDF))
		assert.Equal(t, confscan.VerdictClean, c.Classify("/share/summary.pdf", confscan.FormatPDF))
	})

	t.Run("never reads pdf content", func(t *testing.T) {
		t.Parallel()

		fsys := billy.NewInMemoryFS()
		writeFile(t, fsys, "/share/marked.pdf", []byte("confidentialityType"))
		c := scan.NewClassifier(fsys, &mock.DocumentReader{}, "", nil)

		assert.Equal(t, confscan.VerdictClean, c.Classify("/share/marked.pdf", confscan.FormatPDF))
	})
}

func TestClassifier_Eligible(t *testing.T) {
	t.Parallel()

	fsys := billy.NewInMemoryFS()
	writeFile(t, fsys, "/share/a.docx", []byte("x"))
	writeFile(t, fsys, "/share/~a.docx", []byte("x"))
	c := scan.NewClassifier(fsys, &mock.DocumentReader{}, "", nil)

	assert.True(t, c.Eligible("/share/a.docx"))
	assert.False(t, c.Eligible("/share/~a.docx"))
	assert.False(t, c.Eligible("/share/missing.docx"))
}

func TestDigest(t *testing.T) {
	t.Parallel()

	a := scan.Digest([]string{"/share/a.docx", "/share/b.docx"})

	assert.Len(t, a, 16)
	assert.Equal(t, a, scan.Digest([]string{"/share/a.docx", "/share/b.docx"}))
	assert.NotEqual(t, a, scan.Digest([]string{"/share/b.docx", "/share/a.docx"}))
}

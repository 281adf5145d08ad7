package slog_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/confscan/mock"
	confslog "github.com/fwojciec/confscan/slog"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingReader_OpenText(t *testing.T) {
	t.Parallel()

	t.Run("logs read with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.DocumentReader{
			OpenTextFn: func(path string) (string, error) {
				return "<w:document/>", nil
			},
		}

		reader := confslog.NewLoggingReader(inner, debugLogger(&buf))
		text, err := reader.OpenText("/share/a.docx")

		require.NoError(t, err)
		assert.Equal(t, "<w:document/>", text)
		output := buf.String()
		assert.Contains(t, output, "open text")
		assert.Contains(t, output, "path=/share/a.docx")
		assert.Contains(t, output, "bytes=13")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.DocumentReader{
			OpenTextFn: func(path string) (string, error) {
				return "", errors.New("zip: not a valid zip file")
			},
		}

		reader := confslog.NewLoggingReader(inner, debugLogger(&buf))
		_, err := reader.OpenText("/share/a.docx")

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="zip: not a valid zip file"`)
	})

	t.Run("stays quiet above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.DocumentReader{
			OpenTextFn: func(path string) (string, error) {
				return "", nil
			},
		}

		reader := confslog.NewLoggingReader(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := reader.OpenText("/share/a.docx")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingReader_OpenParts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.DocumentReader{
		OpenPartsFn: func(path string) ([]string, error) {
			return []string{"<workbook/>", "<sst/>"}, nil
		},
	}

	reader := confslog.NewLoggingReader(inner, debugLogger(&buf))
	parts, err := reader.OpenParts("/share/b.xlsx")

	require.NoError(t, err)
	assert.Len(t, parts, 2)
	output := buf.String()
	assert.Contains(t, output, "open parts")
	assert.Contains(t, output, "parts=2")
}

package main_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/confscan"
	main "github.com/fwojciec/confscan/cmd/confscan"
	"github.com/fwojciec/confscan/mock"
)

func completedReport() *confscan.Report {
	return &confscan.Report{
		ID:    "scan-1",
		Root:  "/share",
		State: confscan.StateCompleted,
		Paths: []string{"/share/a.docx", "/share/a.pdf"},
		Phases: []confscan.PhaseStats{
			{Format: confscan.FormatWord, Listed: 3, Confidential: 1},
			{Format: confscan.FormatExcel},
			{Format: confscan.FormatPDF, Listed: 1, Confidential: 1},
		},
	}
}

func searcherReturning(report *confscan.Report, err error) *mock.Searcher {
	return &mock.Searcher{
		SearchFn: func(_ context.Context, root string, progress confscan.ProgressFunc, status confscan.StatusFunc) (*confscan.Report, error) {
			status("searching docx files: analysing files")
			progress(0.5)
			progress(1)
			return report, err
		},
	}
}

func TestScanCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints confidential paths on stdout", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Searcher: searcherReturning(completedReport(), nil),
		}

		cmd := &main.ScanCmd{Root: "/share"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "/share/a.docx\n/share/a.pdf\n", stdout.String())
		assert.Contains(t, stderr.String(), "searching docx files: analysing files")
		assert.Contains(t, stderr.String(), "completed: 2 confidential files under /share")
		assert.NotContains(t, stderr.String(), "\r", "no live line without a terminal")
	})

	t.Run("exports and saves the report", func(t *testing.T) {
		t.Parallel()

		var exportedTo string
		var saved *confscan.Report
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Searcher: searcherReturning(completedReport(), nil),
			NewWriter: func(path string) confscan.ReportWriter {
				return &mock.ReportWriter{
					WriteReportFn: func(_ context.Context, _ *confscan.Report) error {
						exportedTo = path
						return nil
					},
				}
			},
			Reports: &mock.ReportService{
				CreateReportFn: func(_ context.Context, report *confscan.Report) error {
					saved = report
					return nil
				},
			},
		}

		cmd := &main.ScanCmd{Root: "/share", Output: "/tmp/out.txt", Save: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "/tmp/out.txt", exportedTo)
		require.NotNil(t, saved)
		assert.Equal(t, "scan-1", saved.ID)
		assert.Contains(t, stderr.String(), "Saved report scan-1")
	})

	t.Run("keeps partial results of a cancelled scan", func(t *testing.T) {
		t.Parallel()

		report := completedReport()
		report.State = confscan.StateCancelled
		report.Paths = report.Paths[:1]
		var saved bool
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Searcher: searcherReturning(report, fmt.Errorf("search cancelled: %w", context.Canceled)),
			Reports: &mock.ReportService{
				CreateReportFn: func(_ context.Context, _ *confscan.Report) error {
					saved = true
					return nil
				},
			},
		}

		cmd := &main.ScanCmd{Root: "/share", Save: true}
		err := cmd.Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, "/share/a.docx\n", stdout.String())
		assert.Contains(t, stderr.String(), "cancelled: 1 confidential files")
		assert.True(t, saved)
	})

	t.Run("reports failure without printing paths", func(t *testing.T) {
		t.Parallel()

		report := &confscan.Report{Root: "/share", State: confscan.StateFailed}
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Searcher: searcherReturning(report, confscan.Errorf(confscan.EINTERNAL, "search panicked: boom")),
		}

		cmd := &main.ScanCmd{Root: "/share"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "error: search panicked: boom")
	})

	t.Run("reports a rejected scan", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Searcher: searcherReturning(nil, confscan.Errorf(confscan.ECONFLICT, "a search is already running")),
		}

		cmd := &main.ScanCmd{Root: "/share"}
		err := cmd.Run(deps)

		assert.Equal(t, confscan.ECONFLICT, confscan.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: a search is already running")
	})

	t.Run("returns export errors", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Searcher: searcherReturning(completedReport(), nil),
			NewWriter: func(string) confscan.ReportWriter {
				return &mock.ReportWriter{
					WriteReportFn: func(context.Context, *confscan.Report) error {
						return confscan.Errorf(confscan.EINVALID, "output path required")
					},
				}
			},
		}

		cmd := &main.ScanCmd{Root: "/share", Output: "x"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: output path required")
	})
}

package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"

	"github.com/fwojciec/confscan"
)

// Compile-time interface verification.
var _ confscan.ReportService = (*ReportService)(nil)

// ReportService implements confscan.ReportService using SQLite.
type ReportService struct {
	db *DB
}

// NewReportService creates a new ReportService.
func NewReportService(db *DB) *ReportService {
	return &ReportService{db: db}
}

// CreateReport saves a report with its paths and phase counters in one
// transaction.
func (s *ReportService) CreateReport(ctx context.Context, report *confscan.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}
	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reports (id, root, state, digest, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.ID, report.Root, report.State.String(), report.Digest,
		formatTime(report.StartedAt), formatTime(report.FinishedAt))
	if isConstraintError(err) {
		return confscan.Errorf(confscan.ECONFLICT, "report %s already exists", report.ID)
	} else if err != nil {
		return err
	}

	for i, p := range report.Paths {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO report_paths (report_id, position, format, path)
			VALUES (?, ?, ?, ?)
		`, report.ID, i, pathFormat(p), p); err != nil {
			return err
		}
	}

	for _, ph := range report.Phases {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO report_phases (report_id, format, listed, confidential, skipped, unreadable)
			VALUES (?, ?, ?, ?, ?, ?)
		`, report.ID, ph.Format.String(), ph.Listed, ph.Confidential, ph.Skipped, ph.Unreadable); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindReportByID retrieves a report with its paths and phases.
func (s *ReportService) FindReportByID(ctx context.Context, id string) (*confscan.Report, error) {
	reports, err := s.FindReports(ctx, confscan.ReportFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, confscan.Errorf(confscan.ENOTFOUND, "report not found")
	}
	report := reports[0]

	if report.Paths, err = s.findPaths(ctx, id); err != nil {
		return nil, err
	}
	return report, nil
}

// FindReports retrieves reports matching the filter, newest first, with
// their phase counters.
func (s *ReportService) FindReports(ctx context.Context, filter confscan.ReportFilter) ([]*confscan.Report, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, root, state, digest, started_at, finished_at FROM reports WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Root != nil {
		query.WriteString(" AND root = ?")
		args = append(args, *filter.Root)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*confscan.Report
	for rows.Next() {
		var report confscan.Report
		var state, startedAt, finishedAt string

		if err := rows.Scan(&report.ID, &report.Root, &state, &report.Digest, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		if report.State, err = confscan.ParseScanState(state); err != nil {
			return nil, err
		}
		if report.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if report.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	// The single connection is free again once rows are closed.
	for _, report := range reports {
		if report.Phases, err = s.findPhases(ctx, report.ID); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

// DeleteReport permanently removes a report. Its paths and phases are
// removed by cascade.
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return confscan.Errorf(confscan.ENOTFOUND, "report not found")
	}

	return nil
}

func (s *ReportService) findPaths(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path FROM report_paths WHERE report_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func (s *ReportService) findPhases(ctx context.Context, id string) ([]confscan.PhaseStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT format, listed, confidential, skipped, unreadable
		FROM report_phases WHERE report_id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phases []confscan.PhaseStats
	for rows.Next() {
		var ph confscan.PhaseStats
		var format string
		if err := rows.Scan(&format, &ph.Listed, &ph.Confidential, &ph.Skipped, &ph.Unreadable); err != nil {
			return nil, err
		}
		if ph.Format, err = confscan.ParseFormat(format); err != nil {
			return nil, fmt.Errorf("report %s: %w", id, err)
		}
		phases = append(phases, ph)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Restore phase order.
	ordered := phases[:0:0]
	for _, f := range confscan.Formats() {
		for _, ph := range phases {
			if ph.Format == f {
				ordered = append(ordered, ph)
			}
		}
	}
	return ordered, nil
}

// pathFormat returns the format name stored with a path.
func pathFormat(p string) string {
	f, err := confscan.ParseFormat(strings.ToLower(filepath.Ext(p)))
	if err != nil {
		return ""
	}
	return f.String()
}

func isConstraintError(err error) bool {
	return errors.Is(err, sqlite3.CONSTRAINT)
}

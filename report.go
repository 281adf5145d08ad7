package confscan

import (
	"context"
	"time"
)

// Report is the outcome of one scan: the confidential set plus metadata.
type Report struct {
	ID    string    `json:"id"`
	Root  string    `json:"root"`
	State ScanState `json:"state"`

	// Paths holds the confidential files in phase order (word-processing,
	// spreadsheet, PDF), discovery order within a phase.
	Paths []string `json:"paths"`

	Phases []PhaseStats `json:"phases"`

	// Digest fingerprints Paths; two scans of an unchanged tree have equal digests.
	Digest string `json:"digest"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the report contains invalid fields.
func (r *Report) Validate() error {
	if r.Root == "" {
		return Errorf(EINVALID, "report root required")
	}
	if !r.State.Terminal() {
		return Errorf(EINVALID, "report state %s is not terminal", r.State)
	}
	return nil
}

// Duration returns how long the scan ran.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Count returns the number of confidential files. Listings load reports
// without paths, so the phase counters are used when Paths is nil.
func (r *Report) Count() int {
	if r.Paths != nil {
		return len(r.Paths)
	}
	n := 0
	for _, ph := range r.Phases {
		n += ph.Confidential
	}
	return n
}

// ReportService represents a service for managing saved scan reports.
type ReportService interface {
	// CreateReport saves a new report. An ID is assigned if empty.
	CreateReport(ctx context.Context, report *Report) error

	// FindReportByID retrieves a report and its paths by ID.
	// Returns ENOTFOUND if report does not exist.
	FindReportByID(ctx context.Context, id string) (*Report, error)

	// FindReports retrieves reports matching the filter, newest first.
	// Phases are loaded, paths are not.
	FindReports(ctx context.Context, filter ReportFilter) ([]*Report, error)

	// DeleteReport permanently removes a report and its paths.
	// Returns ENOTFOUND if report does not exist.
	DeleteReport(ctx context.Context, id string) error
}

// ReportFilter represents a filter for FindReports.
type ReportFilter struct {
	ID   *string `json:"id"`
	Root *string `json:"root"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ReportWriter exports the confidential set of a report.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *Report) error
}

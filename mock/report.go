package mock

import (
	"context"

	"github.com/fwojciec/confscan"
)

var _ confscan.ReportService = (*ReportService)(nil)

// ReportService is a mock implementation of confscan.ReportService.
type ReportService struct {
	CreateReportFn   func(ctx context.Context, report *confscan.Report) error
	FindReportByIDFn func(ctx context.Context, id string) (*confscan.Report, error)
	FindReportsFn    func(ctx context.Context, filter confscan.ReportFilter) ([]*confscan.Report, error)
	DeleteReportFn   func(ctx context.Context, id string) error
}

func (s *ReportService) CreateReport(ctx context.Context, report *confscan.Report) error {
	return s.CreateReportFn(ctx, report)
}

func (s *ReportService) FindReportByID(ctx context.Context, id string) (*confscan.Report, error) {
	return s.FindReportByIDFn(ctx, id)
}

func (s *ReportService) FindReports(ctx context.Context, filter confscan.ReportFilter) ([]*confscan.Report, error) {
	return s.FindReportsFn(ctx, filter)
}

func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	return s.DeleteReportFn(ctx, id)
}

var _ confscan.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of confscan.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, report *confscan.Report) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, report *confscan.Report) error {
	return w.WriteReportFn(ctx, report)
}

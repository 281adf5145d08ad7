package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/confscan"
)

// Ensure LoggingReportService implements confscan.ReportService.
var _ confscan.ReportService = (*LoggingReportService)(nil)

// LoggingReportService wraps a ReportService with logging.
type LoggingReportService struct {
	next   confscan.ReportService
	logger *slog.Logger
}

// NewLoggingReportService creates a new LoggingReportService.
func NewLoggingReportService(next confscan.ReportService, logger *slog.Logger) *LoggingReportService {
	return &LoggingReportService{next: next, logger: logger}
}

func (s *LoggingReportService) CreateReport(ctx context.Context, report *confscan.Report) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("report saved",
			"id", report.ID,
			"root", report.Root,
			"paths", len(report.Paths),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateReport(ctx, report)
}

func (s *LoggingReportService) FindReportByID(ctx context.Context, id string) (report *confscan.Report, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("report lookup",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindReportByID(ctx, id)
}

func (s *LoggingReportService) FindReports(ctx context.Context, filter confscan.ReportFilter) (reports []*confscan.Report, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("report listing",
			"count", len(reports),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindReports(ctx, filter)
}

func (s *LoggingReportService) DeleteReport(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("report deleted",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteReport(ctx, id)
}

package service

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/finassist/dashboard-bff-go/internal/domain"
	"github.com/finassist/dashboard-bff-go/internal/paginate"
)

// Session holds the dashboard's server-side view state: the selected
// month, its assembled report, and the reconciliation table's page.
//
// Month switches are last-request-wins: when two Select calls race, the
// fetch that finishes for an outdated month is discarded instead of
// overwriting the newer selection.
type Session struct {
	mu       sync.Mutex
	reports  *ReportService
	logger   *zap.Logger
	pageSize int

	requested string // latest month asked for
	current   string // month the loaded report belongs to
	report    *MonthReport
	pager     paginate.Pager
}

// NewSession creates a session bound to the report service. pageSize is
// the reconciliation table's rows per page.
func NewSession(reports *ReportService, logger *zap.Logger, pageSize int) *Session {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Session{
		reports:  reports,
		logger:   logger,
		pageSize: pageSize,
	}
}

// Select switches the session to a month. It returns the loaded report,
// or (nil, nil) when a newer Select superseded this one while its fetch
// was in flight.
func (s *Session) Select(ctx context.Context, month string) (*MonthReport, error) {
	ctx, span := tracer.Start(ctx, "Session.Select")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	s.mu.Lock()
	s.requested = month
	s.mu.Unlock()

	report, err := s.reports.MonthReport(ctx, month)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.requested != month {
		// A newer selection won the race; this result is stale.
		s.logger.Debug("stale month fetch discarded",
			zap.String("fetched", month),
			zap.String("requested", s.requested),
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.current = month
	s.report = report
	s.pager.Observe(month, len(report.Recon.Rows))
	return report, nil
}

// Refresh re-assembles the current month's report, typically after an
// upload invalidated the cache. No-op when no month is selected.
func (s *Session) Refresh(ctx context.Context) (*MonthReport, error) {
	s.mu.Lock()
	month := s.current
	s.mu.Unlock()

	if month == "" {
		return nil, nil
	}
	return s.Select(ctx, month)
}

// Current returns the loaded month and report, or ("", nil) before the
// first successful Select.
func (s *Session) Current() (string, *MonthReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.report
}

// ReconPage returns a page of the current reconciliation table.
// requested < 0 means "the page the session is already on", which lets
// the pager's reset-on-identity-change take effect: after a month
// switch or refetch the session lands on the first page, regardless of
// where it was before. An explicit request is clamped, never erroring.
func (s *Session) ReconPage(requested int) paginate.Page[domain.ReconRow] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.report == nil {
		return paginate.Paginate([]domain.ReconRow{}, s.pageSize, 0)
	}

	rows := s.report.Recon.Rows
	s.pager.Observe(s.current, len(rows))
	if requested >= 0 {
		s.pager.Request(requested)
	}
	return paginate.Paginate(rows, s.pageSize, s.pager.Page())
}

package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/finassist/dashboard-bff-go/internal/infra/cache"
	"github.com/finassist/dashboard-bff-go/internal/infra/observability"
	"github.com/finassist/dashboard-bff-go/internal/service"
)

func reconRows(n int) []any {
	rows := make([]any, n)
	for i := 0; i < n; i++ {
		rows[i] = map[string]any{
			"date":  "2025-09-01",
			"delta": 0.0,
		}
	}
	return rows
}

func newSession(fetcher *mockReportFetcher, pageSize int) *service.Session {
	reports := service.NewReportService(
		fetcher,
		cache.New[any](5*time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
		5,
	)
	return service.NewSession(reports, zap.NewNop(), pageSize)
}

func TestSession_SelectLoadsReport(t *testing.T) {
	sess := newSession(&mockReportFetcher{recon: reconRows(3)}, 10)

	report, err := sess.Select(context.Background(), "2025-09")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report == nil {
		t.Fatal("expected report, got nil")
	}

	month, current := sess.Current()
	if month != "2025-09" || current == nil {
		t.Errorf("expected current month 2025-09 with report, got (%q, %v)", month, current)
	}
}

func TestSession_ReconPageClampsAndNavigates(t *testing.T) {
	sess := newSession(&mockReportFetcher{recon: reconRows(23)}, 10)

	if _, err := sess.Select(context.Background(), "2025-09"); err != nil {
		t.Fatal(err)
	}

	page := sess.ReconPage(-1)
	if page.Current != 0 || page.TotalPages != 3 {
		t.Fatalf("expected page 0 of 3, got %d of %d", page.Current, page.TotalPages)
	}

	// Request far beyond range: clamp to last page.
	page = sess.ReconPage(9)
	if page.Current != 2 {
		t.Errorf("expected clamp to page 2, got %d", page.Current)
	}
	if page.RangeStart != 20 || page.RangeEnd != 23 {
		t.Errorf("expected range [20,23), got [%d,%d)", page.RangeStart, page.RangeEnd)
	}
	if page.HasNext {
		t.Error("expected no next page on the last page")
	}
}

func TestSession_PageResetsOnMonthSwitch(t *testing.T) {
	sess := newSession(&mockReportFetcher{recon: reconRows(25)}, 10)

	if _, err := sess.Select(context.Background(), "2025-09"); err != nil {
		t.Fatal(err)
	}
	sess.ReconPage(2)

	if _, err := sess.Select(context.Background(), "2025-10"); err != nil {
		t.Fatal(err)
	}

	page := sess.ReconPage(-1)
	if page.Current != 0 {
		t.Errorf("expected reset to page 0 after month switch, got %d", page.Current)
	}
}

func TestSession_StaleFetchDiscarded(t *testing.T) {
	var started sync.Once
	slowStarted := make(chan struct{})
	gate := make(chan struct{})

	fetcher := &mockReportFetcher{
		recon: reconRows(2),
		onFetch: func(month string) {
			// Stall every 2025-09 fetch until the gate opens, so the
			// newer 2025-10 selection lands while 2025-09 is in flight.
			if month == "2025-09" {
				started.Do(func() { close(slowStarted) })
				<-gate
			}
		},
	}
	sess := newSession(fetcher, 10)

	type selectResult struct {
		report *service.MonthReport
		err    error
	}
	res := make(chan selectResult, 1)
	go func() {
		r, err := sess.Select(context.Background(), "2025-09")
		res <- selectResult{r, err}
	}()

	<-slowStarted
	if _, err := sess.Select(context.Background(), "2025-10"); err != nil {
		t.Fatal(err)
	}
	close(gate)

	stale := <-res
	if stale.err != nil {
		t.Fatalf("expected stale select to discard silently, got %v", stale.err)
	}
	if stale.report != nil {
		t.Error("expected stale select to return nil report")
	}

	month, _ := sess.Current()
	if month != "2025-10" {
		t.Errorf("expected last requested month 2025-10 to win, got %s", month)
	}
}

func TestSession_ReconPageBeforeSelect(t *testing.T) {
	sess := newSession(&mockReportFetcher{}, 10)

	page := sess.ReconPage(-1)
	if len(page.Rows) != 0 || page.TotalPages != 1 {
		t.Errorf("expected empty single page before first select, got %+v", page)
	}
}

func TestSession_RefreshWithoutSelectionIsNoop(t *testing.T) {
	sess := newSession(&mockReportFetcher{}, 10)

	report, err := sess.Refresh(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report != nil {
		t.Error("expected nil report before any selection")
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/finassist/dashboard-bff-go/internal/domain"
	"github.com/finassist/dashboard-bff-go/internal/infra/observability"
	"github.com/finassist/dashboard-bff-go/internal/normalize"
	"github.com/finassist/dashboard-bff-go/internal/port"
	"github.com/finassist/dashboard-bff-go/internal/recon"
)

var tracer = otel.Tracer("service/reports")

// MonthReport is the full dashboard payload for one month, assembled
// from the individually cached sections.
type MonthReport struct {
	Month        string            `json:"month"`
	Summary      domain.KpiSummary `json:"summary"`
	Daily        []domain.DailyKpi `json:"daily"`
	Vat          domain.VatReport  `json:"vat"`
	Recon        recon.Result      `json:"recon"`
	TopProducts  []domain.TopEntry `json:"top_products"`
	TopCustomers []domain.TopEntry `json:"top_customers"`
}

// ReportService fetches raw report sections, normalizes them into
// canonical models and caches the result per section and month.
type ReportService struct {
	fetcher  port.ReportFetcher
	cache    port.Cache[any]
	metrics  *observability.Metrics
	logger   *zap.Logger
	topLimit int
}

// NewReportService creates the report service with all dependencies injected.
func NewReportService(
	fetcher port.ReportFetcher,
	cache port.Cache[any],
	metrics *observability.Metrics,
	logger *zap.Logger,
	topLimit int,
) *ReportService {
	if topLimit < 1 {
		topLimit = 5
	}
	return &ReportService{
		fetcher:  fetcher,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		topLimit: topLimit,
	}
}

func sectionKey(month, section string) string {
	return fmt.Sprintf("report:%s:%s", month, section)
}

// InvalidateMonth drops every cached section of a month. Called after a
// successful re-ingestion so the next read reflects the new documents.
func (s *ReportService) InvalidateMonth(month string) {
	s.cache.DeletePrefix(fmt.Sprintf("report:%s:", month))
	s.logger.Info("report cache invalidated", zap.String("month", month))
}

// section runs one fetch-normalize-cache cycle. The cached value is the
// normalized model, so a hit skips both the upstream call and the
// field-resolution pass.
func section[T any](ctx context.Context, s *ReportService, month, name string, build func(context.Context) (T, error)) (T, error) {
	var zero T

	key := sectionKey(month, name)
	if cached, ok := s.cache.Get(key); ok {
		if v, ok := cached.(T); ok {
			s.metrics.IncrCacheHit("report")
			return v, nil
		}
	}
	s.metrics.IncrCacheMiss("report")

	v, err := build(ctx)
	if err != nil {
		s.metrics.IncrExternalError("reporting")
		return zero, err
	}
	s.cache.Set(key, v)
	return v, nil
}

// Summary returns the normalized headline KPIs for a month.
func (s *ReportService) Summary(ctx context.Context, month string) (domain.KpiSummary, error) {
	ctx, span := tracer.Start(ctx, "ReportService.Summary")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	return section(ctx, s, month, "summary", func(ctx context.Context) (domain.KpiSummary, error) {
		raw, err := s.fetcher.FetchSummary(ctx, month)
		if err != nil {
			return domain.KpiSummary{}, fmt.Errorf("summary fetch: %w", err)
		}
		return normalize.KpiSummary(raw), nil
	})
}

// Daily returns the normalized per-day series for a month.
func (s *ReportService) Daily(ctx context.Context, month string) ([]domain.DailyKpi, error) {
	ctx, span := tracer.Start(ctx, "ReportService.Daily")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	return section(ctx, s, month, "daily", func(ctx context.Context) ([]domain.DailyKpi, error) {
		raw, err := s.fetcher.FetchDaily(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("daily fetch: %w", err)
		}
		rows := normalize.Daily(raw)
		s.metrics.AddDroppedRows("daily", len(raw)-len(rows))
		return rows, nil
	})
}

// Vat returns the normalized VAT bracket table with its derived total.
func (s *ReportService) Vat(ctx context.Context, month string) (domain.VatReport, error) {
	ctx, span := tracer.Start(ctx, "ReportService.Vat")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	return section(ctx, s, month, "vat", func(ctx context.Context) (domain.VatReport, error) {
		raw, err := s.fetcher.FetchVat(ctx, month)
		if err != nil {
			return domain.VatReport{}, fmt.Errorf("vat fetch: %w", err)
		}
		report := normalize.VatReport(raw)
		s.metrics.AddDroppedRows("vat", len(raw)-len(report.Brackets))
		return report, nil
	})
}

// Reconciliation returns the evaluated card-vs-bank reconciliation:
// normalized rows with per-row verdicts, totals, aggregate verdict.
func (s *ReportService) Reconciliation(ctx context.Context, month string) (recon.Result, error) {
	ctx, span := tracer.Start(ctx, "ReportService.Reconciliation")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	return section(ctx, s, month, "recon", func(ctx context.Context) (recon.Result, error) {
		raw, err := s.fetcher.FetchReconciliation(ctx, month)
		if err != nil {
			return recon.Result{}, fmt.Errorf("reconciliation fetch: %w", err)
		}
		rows := normalize.Recon(raw)
		s.metrics.AddDroppedRows("recon", len(raw)-len(rows))
		return recon.Evaluate(rows), nil
	})
}

// TopProducts returns the month's product ranking in upstream order.
func (s *ReportService) TopProducts(ctx context.Context, month string) ([]domain.TopEntry, error) {
	ctx, span := tracer.Start(ctx, "ReportService.TopProducts")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	return section(ctx, s, month, "top_products", func(ctx context.Context) ([]domain.TopEntry, error) {
		raw, err := s.fetcher.FetchTopProducts(ctx, month, s.topLimit)
		if err != nil {
			return nil, fmt.Errorf("top products fetch: %w", err)
		}
		entries := normalize.TopProducts(raw)
		s.metrics.AddDroppedRows("top", len(raw)-len(entries))
		return entries, nil
	})
}

// TopCustomers returns the month's customer ranking in upstream order.
func (s *ReportService) TopCustomers(ctx context.Context, month string) ([]domain.TopEntry, error) {
	ctx, span := tracer.Start(ctx, "ReportService.TopCustomers")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	return section(ctx, s, month, "top_customers", func(ctx context.Context) ([]domain.TopEntry, error) {
		raw, err := s.fetcher.FetchTopCustomers(ctx, month, s.topLimit)
		if err != nil {
			return nil, fmt.Errorf("top customers fetch: %w", err)
		}
		entries := normalize.TopCustomers(raw)
		s.metrics.AddDroppedRows("top", len(raw)-len(entries))
		return entries, nil
	})
}

// Anomalies returns the upstream data-quality report for a month.
func (s *ReportService) Anomalies(ctx context.Context, month string) (domain.AnomalyReport, error) {
	ctx, span := tracer.Start(ctx, "ReportService.Anomalies")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	return section(ctx, s, month, "anomalies", func(ctx context.Context) (domain.AnomalyReport, error) {
		raw, err := s.fetcher.FetchAnomalies(ctx, month)
		if err != nil {
			return domain.AnomalyReport{}, fmt.Errorf("anomalies fetch: %w", err)
		}
		return normalize.Anomalies(raw), nil
	})
}

// MonthReport assembles every dashboard section for a month with the
// independent sections fetched concurrently.
func (s *ReportService) MonthReport(ctx context.Context, month string) (*MonthReport, error) {
	// Bail out early if the caller already cancelled.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "ReportService.MonthReport")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("month_report", time.Since(start))
	}()

	report := &MonthReport{Month: month}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.Summary(gCtx, month)
		if err != nil {
			return err
		}
		report.Summary = v
		return nil
	})
	g.Go(func() error {
		v, err := s.Daily(gCtx, month)
		if err != nil {
			return err
		}
		report.Daily = v
		return nil
	})
	g.Go(func() error {
		v, err := s.Vat(gCtx, month)
		if err != nil {
			return err
		}
		report.Vat = v
		return nil
	})
	g.Go(func() error {
		v, err := s.Reconciliation(gCtx, month)
		if err != nil {
			return err
		}
		report.Recon = v
		return nil
	})
	g.Go(func() error {
		v, err := s.TopProducts(gCtx, month)
		if err != nil {
			return err
		}
		report.TopProducts = v
		return nil
	})
	g.Go(func() error {
		v, err := s.TopCustomers(gCtx, month)
		if err != nil {
			return err
		}
		report.TopCustomers = v
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("month report assembly failed",
			zap.String("month", month),
			zap.Error(err),
		)
		return nil, err
	}

	return report, nil
}

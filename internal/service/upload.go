package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/finassist/dashboard-bff-go/internal/domain"
	"github.com/finassist/dashboard-bff-go/internal/infra/observability"
	"github.com/finassist/dashboard-bff-go/internal/infra/resilience"
	"github.com/finassist/dashboard-bff-go/internal/port"
)

// UploadService forwards document uploads to the ingestion collaborator
// and invalidates the month's cached report sections on success.
type UploadService struct {
	uploader port.Uploader
	reports  *ReportService
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewUploadService creates the upload service with all dependencies injected.
func NewUploadService(
	uploader port.Uploader,
	reports *ReportService,
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *UploadService {
	return &UploadService{
		uploader: uploader,
		reports:  reports,
		bulkhead: bulkhead,
		metrics:  metrics,
		logger:   logger,
	}
}

// Upload sends both documents for a month. Ingestion is heavy upstream,
// so concurrent uploads are limited by the bulkhead; callers beyond the
// limit wait until a slot frees or their context expires.
func (s *UploadService) Upload(ctx context.Context, month string, sales, bank port.NamedReader) (*domain.UploadResult, error) {
	ctx, span := tracer.Start(ctx, "UploadService.Upload")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	if err := s.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.bulkhead.Release()

	start := time.Now()
	result, err := s.uploader.Upload(ctx, month, sales, bank)
	s.metrics.RecordRequestDuration("upload", time.Since(start))

	if err != nil {
		s.metrics.IncrExternalError("ingest")
		s.logger.Error("upload failed",
			zap.String("month", month),
			zap.Error(err),
		)
		return nil, err
	}

	// The month's data just changed; cached sections are stale now.
	s.reports.InvalidateMonth(month)

	s.logger.Info("upload ingested",
		zap.String("month", result.Month),
		zap.Int("sales_rows", result.SalesRows),
		zap.Int("bank_rows", result.BankRows),
	)
	return result, nil
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/finassist/dashboard-bff-go/internal/infra/observability"
	"github.com/finassist/dashboard-bff-go/internal/service"
)

var tracer = otel.Tracer("handler")

// Services bundles everything the router serves.
type Services struct {
	Reports *service.ReportService
	Session *service.Session
	Chat    *service.ChatService
	Upload  *service.UploadService
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract of the reporting dashboard frontend.
// jwtSecret, when non-empty, puts the /v1 API behind Bearer auth.
func NewRouter(svcs Services, metrics *observability.Metrics, logger *zap.Logger, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.MetricsMiddleware(metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		if jwtSecret != "" {
			r.Use(JWTAuthMiddleware(jwtSecret, logger))
		}

		// KPI
		r.Get("/kpi/summary", kpiSummaryHandler(svcs.Reports, logger))
		r.Get("/kpi/daily", kpiDailyHandler(svcs.Reports, logger))
		r.Get("/kpi/top-products", topProductsHandler(svcs.Reports, logger))
		r.Get("/kpi/top-customers", topCustomersHandler(svcs.Reports, logger))

		// VAT
		r.Get("/vat/report", vatReportHandler(svcs.Reports, logger))
		r.Get("/vat/export", vatExportHandler(svcs.Reports, logger))

		// Reconciliation
		r.Get("/recon/card", reconHandler(svcs.Reports, logger))

		// Data quality
		r.Get("/quality/anomalies", anomaliesHandler(svcs.Reports, logger))

		// Month session
		r.Post("/session/month", sessionSelectHandler(svcs.Session, logger))
		r.Post("/session/refresh", sessionRefreshHandler(svcs.Session, logger))
		r.Get("/session/report", sessionReportHandler(svcs.Session, logger))
		r.Get("/session/recon/page", sessionReconPageHandler(svcs.Session, logger))

		// Chat
		r.Post("/chat/ask", chatAskHandler(svcs.Chat, logger))
		r.Get("/chat/status", chatStatusHandler(svcs.Chat, logger))
		r.Get("/chat/{month}/transcript", chatTranscriptHandler(svcs.Chat, logger))
		r.Delete("/chat/{month}/transcript", chatClearHandler(svcs.Chat, logger))

		// Ingestion
		r.Post("/files/upload", uploadHandler(svcs.Upload, logger))

		// Ops metrics snapshot
		r.Get("/metrics/report", reportMetricsHandler(metrics, logger))
	})

	return r
}

package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/finassist/dashboard-bff-go/internal/infra/observability"
	"github.com/finassist/dashboard-bff-go/internal/paginate"
	"github.com/finassist/dashboard-bff-go/internal/service"
)

// ============================================================
// KPI — GET /v1/kpi/*
// ============================================================

func kpiSummaryHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/kpi/summary")
		defer span.End()

		month, ok := parseMonth(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "month is required as YYYY-MM")
			return
		}

		summary, err := svc.Summary(ctx, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func kpiDailyHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/kpi/daily")
		defer span.End()

		month, ok := parseMonth(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "month is required as YYYY-MM")
			return
		}

		daily, err := svc.Daily(ctx, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"days": daily})
	}
}

func topProductsHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/kpi/top-products")
		defer span.End()

		month, ok := parseMonth(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "month is required as YYYY-MM")
			return
		}

		entries, err := svc.TopProducts(ctx, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
	}
}

func topCustomersHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/kpi/top-customers")
		defer span.End()

		month, ok := parseMonth(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "month is required as YYYY-MM")
			return
		}

		entries, err := svc.TopCustomers(ctx, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
	}
}

// ============================================================
// VAT — GET /v1/vat/report, GET /v1/vat/export
// ============================================================

func vatReportHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/vat/report")
		defer span.End()

		month, ok := parseMonth(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "month is required as YYYY-MM")
			return
		}

		report, err := svc.Vat(ctx, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// vatExportHandler renders the same normalized VAT table as CSV.
func vatExportHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/vat/export")
		defer span.End()

		month, ok := parseMonth(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "month is required as YYYY-MM")
			return
		}

		report, err := svc.Vat(ctx, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="vat-%s.csv"`, month))

		cw := csv.NewWriter(w)
		cw.Write([]string{"rate", "net", "vat", "gross"})
		for _, b := range report.Brackets {
			cw.Write([]string{
				strconv.FormatFloat(b.Rate, 'f', -1, 64),
				money(b.Net), money(b.Vat), money(b.Gross),
			})
		}
		t := report.Total
		cw.Write([]string{"total", money(t.Net), money(t.Vat), money(t.Gross)})
		cw.Flush()
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ============================================================
// Reconciliation — GET /v1/recon/card
// ============================================================

func reconHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/recon/card")
		defer span.End()

		month, ok := parseMonth(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "month is required as YYYY-MM")
			return
		}

		result, err := svc.Reconciliation(ctx, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		pageSize := 10
		if v := r.URL.Query().Get("page_size"); v != "" {
			if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
				pageSize = ps
			}
		}
		page := parsePage(r)
		if page < 0 {
			page = 0
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"page":    paginate.Paginate(result.Rows, pageSize, page),
			"totals":  result.Totals,
			"verdict": result.Verdict,
		})
	}
}

// ============================================================
// Data quality — GET /v1/quality/anomalies
// ============================================================

func anomaliesHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/quality/anomalies")
		defer span.End()

		month, ok := parseMonth(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "month is required as YYYY-MM")
			return
		}

		report, err := svc.Anomalies(ctx, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// ============================================================
// Metrics & health
// ============================================================

func reportMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := metrics.GetReportSnapshot()
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

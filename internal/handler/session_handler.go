package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/finassist/dashboard-bff-go/internal/service"
)

// ============================================================
// Month session — /v1/session/*
//
// The session mirrors the dashboard's view state server-side: one
// selected month, its assembled report, and the reconciliation table's
// page. Switching months resets the page; racing switches resolve
// last-request-wins.
// ============================================================

func sessionSelectHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/session/month")
		defer span.End()

		var req struct {
			Month string `json:"month"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !monthRe.MatchString(req.Month) {
			writeError(w, http.StatusBadRequest, "month is required as YYYY-MM")
			return
		}

		report, err := sess.Select(ctx, req.Month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if report == nil {
			// A newer selection superseded this one mid-flight.
			writeJSON(w, http.StatusOK, map[string]any{"superseded": true})
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func sessionReportHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/session/report")
		defer span.End()

		month, report := sess.Current()
		if report == nil {
			writeError(w, http.StatusNotFound, "no month selected")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"month": month, "report": report})
	}
}

func sessionReconPageHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/session/recon/page")
		defer span.End()

		page := sess.ReconPage(parsePage(r))
		writeJSON(w, http.StatusOK, page)
	}
}

func sessionRefreshHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/session/refresh")
		defer span.End()

		report, err := sess.Refresh(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if report == nil {
			writeError(w, http.StatusNotFound, "no month selected")
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/finassist/dashboard-bff-go/internal/service"
)

// ============================================================
// Chat — /v1/chat/*
// ============================================================

func chatAskHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/chat/ask")
		defer span.End()

		var req struct {
			Month    string `json:"month"`
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !monthRe.MatchString(req.Month) {
			writeError(w, http.StatusBadRequest, "month is required as YYYY-MM")
			return
		}

		svc.SelectMonth(req.Month)
		reply, err := svc.Send(ctx, req.Question)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message":    reply,
			"transcript": svc.Transcript(),
		})
	}
}

func chatStatusHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/chat/status")
		defer span.End()

		status, err := svc.Status(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func chatTranscriptHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/chat/{month}/transcript")
		defer span.End()

		month := chi.URLParam(r, "month")
		if !monthRe.MatchString(month) {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}

		msgs := svc.SelectMonth(month)
		writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
	}
}

func chatClearHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "DELETE /v1/chat/{month}/transcript")
		defer span.End()

		month := chi.URLParam(r, "month")
		if !monthRe.MatchString(month) {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}

		svc.SelectMonth(month)
		svc.Clear()
		w.WriteHeader(http.StatusNoContent)
	}
}

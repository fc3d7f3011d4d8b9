package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/finassist/dashboard-bff-go/internal/domain"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

// monthMismatchResponse mirrors the ingestion service's 422 payload so
// the UI can render the detected months next to the requested one.
type monthMismatchResponse struct {
	Error      string `json:"error"`
	Requested  string `json:"requested"`
	SalesMonth string `json:"sales_month"`
	BankMonth  string `json:"bank_month"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// parseMonth reads and validates the required ?month=YYYY-MM parameter.
func parseMonth(r *http.Request) (string, bool) {
	month := r.URL.Query().Get("month")
	return month, monthRe.MatchString(month)
}

// parsePage reads ?page= as a 0-based index; -1 means "not requested",
// which lets the session keep (or reset) its current page.
func parsePage(r *http.Request) int {
	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p >= 0 {
			return p
		}
	}
	return -1
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var mismatch *domain.ErrMonthMismatch
	var busy *domain.ErrChatBusy
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &mismatch):
		logger.Warn("month mismatch on upload",
			zap.String("requested", mismatch.Requested),
			zap.String("sales_month", mismatch.SalesMonth),
			zap.String("bank_month", mismatch.BankMonth),
		)
		writeJSON(w, http.StatusUnprocessableEntity, monthMismatchResponse{
			Error:      "month_mismatch",
			Requested:  mismatch.Requested,
			SalesMonth: mismatch.SalesMonth,
			BankMonth:  mismatch.BankMonth,
		})
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &busy):
		logger.Debug("chat busy", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &external):
		logger.Error("external service error", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/finassist/dashboard-bff-go/internal/port"
	"github.com/finassist/dashboard-bff-go/internal/service"
)

// maxUploadBytes caps the combined multipart body. Sales workbooks and
// bank statements for one month stay well under this.
const maxUploadBytes = 32 << 20

// ============================================================
// File upload — POST /v1/files/upload
// ============================================================

func uploadHandler(svc *service.UploadService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/files/upload")
		defer span.End()

		month, ok := parseMonth(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "month is required as YYYY-MM")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}

		sales, salesHeader, err := r.FormFile("sales_excel")
		if err != nil {
			writeError(w, http.StatusBadRequest, "sales_excel file is required")
			return
		}
		defer sales.Close()

		bank, bankHeader, err := r.FormFile("bank_pdf")
		if err != nil {
			writeError(w, http.StatusBadRequest, "bank_pdf file is required")
			return
		}
		defer bank.Close()

		result, err := svc.Upload(ctx, month,
			port.NamedReader{Name: salesHeader.Filename, Reader: sales},
			port.NamedReader{Name: bankHeader.Filename, Reader: bank},
		)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

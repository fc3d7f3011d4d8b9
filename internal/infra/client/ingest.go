package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/finassist/dashboard-bff-go/internal/domain"
	"github.com/finassist/dashboard-bff-go/internal/port"
)

// IngestClient forwards sales/bank documents to the ingestion service.
//
// Unlike the read clients there is no retry wrapper: the upload streams
// are one-shot readers and a replay would send truncated bodies. A
// failed upload surfaces to the caller, who owns the original files.
type IngestClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
}

// NewIngestClient creates a new IngestClient. The http.Client should
// carry a longer timeout than the read clients; parsing a bank PDF
// upstream can take tens of seconds.
func NewIngestClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker) *IngestClient {
	return &IngestClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
	}
}

// mismatchBody is the ingestion service's 422 payload when the
// uploaded documents belong to other months than the requested one.
type mismatchBody struct {
	Error      string `json:"error"`
	Requested  string `json:"requested"`
	SalesMonth string `json:"sales_month"`
	BankMonth  string `json:"bank_month"`
}

// Upload sends both documents as one multipart request. A detected
// month mismatch comes back as *domain.ErrMonthMismatch with the
// months the ingestion service found in each document.
func (c *IngestClient) Upload(ctx context.Context, month string, sales, bank port.NamedReader) (*domain.UploadResult, error) {
	ctx, span := tracer.Start(ctx, "IngestClient.Upload")
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	result, err := c.cb.Execute(func() (any, error) {
		pr, pw := io.Pipe()
		mw := multipart.NewWriter(pw)

		go func() {
			err := writePart(mw, "sales_excel", sales)
			if err == nil {
				err = writePart(mw, "bank_pdf", bank)
			}
			if err == nil {
				err = mw.Close()
			}
			pw.CloseWithError(err)
		}()

		uploadURL := fmt.Sprintf("%s/files/upload?month=%s", c.baseURL, url.QueryEscape(month))
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, pr)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnprocessableEntity {
			var body mismatchBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error == "month_mismatch" {
				return nil, &domain.ErrMonthMismatch{
					Requested:  body.Requested,
					SalesMonth: body.SalesMonth,
					BankMonth:  body.BankMonth,
				}
			}
			return nil, fmt.Errorf("ingest API rejected upload with status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("ingest API returned status %d", resp.StatusCode)
		}

		var out domain.UploadResult
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, err
		}
		return &out, nil
	})

	if err != nil {
		// Mismatch and validation outcomes pass through untouched so the
		// handler can render the detected months.
		if _, ok := err.(*domain.ErrMonthMismatch); ok {
			return nil, err
		}
		return nil, &domain.ErrExternalService{Service: "ingest", Err: err}
	}

	return result.(*domain.UploadResult), nil
}

func writePart(mw *multipart.Writer, field string, file port.NamedReader) error {
	w, err := mw.CreateFormFile(field, file.Name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, file.Reader)
	return err
}

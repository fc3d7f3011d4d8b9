package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/finassist/dashboard-bff-go/internal/domain"
	"github.com/finassist/dashboard-bff-go/internal/infra/resilience"
)

var tracer = otel.Tracer("client")

// ReportingClient fetches raw report sections from the reporting API.
// Responses are decoded into loose JSON shapes on purpose: the upstream
// is inconsistent about field names and the normalize package owns the
// mapping into canonical models.
type ReportingClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewReportingClient creates a new ReportingClient.
func NewReportingClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ReportingClient {
	return &ReportingClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// FetchSummary fetches the headline KPI record for a month.
// A 404 maps to ErrNotFound: the month has no ingested data yet.
func (c *ReportingClient) FetchSummary(ctx context.Context, month string) (map[string]any, error) {
	var out map[string]any
	err := c.getJSON(ctx, "ReportingClient.FetchSummary", "summary", month,
		fmt.Sprintf("/kpi/summary?month=%s", url.QueryEscape(month)), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchDaily fetches the per-day KPI series for a month.
func (c *ReportingClient) FetchDaily(ctx context.Context, month string) ([]any, error) {
	var out []any
	err := c.getJSON(ctx, "ReportingClient.FetchDaily", "daily", month,
		fmt.Sprintf("/kpi/daily?month=%s", url.QueryEscape(month)), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchVat fetches the VAT bracket rows for a month.
func (c *ReportingClient) FetchVat(ctx context.Context, month string) ([]any, error) {
	var out []any
	err := c.getJSON(ctx, "ReportingClient.FetchVat", "vat", month,
		fmt.Sprintf("/vat/report?month=%s", url.QueryEscape(month)), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchReconciliation fetches the card-vs-bank rows for a month.
func (c *ReportingClient) FetchReconciliation(ctx context.Context, month string) ([]any, error) {
	var out []any
	err := c.getJSON(ctx, "ReportingClient.FetchReconciliation", "reconciliation", month,
		fmt.Sprintf("/recon/card?month=%s", url.QueryEscape(month)), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchTopProducts fetches the product ranking for a month.
func (c *ReportingClient) FetchTopProducts(ctx context.Context, month string, limit int) ([]any, error) {
	var out []any
	err := c.getJSON(ctx, "ReportingClient.FetchTopProducts", "top_products", month,
		fmt.Sprintf("/kpi/top-products?month=%s&limit=%d", url.QueryEscape(month), limit), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchTopCustomers fetches the customer ranking for a month.
func (c *ReportingClient) FetchTopCustomers(ctx context.Context, month string, limit int) ([]any, error) {
	var out []any
	err := c.getJSON(ctx, "ReportingClient.FetchTopCustomers", "top_customers", month,
		fmt.Sprintf("/kpi/top-customers?month=%s&limit=%d", url.QueryEscape(month), limit), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchAnomalies fetches the data-quality report for a month.
func (c *ReportingClient) FetchAnomalies(ctx context.Context, month string) (map[string]any, error) {
	var out map[string]any
	err := c.getJSON(ctx, "ReportingClient.FetchAnomalies", "anomalies", month,
		fmt.Sprintf("/quality/anomalies?month=%s", url.QueryEscape(month)), &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// getJSON runs one GET against the reporting API with retry, circuit
// breaker, and tracing, decoding the body into dst.
func (c *ReportingClient) getJSON(ctx context.Context, spanName, resource, month, path string, dst any) error {
	ctx, span := tracer.Start(ctx, spanName)
	defer span.End()
	span.SetAttributes(attribute.String("report.month", month))

	_, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return &domain.ErrNotFound{Resource: resource, Month: month}
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("reporting API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(dst)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return nil, nil
	})

	if err != nil {
		return &domain.ErrExternalService{Service: "reporting", Err: err}
	}
	return nil
}

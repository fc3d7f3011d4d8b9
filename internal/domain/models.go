package domain

// Canonical report models. Upstream producers disagree on field names
// (gross vs total_gross, date vs day vs ds, card vs card_gross); the
// normalize package maps their loose records into these types. All of
// them are immutable once produced — a new fetch builds fresh values.

// KpiSummary is the headline card for one reporting month.
type KpiSummary struct {
	Gross float64 `json:"gross"`
	Net   float64 `json:"net"`
	Vat   float64 `json:"vat"`
	Card  float64 `json:"card"`
	Cash  float64 `json:"cash"`

	// CardShare is card/gross. Upstream may supply it; when it does not,
	// it is derived during normalization (0 when gross is 0).
	CardShare float64 `json:"card_share"`
}

// DailyKpi is one day of the month's daily series. Ordering is
// upstream-determined and preserved as-is.
type DailyKpi struct {
	Date  string  `json:"date"` // ISO-8601 (YYYY-MM-DD)
	Gross float64 `json:"gross"`
	Card  float64 `json:"card"`
	Cash  float64 `json:"cash"`
}

// VatBracket is one VAT rate line of the monthly VAT table.
type VatBracket struct {
	Rate  float64 `json:"rate"` // percentage, e.g. 14 for 14%
	Net   float64 `json:"net"`
	Vat   float64 `json:"vat"`
	Gross float64 `json:"gross"`
}

// VatReport is the bracket table plus the derived Total line.
// Upstream never supplies the total; it is summed locally.
type VatReport struct {
	Brackets []VatBracket `json:"brackets"`
	Total    VatBracket   `json:"total"`
}

// Verdict classifies a reconciliation delta against the fixed tolerance.
type Verdict string

const (
	VerdictBalanced    Verdict = "balanced"
	VerdictNeedsReview Verdict = "needs_review"
)

// ReconRow is one day of the card-vs-bank reconciliation.
//
// Delta comes from upstream as-is — it is NOT recomputed from
// SalesCard - BankTPA here (the upstream reporting service owns that
// formula, including fee treatment).
type ReconRow struct {
	Date      string   `json:"date"`
	SalesCard float64  `json:"sales_card"`
	BankTPA   float64  `json:"bank_tpa"`
	Fees      *float64 `json:"fees"` // nil when upstream omitted fees for the day
	Delta     float64  `json:"delta"`
	Verdict   Verdict  `json:"verdict,omitempty"` // set by recon.Evaluate
}

// ReconTotals is the component-wise sum over all rows of a month.
// Absent fees count as zero in the sum.
type ReconTotals struct {
	SalesCard float64 `json:"sales_card"`
	BankTPA   float64 `json:"bank_tpa"`
	Fees      float64 `json:"fees"`
	Delta     float64 `json:"delta"`
}

// TopEntry is one line of a top-products or top-customers list.
// Ordering is upstream rank order, preserved as-is.
type TopEntry struct {
	Name  string  `json:"name"`
	Gross float64 `json:"gross"`
}

// ============================================================
// Chat
// ============================================================

// Role of a chat message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a month's chat transcript.
type ChatMessage struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatStatus describes the answering collaborator (stub vs hosted LLM).
type ChatStatus struct {
	Mode   string `json:"mode"`
	Model  string `json:"model,omitempty"`
	APIURL string `json:"api_url,omitempty"`
}

// ============================================================
// Ingestion / quality
// ============================================================

// UploadResult is returned by the ingestion collaborator after a
// successful sales+bank document upload.
type UploadResult struct {
	SalesRows int    `json:"sales_rows"`
	BankRows  int    `json:"bank_rows"`
	Month     string `json:"month"`
}

// DuplicateInvoice flags an invoice number appearing on multiple lines.
type DuplicateInvoice struct {
	InvoiceNumber string `json:"invoice_number"`
	Lines         int    `json:"lines"`
}

// NegativeLine flags a sales line with negative gross.
type NegativeLine struct {
	InvoiceNumber string  `json:"invoice_number"`
	Gross         float64 `json:"gross"`
}

// AnomalyReport is the upstream data-quality report for a month.
type AnomalyReport struct {
	DuplicateInvoices []DuplicateInvoice `json:"duplicate_invoices"`
	NegativeLines     []NegativeLine     `json:"negative_lines"`
}

// SuccessResponse is a generic message envelope for mutating endpoints.
type SuccessResponse struct {
	Message string `json:"message"`
}

// OpsMetrics is the operational snapshot served by GET /v1/metrics/report.
// It is derived from the live Prometheus counters, so values are
// cumulative since process start.
type OpsMetrics struct {
	TotalRequests int64   `json:"total_requests"`
	ErrorRate     float64 `json:"error_rate"`
	CacheHitRate  float64 `json:"cache_hit_rate"`
	DroppedRows   int64   `json:"dropped_rows"`
	ChatMessages  int64   `json:"chat_messages"`
	Period        string  `json:"period"`
}

package normalize_test

import (
	"math"
	"testing"

	"github.com/finassist/dashboard-bff-go/internal/normalize"
)

func TestKpiSummary_SynonymOrder(t *testing.T) {
	tests := []struct {
		name string
		rec  normalize.Record
		want float64
	}{
		{"fallback key alone", normalize.Record{"total_gross": 100.0}, 100},
		{"primary wins over fallback", normalize.Record{"gross": 50.0, "total_gross": 100.0}, 50},
		{"primary null falls through", normalize.Record{"gross": nil, "total_gross": 100.0}, 100},
		{"non-numeric string counts as absent", normalize.Record{"gross": "n/a", "total_gross": 100.0}, 100},
		{"numeric string coerces", normalize.Record{"gross": "42.5"}, 42.5},
		{"nothing resolves", normalize.Record{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.KpiSummary(tt.rec)
			if got.Gross != tt.want {
				t.Errorf("gross = %v, want %v", got.Gross, tt.want)
			}
		})
	}
}

func TestKpiSummary_CardShare(t *testing.T) {
	// Upstream-supplied share is authoritative.
	s := normalize.KpiSummary(normalize.Record{"gross": 200.0, "card": 50.0, "card_share": 0.9})
	if s.CardShare != 0.9 {
		t.Errorf("card_share = %v, want 0.9", s.CardShare)
	}

	// Derived when absent.
	s = normalize.KpiSummary(normalize.Record{"gross": 200.0, "card": 50.0})
	if s.CardShare != 0.25 {
		t.Errorf("derived card_share = %v, want 0.25", s.CardShare)
	}

	// Zero gross must not divide.
	s = normalize.KpiSummary(normalize.Record{"gross": 0.0, "card": 50.0})
	if s.CardShare != 0 {
		t.Errorf("card_share with zero gross = %v, want 0", s.CardShare)
	}
}

func TestKpiSummary_TotalOverMalformedInput(t *testing.T) {
	// Single-object normalizer never drops or errors, whatever comes in.
	inputs := []normalize.Record{
		nil,
		{},
		{"gross": true, "net": []any{1, 2}, "vat": map[string]any{}},
		{"gross": nil, "total_gross": nil},
		{"gross": math.NaN()},
	}
	for _, rec := range inputs {
		s := normalize.KpiSummary(rec)
		if s.Net != 0 || s.Vat != 0 {
			t.Errorf("malformed input %v: want zero defaults, got %+v", rec, s)
		}
	}
}

func TestDaily_DropsRowsWithoutDate(t *testing.T) {
	raw := []any{
		map[string]any{"date": "2025-09-01", "gross": 10.0},
		map[string]any{"gross": 99.0},           // no date key at all
		map[string]any{"date": "", "gross": 5.0}, // empty after coercion
		map[string]any{"day": "2025-09-02", "total_gross": 20.0},
		"not an object",
		nil,
	}
	got := normalize.Daily(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Date != "2025-09-01" || got[0].Gross != 10 {
		t.Errorf("row 0 = %+v", got[0])
	}
	if got[1].Date != "2025-09-02" || got[1].Gross != 20 {
		t.Errorf("row 1 = %+v", got[1])
	}
}

func TestVatReport_DerivedTotal(t *testing.T) {
	raw := []any{
		map[string]any{"vat_rate": 14.0, "net": 100.0, "vat": 14.0, "gross": 114.0},
		map[string]any{"rate": 7.0, "net": 50.0, "vat": 3.5, "gross": 53.5},
	}
	got := normalize.VatReport(raw)
	if len(got.Brackets) != 2 {
		t.Fatalf("expected 2 brackets, got %d", len(got.Brackets))
	}
	if got.Brackets[0].Rate != 14 || got.Brackets[1].Rate != 7 {
		t.Errorf("rates = %v, %v", got.Brackets[0].Rate, got.Brackets[1].Rate)
	}
	if got.Total.Net != 150 || got.Total.Vat != 17.5 || got.Total.Gross != 167.5 {
		t.Errorf("total = %+v", got.Total)
	}
}

func TestRecon_PreservesUpstreamDeltaAndFeesAbsence(t *testing.T) {
	raw := []any{
		map[string]any{"date": "2025-09-01", "sales_card": 100.0, "bank_tpa": 90.0, "delta": 5.0},
		map[string]any{"date": "2025-09-02", "card": 80.0, "tpa": 80.0, "fees": 1.5, "delta": -1.5},
		map[string]any{"sales_card": 10.0}, // dropped: no date
	}
	got := normalize.Recon(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}

	// Delta is upstream-authoritative, not sales_card - bank_tpa.
	if got[0].Delta != 5 {
		t.Errorf("delta = %v, want upstream 5", got[0].Delta)
	}
	if got[0].Fees != nil {
		t.Errorf("fees should stay absent, got %v", *got[0].Fees)
	}
	if got[1].Fees == nil || *got[1].Fees != 1.5 {
		t.Errorf("fees = %v, want 1.5", got[1].Fees)
	}
	if got[1].SalesCard != 80 || got[1].BankTPA != 80 {
		t.Errorf("synonym fallback row = %+v", got[1])
	}
}

func TestTopEntries_DropEmptyNames(t *testing.T) {
	products := normalize.TopProducts([]any{
		map[string]any{"product": "Gasóleo", "gross": 900.0},
		map[string]any{"product": "", "gross": 100.0},
		map[string]any{"gross": 50.0},
		map[string]any{"product": "Lubrificante", "gross": 200.0},
	})
	if len(products) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(products))
	}
	// Upstream rank order preserved, not re-sorted.
	if products[0].Name != "Gasóleo" || products[1].Name != "Lubrificante" {
		t.Errorf("order = %v, %v", products[0].Name, products[1].Name)
	}

	customers := normalize.TopCustomers([]any{
		map[string]any{"customer": "Sonangol", "gross": 500.0},
		map[string]any{"product": "not-a-customer-key", "gross": 10.0},
	})
	if len(customers) != 1 || customers[0].Name != "Sonangol" {
		t.Errorf("customers = %+v", customers)
	}
}

func TestAnomalies_MalformedSectionsDegradeToEmpty(t *testing.T) {
	got := normalize.Anomalies(normalize.Record{
		"duplicate_invoices": "garbage",
		"negative_lines": []any{
			map[string]any{"invoice_number": "FT-12", "gross": -30.0},
			map[string]any{"gross": -1.0},
		},
	})
	if len(got.DuplicateInvoices) != 0 {
		t.Errorf("duplicates = %+v, want empty", got.DuplicateInvoices)
	}
	if len(got.NegativeLines) != 1 || got.NegativeLines[0].Gross != -30 {
		t.Errorf("negatives = %+v", got.NegativeLines)
	}
}

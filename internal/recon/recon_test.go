package recon_test

import (
	"testing"

	"github.com/finassist/dashboard-bff-go/internal/domain"
	"github.com/finassist/dashboard-bff-go/internal/recon"
)

func TestVerdictFor_ToleranceBoundary(t *testing.T) {
	tests := []struct {
		delta float64
		want  domain.Verdict
	}{
		{0, domain.VerdictBalanced},
		{0.004, domain.VerdictBalanced},
		{-0.004, domain.VerdictBalanced},
		{0.005, domain.VerdictNeedsReview},
		{-0.005, domain.VerdictNeedsReview},
		{12.34, domain.VerdictNeedsReview},
	}
	for _, tt := range tests {
		if got := recon.VerdictFor(tt.delta); got != tt.want {
			t.Errorf("VerdictFor(%v) = %v, want %v", tt.delta, got, tt.want)
		}
	}
}

func TestEvaluate_TotalsWithAbsentFees(t *testing.T) {
	fee := 2.5
	rows := []domain.ReconRow{
		{Date: "2025-09-01", SalesCard: 100, BankTPA: 95, Fees: &fee, Delta: 2.5},
		{Date: "2025-09-02", SalesCard: 50, BankTPA: 50, Delta: 0}, // fees absent
		{Date: "2025-09-03", SalesCard: 30, BankTPA: 33, Delta: -3},
	}

	res := recon.Evaluate(rows)

	if res.Totals.SalesCard != 180 || res.Totals.BankTPA != 178 {
		t.Errorf("totals = %+v", res.Totals)
	}
	if res.Totals.Fees != 2.5 {
		t.Errorf("fees total = %v, want 2.5 (absent rows count as 0)", res.Totals.Fees)
	}
	if res.Totals.Delta != -0.5 {
		t.Errorf("delta total = %v, want -0.5", res.Totals.Delta)
	}
	if res.Verdict != domain.VerdictNeedsReview {
		t.Errorf("aggregate verdict = %v, want needs_review", res.Verdict)
	}

	// Per-row verdicts.
	if res.Rows[0].Verdict != domain.VerdictNeedsReview {
		t.Errorf("row 0 verdict = %v", res.Rows[0].Verdict)
	}
	if res.Rows[1].Verdict != domain.VerdictBalanced {
		t.Errorf("row 1 verdict = %v", res.Rows[1].Verdict)
	}

	// Row-level fee absence survives evaluation.
	if res.Rows[1].Fees != nil {
		t.Errorf("row 1 fees should remain nil")
	}

	// Input is not mutated.
	if rows[0].Verdict != "" {
		t.Errorf("input slice was mutated: %+v", rows[0])
	}
}

func TestEvaluate_EmptyInput(t *testing.T) {
	res := recon.Evaluate(nil)
	if res.Totals != (domain.ReconTotals{}) {
		t.Errorf("totals = %+v, want zeros", res.Totals)
	}
	if res.Verdict != domain.VerdictBalanced {
		t.Errorf("verdict = %v, want balanced", res.Verdict)
	}
	if len(res.Rows) != 0 {
		t.Errorf("rows = %v, want empty", res.Rows)
	}
}

// Package recon evaluates the card-vs-bank reconciliation for a month:
// per-row and aggregate balance verdicts plus component-wise totals.
package recon

import (
	"math"

	"github.com/finassist/dashboard-bff-go/internal/domain"
)

// Tolerance is the fixed delta threshold below which a day is
// considered reconciled: half a cent under 2-decimal currency display.
// Not user-configurable.
const Tolerance = 0.005

// Result is the evaluated reconciliation for one month.
type Result struct {
	Rows    []domain.ReconRow  `json:"rows"`
	Totals  domain.ReconTotals `json:"totals"`
	Verdict domain.Verdict     `json:"verdict"`
}

// VerdictFor classifies a single delta, symmetric around zero.
func VerdictFor(delta float64) domain.Verdict {
	if math.Abs(delta) < Tolerance {
		return domain.VerdictBalanced
	}
	return domain.VerdictNeedsReview
}

// Evaluate computes totals and verdicts over normalized rows. It is a
// pure function: the input slice is not mutated. Empty input yields
// all-zero totals and a Balanced aggregate, not an error.
//
// Absent fees count as zero in the fee total; the per-row nil is kept
// so callers can still render "-" instead of "0.00".
func Evaluate(rows []domain.ReconRow) Result {
	out := Result{
		Rows:    make([]domain.ReconRow, len(rows)),
		Verdict: domain.VerdictBalanced,
	}
	for i, r := range rows {
		r.Verdict = VerdictFor(r.Delta)
		out.Rows[i] = r

		out.Totals.SalesCard += r.SalesCard
		out.Totals.BankTPA += r.BankTPA
		if r.Fees != nil {
			out.Totals.Fees += *r.Fees
		}
		out.Totals.Delta += r.Delta
	}
	out.Verdict = VerdictFor(out.Totals.Delta)
	return out
}

package normalize

import "github.com/finassist/dashboard-bff-go/internal/domain"

// KpiSummary normalizes the monthly KPI summary object.
// A single-object normalizer never drops its record: missing fields
// resolve to zero values.
func KpiSummary(rec Record) domain.KpiSummary {
	if rec == nil {
		rec = Record{}
	}
	s := domain.KpiSummary{
		Gross: number(rec, 0, grossKeys),
		Net:   number(rec, 0, netKeys),
		Vat:   number(rec, 0, vatKeys),
		Card:  number(rec, 0, cardKeys),
		Cash:  number(rec, 0, cashKeys),
	}
	if share := optNumber(rec, cardShareKeys); share != nil {
		s.CardShare = *share
	} else if s.Gross != 0 {
		s.CardShare = s.Card / s.Gross
	}
	return s
}

// Daily normalizes the daily KPI series. Rows without a resolvable
// date are dropped; ordering is preserved as upstream sent it.
func Daily(raw []any) []domain.DailyKpi {
	out := make([]domain.DailyKpi, 0, len(raw))
	for _, v := range raw {
		rec, ok := asRecord(v)
		if !ok {
			continue
		}
		date := str(rec, "", dateKeys)
		if date == "" {
			continue
		}
		out = append(out, domain.DailyKpi{
			Date:  date,
			Gross: number(rec, 0, grossKeys),
			Card:  number(rec, 0, cardKeys),
			Cash:  number(rec, 0, cashKeys),
		})
	}
	return out
}

// VatReport normalizes the VAT bracket table and derives the Total
// line by summing brackets — upstream never supplies it.
func VatReport(raw []any) domain.VatReport {
	brackets := make([]domain.VatBracket, 0, len(raw))
	var total domain.VatBracket
	for _, v := range raw {
		rec, ok := asRecord(v)
		if !ok {
			continue
		}
		b := domain.VatBracket{
			Rate:  number(rec, 0, rateKeys),
			Net:   number(rec, 0, netKeys),
			Vat:   number(rec, 0, vatKeys),
			Gross: number(rec, 0, grossKeys),
		}
		brackets = append(brackets, b)
		total.Net += b.Net
		total.Vat += b.Vat
		total.Gross += b.Gross
	}
	return domain.VatReport{Brackets: brackets, Total: total}
}

// Recon normalizes reconciliation rows. Rows without a resolvable date
// are dropped. Delta is taken from upstream verbatim and fees absence
// is preserved (nil) for row-level display.
func Recon(raw []any) []domain.ReconRow {
	out := make([]domain.ReconRow, 0, len(raw))
	for _, v := range raw {
		rec, ok := asRecord(v)
		if !ok {
			continue
		}
		date := str(rec, "", dateKeys)
		if date == "" {
			continue
		}
		out = append(out, domain.ReconRow{
			Date:      date,
			SalesCard: number(rec, 0, salesCardKeys),
			BankTPA:   number(rec, 0, bankTPAKeys),
			Fees:      optNumber(rec, feesKeys),
			Delta:     number(rec, 0, deltaKeys),
		})
	}
	return out
}

// TopProducts normalizes a top-products list, dropping entries with an
// empty resolved name. Upstream rank order is preserved.
func TopProducts(raw []any) []domain.TopEntry {
	return topEntries(raw, productKeys)
}

// TopCustomers normalizes a top-customers list.
func TopCustomers(raw []any) []domain.TopEntry {
	return topEntries(raw, customerKeys)
}

func topEntries(raw []any, nameKeys []string) []domain.TopEntry {
	out := make([]domain.TopEntry, 0, len(raw))
	for _, v := range raw {
		rec, ok := asRecord(v)
		if !ok {
			continue
		}
		name := str(rec, "", nameKeys)
		if name == "" {
			continue
		}
		out = append(out, domain.TopEntry{
			Name:  name,
			Gross: number(rec, 0, grossKeys),
		})
	}
	return out
}

// Anomalies normalizes the upstream data-quality report.
func Anomalies(rec Record) domain.AnomalyReport {
	report := domain.AnomalyReport{
		DuplicateInvoices: []domain.DuplicateInvoice{},
		NegativeLines:     []domain.NegativeLine{},
	}
	if rec == nil {
		return report
	}
	if dups, ok := rec["duplicate_invoices"].([]any); ok {
		for _, v := range dups {
			d, ok := asRecord(v)
			if !ok {
				continue
			}
			inv := str(d, "", []string{"invoice_number"})
			if inv == "" {
				continue
			}
			report.DuplicateInvoices = append(report.DuplicateInvoices, domain.DuplicateInvoice{
				InvoiceNumber: inv,
				Lines:         int(number(d, 0, []string{"lines", "cnt"})),
			})
		}
	}
	if negs, ok := rec["negative_lines"].([]any); ok {
		for _, v := range negs {
			n, ok := asRecord(v)
			if !ok {
				continue
			}
			inv := str(n, "", []string{"invoice_number"})
			if inv == "" {
				continue
			}
			report.NegativeLines = append(report.NegativeLines, domain.NegativeLine{
				InvoiceNumber: inv,
				Gross:         number(n, 0, grossKeys),
			})
		}
	}
	return report
}

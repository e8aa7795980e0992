// Package billing turns a job into quote/invoice line items and totals, and
// issues document numbers from the snapshot's monotonic counters.
package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fridgeseal/sealtrack/internal/model"
)

// Standard domestic pricing: a supply line per seal at the flat supply rate
// plus one labour callout line, GST on both.
const (
	SupplyUnitPriceEx = 60.0
	LabourPriceEx     = 95.0
	TaxRate           = 0.1
)

// LinesFor builds the two standard line items for a job. Quantity for the
// supply line is the job's qty floored at 1.
func LinesFor(job model.Job) []model.LineItem {
	profile := job.ProfileCode
	if profile == "" {
		profile = "Seal"
	}
	qty := job.Qty
	if qty < 1 {
		qty = 1
	}
	return []model.LineItem{
		{
			ID:          uuid.NewString(),
			Description: profile + " supply",
			Quantity:    qty,
			UnitPriceEx: SupplyUnitPriceEx,
			TaxRate:     TaxRate,
		},
		{
			ID:          uuid.NewString(),
			Description: "Labour",
			Quantity:    1,
			UnitPriceEx: LabourPriceEx,
			TaxRate:     TaxRate,
		},
	}
}

// Totals sums the lines. Values stay unrounded; rounding happens only when a
// document is rendered.
func Totals(lines []model.LineItem) (subtotal, tax, total float64) {
	for _, li := range lines {
		subtotal += float64(li.Quantity) * li.UnitPriceEx
		tax += float64(li.Quantity) * li.UnitPriceEx * li.TaxRate
	}
	return subtotal, tax, subtotal + tax
}

// QuoteNumber formats the seq'th quote number for the given month,
// e.g. Q2405-001.
func QuoteNumber(seq int, now time.Time) string {
	return fmt.Sprintf("Q%s-%03d", now.Format("0601"), seq)
}

// InvoiceNumber formats the seq'th invoice number, e.g. INV2405-001.
func InvoiceNumber(seq int, now time.Time) string {
	return fmt.Sprintf("INV%s-%03d", now.Format("0601"), seq)
}

// JobNumber formats a job number, e.g. JB0505.
func JobNumber(seq int) string {
	return fmt.Sprintf("JB%04d", seq)
}

// NewQuote assembles a draft quote for the job under the given number.
func NewQuote(job model.Job, number string) model.Quote {
	lines := LinesFor(job)
	subtotal, tax, total := Totals(lines)
	return model.Quote{
		ID:        uuid.NewString(),
		Number:    number,
		JobID:     job.ID,
		LineItems: lines,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
		Status:    model.DocDraft,
	}
}

// NewInvoice assembles a draft invoice for the job under the given number.
func NewInvoice(job model.Job, number string) model.Invoice {
	lines := LinesFor(job)
	subtotal, tax, total := Totals(lines)
	return model.Invoice{
		ID:        uuid.NewString(),
		Number:    number,
		JobID:     job.ID,
		LineItems: lines,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
		Status:    model.DocDraft,
	}
}

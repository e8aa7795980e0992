package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridgeseal/sealtrack/internal/model"
)

func TestLinesFor(t *testing.T) {
	job := model.Job{ID: "j1", ProfileCode: "RP423", Qty: 3}
	lines := LinesFor(job)
	require.Len(t, lines, 2)
	assert.Equal(t, "RP423 supply", lines[0].Description)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 60.0, lines[0].UnitPriceEx)
	assert.Equal(t, "Labour", lines[1].Description)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, 95.0, lines[1].UnitPriceEx)
}

func TestLinesForDefaults(t *testing.T) {
	lines := LinesFor(model.Job{ID: "j1"})
	assert.Equal(t, "Seal supply", lines[0].Description)
	assert.Equal(t, 1, lines[0].Quantity, "qty floors at 1")
}

func TestTotals(t *testing.T) {
	// supply 60 x 3 + labour 95 x 1 = 275 ex, 10% GST.
	job := model.Job{ID: "j1", ProfileCode: "RP423", Qty: 3}
	subtotal, tax, total := Totals(LinesFor(job))
	assert.InDelta(t, 275.0, subtotal, 1e-9)
	assert.InDelta(t, 27.5, tax, 1e-9)
	assert.InDelta(t, 302.5, total, 1e-9)
}

func TestNumberFormats(t *testing.T) {
	may := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Q2405-001", QuoteNumber(1, may))
	assert.Equal(t, "Q2405-042", QuoteNumber(42, may))
	assert.Equal(t, "INV2405-007", InvoiceNumber(7, may))
	assert.Equal(t, "JB0505", JobNumber(505))
}

func TestNewQuoteStartsDraft(t *testing.T) {
	q := NewQuote(model.Job{ID: "j1", Qty: 2}, "Q2405-001")
	assert.Equal(t, model.DocDraft, q.Status)
	assert.Equal(t, "j1", q.JobID)
	assert.InDelta(t, q.Subtotal+q.Tax, q.Total, 1e-9)
}

func TestNewInvoiceStartsDraft(t *testing.T) {
	inv := NewInvoice(model.Job{ID: "j1"}, "INV2405-001")
	assert.Equal(t, model.DocDraft, inv.Status)
	assert.InDelta(t, 155.0, inv.Subtotal, 1e-9)
}

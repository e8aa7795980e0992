// Package render produces printable artifacts: a production label for a job
// and summaries for quotes and invoices. Money is rounded here and only
// here; stored totals stay full precision.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/fridgeseal/sealtrack/internal/model"
)

var labelTmpl = template.Must(template.New("label").Parse(`<!doctype html>
<html><body class="label">
<h1>FridgeSeal Label</h1>
<p>Job: {{.JobNo}}</p>
<p>Profile: {{.Profile}} &nbsp; Colour: {{.Colour}} &nbsp; Qty: {{.Qty}}</p>
<p>A: {{.WidthMm}} &nbsp; C: {{.HeightMm}}</p>
</body></html>
`))

var docTmpl = template.Must(template.New("doc").Parse(`<!doctype html>
<html><body class="document">
<h1>{{.Kind}} {{.Number}}</h1>
<p>Job: {{.JobNo}}</p>
<table>
{{range .Lines}}<tr><td>{{.Description}} x{{.Quantity}}</td><td>{{.UnitPrice}} ex</td></tr>
{{end}}</table>
<p>Subtotal: {{.Subtotal}}</p>
<p>Tax: {{.Tax}}</p>
<p>Total: {{.Total}}</p>
</body></html>
`))

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func orDash(v int) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", v)
}

func orTBD(s string) string {
	if s == "" {
		return "TBD"
	}
	return s
}

// Label renders the job label that travels with the cut seal.
func Label(job model.Job) (string, error) {
	qty := job.Qty
	if qty < 1 {
		qty = 1
	}
	data := struct {
		JobNo, Profile, Colour, WidthMm, HeightMm string
		Qty                                       int
	}{
		JobNo:    job.JobNo,
		Profile:  orTBD(job.ProfileCode),
		Colour:   orTBD(string(job.SealColour)),
		Qty:      qty,
		WidthMm:  "-",
		HeightMm: "-",
	}
	if job.Measurements != nil {
		data.WidthMm = orDash(job.Measurements.WidthMm)
		data.HeightMm = orDash(job.Measurements.HeightMm)
	}
	var buf bytes.Buffer
	if err := labelTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type docLine struct {
	Description string
	Quantity    int
	UnitPrice   string
}

type docData struct {
	Kind, Number, JobNo, Subtotal, Tax, Total string
	Lines                                     []docLine
}

func renderDoc(d docData) (string, error) {
	var buf bytes.Buffer
	if err := docTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func docLines(items []model.LineItem) []docLine {
	lines := make([]docLine, 0, len(items))
	for _, li := range items {
		lines = append(lines, docLine{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   money(li.UnitPriceEx),
		})
	}
	return lines
}

// QuoteDoc renders a quote summary.
func QuoteDoc(quote model.Quote, jobNo string) (string, error) {
	return renderDoc(docData{
		Kind:     "Quote",
		Number:   quote.Number,
		JobNo:    jobNo,
		Lines:    docLines(quote.LineItems),
		Subtotal: money(quote.Subtotal),
		Tax:      money(quote.Tax),
		Total:    money(quote.Total),
	})
}

// InvoiceDoc renders an invoice summary.
func InvoiceDoc(invoice model.Invoice, jobNo string) (string, error) {
	return renderDoc(docData{
		Kind:     "Invoice",
		Number:   invoice.Number,
		JobNo:    jobNo,
		Lines:    docLines(invoice.LineItems),
		Subtotal: money(invoice.Subtotal),
		Tax:      money(invoice.Tax),
		Total:    money(invoice.Total),
	})
}

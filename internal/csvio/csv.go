// Package csvio serializes flat records for export and parses them back.
// Every field is quoted on the way out, matching the exports the original
// client produced; the parser accepts embedded commas and "" escapes.
package csvio

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/fridgeseal/sealtrack/internal/model"
)

// Encode writes header + rows with every field quoted.
func Encode(headers []string, rows [][]string) string {
	var b strings.Builder
	writeLine(&b, headers)
	for _, row := range rows {
		b.WriteByte('\n')
		writeLine(&b, row)
	}
	return b.String()
}

func writeLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}

// Decode parses header + rows into maps keyed by header name.
func Decode(raw string) ([]map[string]string, error) {
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	headers := records[0]
	out := make([]map[string]string, 0, len(records)-1)
	for _, row := range records[1:] {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

var jobHeaders = []string{
	"jobNo", "status", "priority", "customer", "suburb", "assignee",
	"profile", "colour", "qty", "createdAt", "scheduledAt",
}

// JobsCSV flattens the job board into an export, resolving customer, site
// and assignee references against the snapshot.
func JobsCSV(e *model.Entities) string {
	rows := make([][]string, 0, len(e.Jobs))
	for _, job := range e.Jobs {
		customer := ""
		if c, ok := e.Customer(job.CustomerID); ok {
			customer = c.Name
		}
		suburb := ""
		if s, ok := e.Site(job.SiteID); ok {
			suburb = s.Address.Suburb
		}
		assignee := ""
		if u, ok := e.User(job.AssigneeID); ok {
			assignee = u.Name
		}
		scheduled := ""
		if job.ScheduledAt != nil {
			scheduled = job.ScheduledAt.Format("2006-01-02")
		}
		rows = append(rows, []string{
			job.JobNo,
			string(job.Status),
			string(job.Priority),
			customer,
			suburb,
			assignee,
			job.ProfileCode,
			string(job.SealColour),
			fmt.Sprintf("%d", job.Qty),
			job.CreatedAt.Format("2006-01-02"),
			scheduled,
		})
	}
	return Encode(jobHeaders, rows)
}

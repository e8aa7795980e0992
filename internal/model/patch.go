package model

import "time"

// JobDraft carries the caller-supplied fields for a new job. CustomerID and
// SiteID are required; everything else has a default.
type JobDraft struct {
	CustomerID   string       `json:"customerId"`
	SiteID       string       `json:"siteId"`
	Status       JobStatus    `json:"status,omitempty"`
	Priority     Priority     `json:"priority,omitempty"`
	ScheduledAt  *time.Time   `json:"scheduledAt,omitempty"`
	AssigneeID   string       `json:"assigneeId,omitempty"`
	Measurements *Measurement `json:"measurements,omitempty"`
	SealColour   SealColour   `json:"sealColour,omitempty"`
	ProfileCode  string       `json:"profileCode,omitempty"`
	Qty          int          `json:"qty,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

// JobPatch is a shallow partial update: nil means leave the field alone,
// non-nil replaces it wholesale.
type JobPatch struct {
	Status       *JobStatus      `json:"status,omitempty"`
	Priority     *Priority       `json:"priority,omitempty"`
	ScheduledAt  *time.Time      `json:"scheduledAt,omitempty"`
	AssigneeID   *string         `json:"assigneeId,omitempty"`
	Measurements *Measurement    `json:"measurements,omitempty"`
	SealColour   *SealColour     `json:"sealColour,omitempty"`
	ProfileCode  *string         `json:"profileCode,omitempty"`
	Qty          *int            `json:"qty,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	Parts        *[]JobPartLine  `json:"parts,omitempty"`
	Checklists   *[]JobChecklist `json:"checklists,omitempty"`
}

// Apply merges the patch into the job.
func (p JobPatch) Apply(j *Job) {
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.Priority != nil {
		j.Priority = *p.Priority
	}
	if p.ScheduledAt != nil {
		j.ScheduledAt = p.ScheduledAt
	}
	if p.AssigneeID != nil {
		j.AssigneeID = *p.AssigneeID
	}
	if p.Measurements != nil {
		j.Measurements = p.Measurements
	}
	if p.SealColour != nil {
		j.SealColour = *p.SealColour
	}
	if p.ProfileCode != nil {
		j.ProfileCode = *p.ProfileCode
	}
	if p.Qty != nil {
		j.Qty = *p.Qty
	}
	if p.Notes != nil {
		j.Notes = *p.Notes
	}
	if p.Parts != nil {
		j.Parts = *p.Parts
	}
	if p.Checklists != nil {
		j.Checklists = *p.Checklists
	}
}

// Meta flattens the patched fields into activity metadata.
func (p JobPatch) Meta() map[string]any {
	meta := map[string]any{}
	if p.Status != nil {
		meta["status"] = *p.Status
	}
	if p.Priority != nil {
		meta["priority"] = *p.Priority
	}
	if p.ScheduledAt != nil {
		meta["scheduledAt"] = *p.ScheduledAt
	}
	if p.AssigneeID != nil {
		meta["assigneeId"] = *p.AssigneeID
	}
	if p.Measurements != nil {
		meta["measurements"] = *p.Measurements
	}
	if p.SealColour != nil {
		meta["sealColour"] = *p.SealColour
	}
	if p.ProfileCode != nil {
		meta["profileCode"] = *p.ProfileCode
	}
	if p.Qty != nil {
		meta["qty"] = *p.Qty
	}
	if p.Notes != nil {
		meta["notes"] = *p.Notes
	}
	if p.Parts != nil {
		meta["parts"] = len(*p.Parts)
	}
	if p.Checklists != nil {
		meta["checklists"] = len(*p.Checklists)
	}
	return meta
}

// PartPatch updates mutable part fields (stock moves, price changes).
type PartPatch struct {
	PriceEx  *float64 `json:"priceEx,omitempty"`
	TaxRate  *float64 `json:"taxRate,omitempty"`
	StockQty *int     `json:"stockQty,omitempty"`
}

func (p PartPatch) Apply(part *Part) {
	if p.PriceEx != nil {
		part.PriceEx = *p.PriceEx
	}
	if p.TaxRate != nil {
		part.TaxRate = *p.TaxRate
	}
	if p.StockQty != nil {
		part.StockQty = *p.StockQty
	}
}

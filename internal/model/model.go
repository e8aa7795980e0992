package model

import "time"

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

type SealColour string

const (
	SealBlack SealColour = "black"
	SealGrey  SealColour = "grey"
)

type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleScheduler Role = "Scheduler"
	RoleTech      Role = "Tech"
)

// JobStatus is the lifecycle state of a Job. The legal transitions between
// statuses live in internal/lifecycle.
type JobStatus string

const (
	StatusNew             JobStatus = "New"
	StatusNeedToMeasure   JobStatus = "Need to Measure"
	StatusMeasured        JobStatus = "Measured"
	StatusQuoted          JobStatus = "Quoted"
	StatusWaitingApproval JobStatus = "Waiting Approval"
	StatusApproved        JobStatus = "Approved"
	StatusInProduction    JobStatus = "In Production"
	StatusReadyForInstall JobStatus = "Ready for Install"
	StatusScheduled       JobStatus = "Scheduled"
	StatusInProgress      JobStatus = "In Progress"
	StatusCompleted       JobStatus = "Completed"
	StatusInvoiced        JobStatus = "Invoiced"
	StatusPaid            JobStatus = "Paid"
	StatusOnHold          JobStatus = "On Hold"
	StatusCancelled       JobStatus = "Cancelled"
)

type Address struct {
	Street   string `json:"street"`
	Suburb   string `json:"suburb"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Type     string `json:"type,omitempty"` // billing, site or postal
}

type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contactName,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Addresses   []Address `json:"addresses"`
}

type Site struct {
	ID            string  `json:"id"`
	CustomerID    string  `json:"customerId"`
	Address       Address `json:"address"`
	AccessNotes   string  `json:"accessNotes,omitempty"`
	OnsiteContact string  `json:"onsiteContact,omitempty"`
	ParkingNotes  string  `json:"parkingNotes,omitempty"`
}

// Photo references an uploaded image in the blob store. Key is a relative
// blob key; the bytes themselves never enter the snapshot.
type Photo struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Caption string `json:"caption,omitempty"`
}

type ChecklistItem struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Checked       bool   `json:"checked"`
	RequiresPhoto bool   `json:"requiresPhoto,omitempty"`
}

type JobChecklist struct {
	ID    string          `json:"id"`
	Type  string          `json:"type"` // Measure or Install
	Items []ChecklistItem `json:"items"`
}

type Part struct {
	ID          string     `json:"id"`
	SKU         string     `json:"sku"`
	Name        string     `json:"name"`
	ProfileCode string     `json:"profileCode"`
	Colour      SealColour `json:"colour"`
	LengthMm    int        `json:"lengthMm"`
	PriceEx     float64    `json:"priceEx"`
	TaxRate     float64    `json:"taxRate"`
	StockQty    int        `json:"stockQty"`
}

type JobPartLine struct {
	ID              string   `json:"id"`
	PartID          string   `json:"partId"`
	Quantity        int      `json:"quantity"`
	OverridePriceEx *float64 `json:"overridePriceEx,omitempty"`
}

type Measurement struct {
	WidthMm    int    `json:"aMm,omitempty"`
	HeightMm   int    `json:"cMm,omitempty"`
	HingeSide  string `json:"hingeSide,omitempty"`  // Left, Right, Top, Bottom
	GasketType string `json:"gasketType,omitempty"` // push-in or screw-in
}

type Job struct {
	ID           string         `json:"id"`
	JobNo        string         `json:"jobNo"`
	CustomerID   string         `json:"customerId"`
	SiteID       string         `json:"siteId"`
	Status       JobStatus      `json:"status"`
	Priority     Priority       `json:"priority"`
	CreatedAt    time.Time      `json:"createdAt"`
	ScheduledAt  *time.Time     `json:"scheduledAt,omitempty"`
	AssigneeID   string         `json:"assigneeId,omitempty"`
	Measurements *Measurement   `json:"measurements,omitempty"`
	SealColour   SealColour     `json:"sealColour,omitempty"`
	ProfileCode  string         `json:"profileCode,omitempty"`
	Qty          int            `json:"qty"`
	Photos       []Photo        `json:"photos"`
	Notes        string         `json:"notes,omitempty"`
	Parts        []JobPartLine  `json:"parts"`
	Checklists   []JobChecklist `json:"checklists"`
	QuoteID      string         `json:"quoteId,omitempty"`
	InvoiceID    string         `json:"invoiceId,omitempty"`
}

type User struct {
	ID        string `json:"id"`
	ShortCode string `json:"shortCode"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Mobile    string `json:"mobile,omitempty"`
	Email     string `json:"email,omitempty"`
}

type DocumentStatus string

const (
	DocDraft    DocumentStatus = "Draft"
	DocSent     DocumentStatus = "Sent"
	DocAccepted DocumentStatus = "Accepted"
	DocDeclined DocumentStatus = "Declined"
	DocPaid     DocumentStatus = "Paid"
)

type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPriceEx float64 `json:"unitPriceEx"`
	TaxRate     float64 `json:"taxRate"`
}

// Quote totals are computed once at creation and stored unrounded. Later
// edits to the job's parts do not flow back into an existing quote.
type Quote struct {
	ID        string         `json:"id"`
	Number    string         `json:"number"`
	JobID     string         `json:"jobId"`
	LineItems []LineItem     `json:"lineItems"`
	Subtotal  float64        `json:"subtotal"`
	Tax       float64        `json:"tax"`
	Total     float64        `json:"total"`
	Status    DocumentStatus `json:"status"`
}

type Invoice struct {
	ID        string         `json:"id"`
	Number    string         `json:"number"`
	JobID     string         `json:"jobId"`
	LineItems []LineItem     `json:"lineItems"`
	Subtotal  float64        `json:"subtotal"`
	Tax       float64        `json:"tax"`
	Total     float64        `json:"total"`
	Status    DocumentStatus `json:"status"`
}

// Activity is an append-only audit entry. It is never mutated or deleted,
// and it may outlive the job it refers to.
type Activity struct {
	ID        string         `json:"id"`
	JobID     string         `json:"jobId"`
	Timestamp time.Time      `json:"timestamp"`
	ActorID   string         `json:"actorId,omitempty"`
	Action    string         `json:"action"`
	Meta      map[string]any `json:"meta,omitempty"`
}

type Timesheet struct {
	ID       string     `json:"id"`
	UserID   string     `json:"userId"`
	JobID    string     `json:"jobId,omitempty"`
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end,omitempty"`
	TravelKm float64    `json:"travelKm,omitempty"`
}

// Counters back the monotonic job/quote/invoice numbering. They only ever
// increase; deleting a document does not free its number.
type Counters struct {
	Job     int `json:"job"`
	Quote   int `json:"quote"`
	Invoice int `json:"invoice"`
}

// Entities is the whole persisted snapshot. Collection order is display
// order; lookups are by id.
type Entities struct {
	Customers  []Customer  `json:"customers"`
	Sites      []Site      `json:"sites"`
	Users      []User      `json:"users"`
	Parts      []Part      `json:"parts"`
	Jobs       []Job       `json:"jobs"`
	Quotes     []Quote     `json:"quotes"`
	Invoices   []Invoice   `json:"invoices"`
	Activities []Activity  `json:"activities"`
	Timesheets []Timesheet `json:"timesheets"`
	Counters   Counters    `json:"counters"`
}

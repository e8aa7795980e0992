// Package seed populates a first-run demo dataset: a small crew, a spread of
// Melbourne hospitality customers, the stocked seal profiles and a board of
// jobs covering every lifecycle stage.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fridgeseal/sealtrack/internal/lifecycle"
	"github.com/fridgeseal/sealtrack/internal/model"
)

// firstJobNo is the job number of the first seeded job. The counter is
// seeded to the last demo number, so live jobs follow straight on from
// the demo board.
const firstJobNo = 460

type Persistence interface {
	Load(ctx context.Context) (*model.Entities, error)
	Save(ctx context.Context, entities *model.Entities) error
}

// Ensure loads the snapshot, seeding and persisting a demo dataset first if
// none exists. It never overwrites an existing store.
func Ensure(ctx context.Context, db Persistence) (*model.Entities, error) {
	existing, err := db.Load(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	entities := Entities(time.Now())
	if err := db.Save(ctx, entities); err != nil {
		return nil, err
	}
	return entities, nil
}

var suburbs = []string{
	"Fitzroy", "Richmond", "Southbank", "Moonee Ponds", "St Kilda", "Carlton",
	"Brunswick", "Footscray", "Prahran", "Docklands", "South Yarra", "Collingwood",
	"Abbotsford", "Kew", "Hawthorn", "Williamstown", "Coburg", "Essendon",
	"Ascot Vale", "Port Melbourne",
}

var streets = []string{
	"Exhibition", "Swanston", "Napier", "Lygon", "Ramsden",
	"Albert Park", "Collins", "Elizabeth", "Barkly", "Chapel",
}

var customerNames = []string{
	"Provincial Hotel", "Morris House", "Bekka", "The Posty", "Beer Deluxe Fed Square",
	"Station Hotel", "Lakeside Pavilion", "Yarra Botanica", "The Prahran Hotel",
	"Southbank Deli", "Moonee Market", "Green Grocer Fitzroy", "Coburg Supermart",
	"Richmond Cafe", "Albert Park Cafe", "Carlton Bistro", "Footscray Fresh",
	"Docklands Convenience", "St Kilda Ice Bar", "Hawthorn Social", "Kew Sushi",
	"Abbotsford Bakery", "Williamstown Pier Cafe", "Essendon Super",
}

func siteAddress(suburb string, streetNo int) model.Address {
	return model.Address{
		Street:   fmt.Sprintf("%d %s St", streetNo, streets[streetNo%len(streets)]),
		Suburb:   suburb,
		State:    "VIC",
		Postcode: "3000",
		Type:     "site",
	}
}

func checklists(measured bool) []model.JobChecklist {
	return []model.JobChecklist{
		{ID: uuid.NewString(), Type: "Measure", Items: []model.ChecklistItem{
			{ID: uuid.NewString(), Label: "Measured A width", Checked: measured},
			{ID: uuid.NewString(), Label: "Measured C height", Checked: measured},
			{ID: uuid.NewString(), Label: "Photos taken", RequiresPhoto: true},
		}},
		{ID: uuid.NewString(), Type: "Install", Items: []model.ChecklistItem{
			{ID: uuid.NewString(), Label: "Seal installed"},
			{ID: uuid.NewString(), Label: "Door closes properly"},
			{ID: uuid.NewString(), Label: "Site signed off"},
		}},
	}
}

// Entities builds the demo dataset: 3 users, 24 customers each with one
// site, 4 parts, 45 jobs cycling the ordered statuses, and a creation
// activity per job.
func Entities(now time.Time) *model.Entities {
	users := []model.User{
		{ID: uuid.NewString(), ShortCode: "FS", Name: "Brett S", Role: model.RoleAdmin, Mobile: "0400 000 111", Email: "brett@example.com"},
		{ID: uuid.NewString(), ShortCode: "MK", Name: "Mark T", Role: model.RoleTech, Mobile: "0400 222 333", Email: "mark@example.com"},
		{ID: uuid.NewString(), ShortCode: "JS", Name: "Jess P", Role: model.RoleScheduler, Mobile: "0400 444 555", Email: "jess@example.com"},
	}

	customers := make([]model.Customer, len(customerNames))
	sites := make([]model.Site, len(customerNames))
	for i, name := range customerNames {
		addr := siteAddress(suburbs[i%len(suburbs)], 20+i)
		notes := ""
		if i%3 == 0 {
			notes = "After-hours access required"
		}
		customers[i] = model.Customer{
			ID:          uuid.NewString(),
			Name:        name,
			ContactName: "Manager",
			Phone:       fmt.Sprintf("03 9%05d", 30000+i),
			Notes:       notes,
			Addresses:   []model.Address{addr},
		}
		accessNotes := ""
		if i%4 == 0 {
			accessNotes = "Back alley roller door, ask for key"
		}
		sites[i] = model.Site{
			ID:            uuid.NewString(),
			CustomerID:    customers[i].ID,
			Address:       addr,
			AccessNotes:   accessNotes,
			OnsiteContact: "Duty Manager",
			ParkingNotes:  "Street parking",
		}
	}

	parts := []model.Part{
		{ID: uuid.NewString(), SKU: "RP423-BLK", Name: "Raven RP423", ProfileCode: "RP423", Colour: model.SealBlack, LengthMm: 2100, PriceEx: 45, TaxRate: 0.1, StockQty: 30},
		{ID: uuid.NewString(), SKU: "RP423-GRY", Name: "Raven RP423", ProfileCode: "RP423", Colour: model.SealGrey, LengthMm: 2100, PriceEx: 45, TaxRate: 0.1, StockQty: 22},
		{ID: uuid.NewString(), SKU: "RP215-BLK", Name: "Raven RP215", ProfileCode: "RP215", Colour: model.SealBlack, LengthMm: 2000, PriceEx: 39, TaxRate: 0.1, StockQty: 40},
		{ID: uuid.NewString(), SKU: "RP215-GRY", Name: "Raven RP215", ProfileCode: "RP215", Colour: model.SealGrey, LengthMm: 2000, PriceEx: 39, TaxRate: 0.1, StockQty: 18},
	}

	statusPool := lifecycle.Ordered()
	priorities := []model.Priority{model.PriorityLow, model.PriorityNormal, model.PriorityHigh, model.PriorityUrgent}
	colours := []model.SealColour{model.SealBlack, model.SealGrey}
	notes := []string{"Customer prefers morning.", "Beware dog on site."}

	jobs := make([]model.Job, 45)
	activities := make([]model.Activity, 45)
	for i := range jobs {
		cust := customers[i%len(customers)]
		site := sites[i%len(sites)]
		createdAt := now.AddDate(0, 0, -(60 - i))

		var scheduledAt *time.Time
		if i%3 == 0 {
			t := createdAt.AddDate(0, 0, i%14)
			scheduledAt = &t
		}
		var measurements *model.Measurement
		measured := i%5 == 0
		if measured {
			measurements = &model.Measurement{
				WidthMm:    720 + (i%3)*5,
				HeightMm:   1520 + (i%5)*5,
				HingeSide:  "Left",
				GasketType: "push-in",
			}
		}
		profile := ""
		if measured {
			if i%2 == 0 {
				profile = "RP423"
			} else {
				profile = "RP215"
			}
		}

		jobs[i] = model.Job{
			ID:           uuid.NewString(),
			JobNo:        fmt.Sprintf("JB%04d", firstJobNo+i),
			CustomerID:   cust.ID,
			SiteID:       site.ID,
			Status:       statusPool[i%len(statusPool)],
			Priority:     priorities[i%len(priorities)],
			CreatedAt:    createdAt,
			ScheduledAt:  scheduledAt,
			AssigneeID:   users[i%len(users)].ID,
			Measurements: measurements,
			SealColour:   colours[i%len(colours)],
			ProfileCode:  profile,
			Qty:          (i % 3) + 1,
			Photos:       []model.Photo{},
			Notes:        notes[i%len(notes)],
			Parts:        []model.JobPartLine{},
			Checklists:   checklists(measured),
		}
		activities[i] = model.Activity{
			ID:        uuid.NewString(),
			JobID:     jobs[i].ID,
			Timestamp: createdAt,
			ActorID:   users[0].ID,
			Action:    "Job created",
		}
	}

	return &model.Entities{
		Customers:  customers,
		Sites:      sites,
		Users:      users,
		Parts:      parts,
		Jobs:       jobs,
		Quotes:     []model.Quote{},
		Invoices:   []model.Invoice{},
		Activities: activities,
		Timesheets: []model.Timesheet{},
		Counters:   model.Counters{Job: firstJobNo + len(jobs) - 1},
	}
}

// Package store owns the in-memory entity snapshot and funnels every
// mutation through it. Each operation clones the snapshot, applies its full
// mutation set including the activity append, persists the clone, and only
// then swaps it in, so a failed operation leaves the prior snapshot intact.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgeseal/sealtrack/internal/billing"
	"github.com/fridgeseal/sealtrack/internal/lifecycle"
	"github.com/fridgeseal/sealtrack/internal/metrics"
	"github.com/fridgeseal/sealtrack/internal/model"
)

// Persistence is the durability collaborator: whole-snapshot load and save,
// no partial writes.
type Persistence interface {
	Load(ctx context.Context) (*model.Entities, error)
	Save(ctx context.Context, entities *model.Entities) error
}

type Store struct {
	mu            sync.Mutex
	db            Persistence
	log           *zap.Logger
	entities      *model.Entities
	currentUserID string
	now           func() time.Time
}

// New wraps an already-loaded snapshot. The acting user defaults to the
// first seeded user, matching the original client.
func New(db Persistence, entities *model.Entities, log *zap.Logger) *Store {
	s := &Store{db: db, log: log, entities: entities, now: time.Now}
	if len(entities.Users) > 0 {
		s.currentUserID = entities.Users[0].ID
	}
	return s
}

func (s *Store) SetCurrentUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUserID = id
}

// Snapshot returns a deep copy of the current entities; callers may not
// mutate the store through it.
func (s *Store) Snapshot() (*model.Entities, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entities.Clone()
}

func (s *Store) Job(id string) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.entities.Job(id)
	if !ok {
		return model.Job{}, fmt.Errorf("job %s: %w", id, model.ErrNotFound)
	}
	return *job, nil
}

func (s *Store) Quote(id string) (model.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.entities.Quote(id)
	if !ok {
		return model.Quote{}, fmt.Errorf("quote %s: %w", id, model.ErrNotFound)
	}
	return *q, nil
}

func (s *Store) Invoice(id string) (model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.entities.Invoice(id)
	if !ok {
		return model.Invoice{}, fmt.Errorf("invoice %s: %w", id, model.ErrNotFound)
	}
	return *inv, nil
}

func (s *Store) ActivitiesFor(jobID string) []model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entities.ActivitiesFor(jobID)
}

// mutate is the critical section shared by every write: clone, apply, save,
// swap. The clone is discarded on any error.
func (s *Store) mutate(ctx context.Context, fn func(next *model.Entities) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.entities.Clone()
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	if err := s.db.Save(ctx, next); err != nil {
		metrics.SnapshotSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("save snapshot: %w", err)
	}
	metrics.SnapshotSaves.WithLabelValues("ok").Inc()
	s.entities = next
	return nil
}

func (s *Store) logActivity(next *model.Entities, jobID, action string, meta map[string]any) {
	next.Activities = append(next.Activities, model.Activity{
		ID:        uuid.NewString(),
		JobID:     jobID,
		Timestamp: s.now(),
		ActorID:   s.currentUserID,
		Action:    action,
		Meta:      meta,
	})
	metrics.ActivitiesTotal.Inc()
}

func defaultChecklists() []model.JobChecklist {
	return []model.JobChecklist{
		{ID: uuid.NewString(), Type: "Measure", Items: []model.ChecklistItem{
			{ID: uuid.NewString(), Label: "Measured A width"},
			{ID: uuid.NewString(), Label: "Measured C height"},
			{ID: uuid.NewString(), Label: "Photos taken", RequiresPhoto: true},
		}},
		{ID: uuid.NewString(), Type: "Install", Items: []model.ChecklistItem{
			{ID: uuid.NewString(), Label: "Seal installed"},
			{ID: uuid.NewString(), Label: "Door closes properly"},
			{ID: uuid.NewString(), Label: "Site signed off"},
		}},
	}
}

// AddJob creates a job from the draft with status New unless overridden,
// default checklists and a sequential job number, and logs "Job created".
func (s *Store) AddJob(ctx context.Context, draft model.JobDraft) (job model.Job, err error) {
	defer func() { metrics.ObserveOp("addJob", err) }()

	if draft.CustomerID == "" {
		return model.Job{}, model.Validation("customerId", "is required")
	}
	if draft.SiteID == "" {
		return model.Job{}, model.Validation("siteId", "is required")
	}
	if draft.Status != "" && !lifecycle.Valid(draft.Status) {
		return model.Job{}, model.Validation("status", fmt.Sprintf("unknown status %q", draft.Status))
	}

	err = s.mutate(ctx, func(next *model.Entities) error {
		if _, ok := next.Customer(draft.CustomerID); !ok {
			return model.Validation("customerId", fmt.Sprintf("unknown customer %s", draft.CustomerID))
		}
		site, ok := next.Site(draft.SiteID)
		if !ok {
			return model.Validation("siteId", fmt.Sprintf("unknown site %s", draft.SiteID))
		}
		if site.CustomerID != draft.CustomerID {
			return model.Validation("siteId", "does not belong to customer")
		}

		status := draft.Status
		if status == "" {
			status = model.StatusNew
		}
		priority := draft.Priority
		if priority == "" {
			priority = model.PriorityNormal
		}
		qty := draft.Qty
		if qty <= 0 {
			qty = 1
		}

		next.Counters.Job++
		job = model.Job{
			ID:           uuid.NewString(),
			JobNo:        billing.JobNumber(next.Counters.Job),
			CustomerID:   draft.CustomerID,
			SiteID:       draft.SiteID,
			Status:       status,
			Priority:     priority,
			CreatedAt:    s.now(),
			ScheduledAt:  draft.ScheduledAt,
			AssigneeID:   draft.AssigneeID,
			Measurements: draft.Measurements,
			SealColour:   draft.SealColour,
			ProfileCode:  draft.ProfileCode,
			Qty:          qty,
			Photos:       []model.Photo{},
			Notes:        draft.Notes,
			Parts:        []model.JobPartLine{},
			Checklists:   defaultChecklists(),
		}
		next.Jobs = append(next.Jobs, job)
		s.logActivity(next, job.ID, "Job created", nil)
		return nil
	})
	if err != nil {
		return model.Job{}, err
	}
	s.log.Info("job created", zap.String("jobId", job.ID), zap.String("jobNo", job.JobNo))
	return job, nil
}

// UpdateJob shallow-merges the patch into the job and logs "Job updated"
// with the patch as metadata.
func (s *Store) UpdateJob(ctx context.Context, id string, patch model.JobPatch) (job model.Job, err error) {
	defer func() { metrics.ObserveOp("updateJob", err) }()

	if patch.Status != nil && !lifecycle.Valid(*patch.Status) {
		return model.Job{}, model.Validation("status", fmt.Sprintf("unknown status %q", *patch.Status))
	}
	if patch.Qty != nil && *patch.Qty < 1 {
		return model.Job{}, model.Validation("qty", "must be at least 1")
	}

	err = s.mutate(ctx, func(next *model.Entities) error {
		i := next.JobIndex(id)
		if i < 0 {
			return fmt.Errorf("job %s: %w", id, model.ErrNotFound)
		}
		patch.Apply(&next.Jobs[i])
		job = next.Jobs[i]
		s.logActivity(next, id, "Job updated", map[string]any{"patch": patch.Meta()})
		return nil
	})
	if err != nil {
		return model.Job{}, err
	}
	return job, nil
}

// DeleteJob removes the job but keeps its activity trail, ending it with a
// "Job deleted" record that references the now-absent job.
func (s *Store) DeleteJob(ctx context.Context, id string) (err error) {
	defer func() { metrics.ObserveOp("deleteJob", err) }()

	return s.mutate(ctx, func(next *model.Entities) error {
		i := next.JobIndex(id)
		if i < 0 {
			return fmt.Errorf("job %s: %w", id, model.ErrNotFound)
		}
		next.Jobs = append(next.Jobs[:i], next.Jobs[i+1:]...)
		s.logActivity(next, id, "Job deleted", nil)
		return nil
	})
}

// ChangeStatus applies a lifecycle-gated status move and logs it. Rejected
// transitions mutate nothing and leave no activity.
func (s *Store) ChangeStatus(ctx context.Context, id string, to model.JobStatus) (job model.Job, err error) {
	defer func() { metrics.ObserveOp("changeStatus", err) }()

	err = s.mutate(ctx, func(next *model.Entities) error {
		i := next.JobIndex(id)
		if i < 0 {
			return fmt.Errorf("job %s: %w", id, model.ErrNotFound)
		}
		from := next.Jobs[i].Status
		if !lifecycle.CanTransition(from, to) {
			return model.InvalidTransition(from, to)
		}
		next.Jobs[i].Status = to
		job = next.Jobs[i]
		s.logActivity(next, id, fmt.Sprintf("Status: %s -> %s", from, to), nil)
		return nil
	})
	if err != nil {
		return model.Job{}, err
	}
	s.log.Info("status changed", zap.String("jobId", id), zap.String("to", string(to)))
	return job, nil
}

// AddQuoteForJob generates a draft quote from the job's current parts data,
// points the job's quoteId at it and logs the number. An earlier quote is
// superseded by the reference, not deleted.
func (s *Store) AddQuoteForJob(ctx context.Context, jobID string) (quote model.Quote, err error) {
	defer func() { metrics.ObserveOp("addQuoteForJob", err) }()

	err = s.mutate(ctx, func(next *model.Entities) error {
		i := next.JobIndex(jobID)
		if i < 0 {
			return fmt.Errorf("job %s: %w", jobID, model.ErrNotFound)
		}
		next.Counters.Quote++
		quote = billing.NewQuote(next.Jobs[i], billing.QuoteNumber(next.Counters.Quote, s.now()))
		next.Quotes = append(next.Quotes, quote)
		next.Jobs[i].QuoteID = quote.ID
		s.logActivity(next, jobID, "Quote created", map[string]any{"number": quote.Number})
		return nil
	})
	if err != nil {
		return model.Quote{}, err
	}
	s.log.Info("quote created", zap.String("jobId", jobID), zap.String("number", quote.Number))
	return quote, nil
}

// AddInvoiceForJob is the invoice counterpart of AddQuoteForJob.
func (s *Store) AddInvoiceForJob(ctx context.Context, jobID string) (invoice model.Invoice, err error) {
	defer func() { metrics.ObserveOp("addInvoiceForJob", err) }()

	err = s.mutate(ctx, func(next *model.Entities) error {
		i := next.JobIndex(jobID)
		if i < 0 {
			return fmt.Errorf("job %s: %w", jobID, model.ErrNotFound)
		}
		next.Counters.Invoice++
		invoice = billing.NewInvoice(next.Jobs[i], billing.InvoiceNumber(next.Counters.Invoice, s.now()))
		next.Invoices = append(next.Invoices, invoice)
		next.Jobs[i].InvoiceID = invoice.ID
		s.logActivity(next, jobID, "Invoice created", map[string]any{"number": invoice.Number})
		return nil
	})
	if err != nil {
		return model.Invoice{}, err
	}
	s.log.Info("invoice created", zap.String("jobId", jobID), zap.String("number", invoice.Number))
	return invoice, nil
}

// AddPhoto appends a blob-store reference to the job's photo sequence.
func (s *Store) AddPhoto(ctx context.Context, jobID, key, caption string) (photo model.Photo, err error) {
	defer func() { metrics.ObserveOp("addPhoto", err) }()

	err = s.mutate(ctx, func(next *model.Entities) error {
		i := next.JobIndex(jobID)
		if i < 0 {
			return fmt.Errorf("job %s: %w", jobID, model.ErrNotFound)
		}
		photo = model.Photo{ID: uuid.NewString(), Key: key, Caption: caption}
		next.Jobs[i].Photos = append(next.Jobs[i].Photos, photo)
		s.logActivity(next, jobID, "Photo added", map[string]any{"photoId": photo.ID})
		return nil
	})
	if err != nil {
		return model.Photo{}, err
	}
	return photo, nil
}

// ReorderPhotos rearranges the job's photos to the given id order. Every
// existing photo must appear exactly once.
func (s *Store) ReorderPhotos(ctx context.Context, jobID string, ids []string) (job model.Job, err error) {
	defer func() { metrics.ObserveOp("reorderPhotos", err) }()

	err = s.mutate(ctx, func(next *model.Entities) error {
		i := next.JobIndex(jobID)
		if i < 0 {
			return fmt.Errorf("job %s: %w", jobID, model.ErrNotFound)
		}
		current := next.Jobs[i].Photos
		if len(ids) != len(current) {
			return model.Validation("ids", "must list every photo exactly once")
		}
		byID := make(map[string]model.Photo, len(current))
		for _, p := range current {
			byID[p.ID] = p
		}
		reordered := make([]model.Photo, 0, len(ids))
		for _, id := range ids {
			p, ok := byID[id]
			if !ok {
				return model.Validation("ids", fmt.Sprintf("unknown photo %s", id))
			}
			delete(byID, id)
			reordered = append(reordered, p)
		}
		next.Jobs[i].Photos = reordered
		job = next.Jobs[i]
		s.logActivity(next, jobID, "Photos reordered", nil)
		return nil
	})
	if err != nil {
		return model.Job{}, err
	}
	return job, nil
}

// AddCustomer creates a customer together with its first site.
func (s *Store) AddCustomer(ctx context.Context, customer model.Customer, site model.Site) (model.Customer, error) {
	var err error
	defer func() { metrics.ObserveOp("addCustomer", err) }()

	if customer.Name == "" {
		err = model.Validation("name", "is required")
		return model.Customer{}, err
	}
	customer.ID = uuid.NewString()
	if customer.Addresses == nil {
		customer.Addresses = []model.Address{}
	}
	site.ID = uuid.NewString()
	site.CustomerID = customer.ID

	err = s.mutate(ctx, func(next *model.Entities) error {
		next.Customers = append(next.Customers, customer)
		next.Sites = append(next.Sites, site)
		return nil
	})
	if err != nil {
		return model.Customer{}, err
	}
	return customer, nil
}

// UpdatePart patches a part's mutable fields (price, tax rate, stock).
func (s *Store) UpdatePart(ctx context.Context, id string, patch model.PartPatch) (part model.Part, err error) {
	defer func() { metrics.ObserveOp("updatePart", err) }()

	err = s.mutate(ctx, func(next *model.Entities) error {
		p, ok := next.Part(id)
		if !ok {
			return fmt.Errorf("part %s: %w", id, model.ErrNotFound)
		}
		patch.Apply(p)
		part = *p
		return nil
	})
	if err != nil {
		return model.Part{}, err
	}
	return part, nil
}

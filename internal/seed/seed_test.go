package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridgeseal/sealtrack/internal/lifecycle"
	"github.com/fridgeseal/sealtrack/internal/model"
)

type memPersistence struct {
	saved *model.Entities
	saves int
}

func (m *memPersistence) Load(ctx context.Context) (*model.Entities, error) { return m.saved, nil }

func (m *memPersistence) Save(ctx context.Context, e *model.Entities) error {
	m.saved = e
	m.saves++
	return nil
}

func TestEntitiesShape(t *testing.T) {
	e := Entities(time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC))

	assert.Len(t, e.Users, 3)
	assert.Len(t, e.Customers, 24)
	assert.Len(t, e.Sites, 24)
	assert.Len(t, e.Parts, 4)
	assert.Len(t, e.Jobs, 45)
	assert.Len(t, e.Activities, 45)
	assert.Empty(t, e.Quotes)
	assert.Empty(t, e.Invoices)

	// One site per customer, owned by it.
	for i, site := range e.Sites {
		assert.Equal(t, e.Customers[i].ID, site.CustomerID)
	}

	// Jobs reference existing customers and their own site; statuses cycle
	// through the whole ordered progression.
	seen := map[model.JobStatus]bool{}
	for _, job := range e.Jobs {
		_, ok := e.Customer(job.CustomerID)
		require.True(t, ok)
		site, ok := e.Site(job.SiteID)
		require.True(t, ok)
		assert.Equal(t, job.CustomerID, site.CustomerID)
		seen[job.Status] = true
	}
	for _, s := range lifecycle.Ordered() {
		assert.True(t, seen[s], "status %s missing from seed board", s)
	}

	assert.Equal(t, "JB0460", e.Jobs[0].JobNo)
	assert.Equal(t, firstJobNo+44, e.Counters.Job)

	for _, a := range e.Activities {
		assert.Equal(t, "Job created", a.Action)
	}
}

func TestEnsureSeedsOnce(t *testing.T) {
	db := &memPersistence{}
	ctx := context.Background()

	first, err := Ensure(ctx, db)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 1, db.saves)

	again, err := Ensure(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, db.saves, "existing store must not be overwritten")
	assert.Equal(t, first.Jobs[0].ID, again.Jobs[0].ID)
}

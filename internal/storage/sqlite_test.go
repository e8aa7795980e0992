package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fridgeseal/sealtrack/internal/model"
)

func TestLoadEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	entities, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, entities, "fresh store has no snapshot")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	in := &model.Entities{
		Jobs: []model.Job{
			{ID: "j1", JobNo: "JB0001", CustomerID: "c1", SiteID: "s1", Status: model.StatusNew, Qty: 2},
		},
		Customers: []model.Customer{{ID: "c1", Name: "Provincial Hotel"}},
		Counters:  model.Counters{Job: 1},
	}
	require.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Equal(t, in.Jobs, out.Jobs)
	require.Equal(t, in.Customers, out.Customers)
	require.Equal(t, 1, out.Counters.Job)
}

func TestSaveOverwrites(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, &model.Entities{Counters: model.Counters{Quote: 1}}))
	require.NoError(t, s.Save(ctx, &model.Entities{Counters: model.Counters{Quote: 2}}))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, out.Counters.Quote)
}

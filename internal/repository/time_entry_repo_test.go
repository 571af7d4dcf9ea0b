package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factoryfloor/internal/domain"
	"factoryfloor/internal/testutil"
)

func TestTimeEntryRepository(t *testing.T) {
	s := testutil.NewStores(t)
	testutil.SeedTimeEntries(t, s.Cas,
		domain.TimeEntry{RefDocNo: "W1", WorkerName: "ana", EventDatetime: "2024-05-01T08:00:00", EventType: "Začni"},
		domain.TimeEntry{RefDocNo: "W1", WorkerName: "bor", EventDatetime: "2024-05-01T12:00:00", EventType: domain.EventFinalize},
		domain.TimeEntry{RefDocNo: "W1", WorkerName: "bor", EventDatetime: "2024-05-01T12:30:00", EventType: domain.EventFinalize},
		domain.TimeEntry{RefDocNo: "W2", WorkerName: "cene", EventDatetime: "2024-05-02T09:00:00", EventType: "Začni"},
		domain.TimeEntry{RefDocNo: "W3", WorkerName: "dora", EventDatetime: "2024-05-03T09:00:00", EventType: domain.EventFinalize},
	)
	repo := NewTimeEntryRepository(s.Cas)
	ctx := context.Background()

	refs, err := repo.FinalizedRefs(ctx, []string{"W1", "W2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"W1"}, refs)

	latest, err := repo.LatestPerRef(ctx, []string{"W1", "W2"})
	require.NoError(t, err)
	byRef := map[string]domain.LatestEntry{}
	for _, e := range latest {
		byRef[e.RefDocNo] = e
	}
	assert.Equal(t, "bor", byRef["W1"].WorkerName)
	assert.Equal(t, "2024-05-01T12:30:00", byRef["W1"].Timestamp)
	assert.Equal(t, "cene", byRef["W2"].WorkerName)
	assert.NotContains(t, byRef, "W3")
}

func TestTimeEntryRepository_NilStore(t *testing.T) {
	repo := NewTimeEntryRepository(nil)
	_, err := repo.FinalizedRefs(context.Background(), []string{"W1"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

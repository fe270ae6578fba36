// README: DB-backed booking store tests (set SKYRIDE_TEST_DSN to run).
package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyride/internal/modules/location"
	"skyride/internal/pgtest"
)

func sampleDraft(code string, now time.Time) Draft {
	return Draft{
		BookingCode:            code,
		TierID:                 "skyhop",
		Pickup:                 location.Location{Latitude: 12.9762, Longitude: 77.6033, Address: "MG Road"},
		Destination:            location.Location{Latitude: 12.9698, Longitude: 77.7499, Address: "Whitefield"},
		DistanceKm:             15.9,
		EstimatedFare:          338.5,
		EstimatedTravelMinutes: 318,
		PickupTimeStart:        now.Add(5 * time.Minute),
		PickupTimeEnd:          now.Add(10 * time.Minute),
	}
}

func TestStoreInsertAndGet(t *testing.T) {
	store := NewStore(pgtest.Open(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	b, err := store.Insert(ctx, sampleDraft("SR00000001", now))
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "SR00000001", b.BookingCode)
	assert.Equal(t, "SkyHop", b.TierName)
	assert.Equal(t, StatusSearching, b.Status)
	assert.Equal(t, DefaultPaymentStatus, b.PaymentStatus)
	assert.Nil(t, b.FinalFare)
	require.NotNil(t, b.PickupTimeStart)
	assert.True(t, b.PickupTimeStart.Equal(now.Add(5*time.Minute)))

	got, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.BookingCode, got.BookingCode)
	assert.Equal(t, "Whitefield", got.Destination.Address)
}

func TestStoreUpdateStatus(t *testing.T) {
	store := NewStore(pgtest.Open(t))
	ctx := context.Background()

	b, err := store.Insert(ctx, sampleDraft("SR00000002", time.Now()))
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, b.ID, StatusSearching, StatusCompleted))
	got, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.Nil(t, got.CancelledAt)

	assert.ErrorIs(t, store.UpdateStatus(ctx, "no-such-booking", StatusSearching, StatusAssigned), ErrNotFound)
	assert.ErrorIs(t, store.UpdateStatus(ctx, b.ID, StatusSearching, StatusAssigned), ErrInvalidState,
		"a completed booking must not be rewritten by a stale writer")
	got, err = store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	_, err = store.Get(ctx, "no-such-booking")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListRecentNewestFirst(t *testing.T) {
	store := NewStore(pgtest.Open(t))
	ctx := context.Background()

	for _, code := range []string{"SR00000011", "SR00000012", "SR00000013", "SR00000014"} {
		_, err := store.Insert(ctx, sampleDraft(code, time.Now()))
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	got, err := store.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "SR00000014", got[0].BookingCode)
	assert.Equal(t, "SR00000012", got[2].BookingCode)
	assert.Equal(t, "SkyHop", got[0].TierName)
}

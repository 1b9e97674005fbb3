package service

import (
	"context"
	"testing"

	"farmstore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "sess_1756400000000_ab12cd34e"

func cartFixture() *fakeCartStore {
	return newFakeCartStore(
		models.Product{ID: 1, Title: "Молоко", SKU: "MLK-1", Price: 9000, Quantity: 10, Unit: "л"},
		models.Product{ID: 2, Title: "Мёд", SKU: "HNY-1", Price: 50000, Quantity: 4},
	)
}

func TestCartAddAccumulates(t *testing.T) {
	store := cartFixture()
	svc := NewCartService(store)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, testSession, 1, 2))
	require.NoError(t, svc.Add(ctx, testSession, 1, 3))

	rows, err := svc.Get(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, rows, 1, "same product stays on one line")
	assert.Equal(t, 5, rows[0].Quantity)

	count, err := svc.Count(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCartAddClampsQuantity(t *testing.T) {
	store := cartFixture()
	svc := NewCartService(store)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, testSession, 1, 0))

	rows, err := svc.Get(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Quantity)
}

func TestCartUpdateSetsAbsoluteQuantity(t *testing.T) {
	store := cartFixture()
	svc := NewCartService(store)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, testSession, 1, 2))
	require.NoError(t, svc.Update(ctx, testSession, 1, 7))

	rows, err := svc.Get(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 7, rows[0].Quantity)
}

func TestCartUpdateToZeroRemoves(t *testing.T) {
	store := cartFixture()
	svc := NewCartService(store)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, testSession, 1, 2))
	require.NoError(t, svc.Update(ctx, testSession, 1, 0))

	rows, err := svc.Get(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, rows)

	count, err := svc.Count(ctx, testSession)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCartRemoveAndClear(t *testing.T) {
	store := cartFixture()
	svc := NewCartService(store)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, testSession, 1, 1))
	require.NoError(t, svc.Add(ctx, testSession, 2, 1))

	require.NoError(t, svc.Remove(ctx, testSession, 1))
	rows, err := svc.Get(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].ProductID)

	require.NoError(t, svc.Clear(ctx, testSession))
	rows, err = svc.Get(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

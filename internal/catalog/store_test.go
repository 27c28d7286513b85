package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/arvella/backend-parfum/internal/catalog"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = r.values[i].(int64)
		case *string:
			*v = r.values[i].(string)
		case *int:
			*v = r.values[i].(int)
		}
	}
	return nil
}

type fakeDB struct {
	rows    map[string]fakeRow
	queries []string
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.queries = append(db.queries, sql)
	if row, ok := db.rows[args[0].(uuid.UUID).String()]; ok {
		return row
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func TestPricingSnapshotProduct(t *testing.T) {
	productID := uuid.New()
	db := &fakeDB{rows: map[string]fakeRow{
		productID.String(): {values: []any{int64(250000), "180000 for 2", 8}},
	}}
	store := &catalog.Store{DB: db}

	snap, err := store.PricingSnapshot(context.Background(), productID, nil)
	require.NoError(t, err)
	require.Equal(t, catalog.Snapshot{UnitPrice: 250000, OfferText: "180000 for 2", Stock: 8}, snap)
}

func TestPricingSnapshotVariant(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()
	db := &fakeDB{rows: map[string]fakeRow{
		variantID.String(): {values: []any{int64(275000), "10% off", 3}},
	}}
	store := &catalog.Store{DB: db}

	snap, err := store.PricingSnapshot(context.Background(), productID, &variantID)
	require.NoError(t, err)
	require.Equal(t, int64(275000), snap.UnitPrice)
	require.Equal(t, "10% off", snap.OfferText)
	require.Equal(t, 3, snap.Stock)
}

func TestPricingSnapshotNotFound(t *testing.T) {
	store := &catalog.Store{DB: &fakeDB{}}
	_, err := store.PricingSnapshot(context.Background(), uuid.New(), nil)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestPricingSnapshotUsesCache(t *testing.T) {
	productID := uuid.New()
	db := &fakeDB{rows: map[string]fakeRow{
		productID.String(): {values: []any{int64(90000), "", 5}},
	}}
	store := &catalog.Store{DB: db, Cache: newTestCache(t)}
	ctx := context.Background()

	first, err := store.PricingSnapshot(ctx, productID, nil)
	require.NoError(t, err)
	second, err := store.PricingSnapshot(ctx, productID, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Len(t, db.queries, 1, "second read should come from cache")
}

// Package catalog supplies the authoritative pricing inputs for a sellable
// unit: the unit price, the raw merchandising offer string, and the available
// stock. The offer string is opaque catalog text; parsing it is the pricing
// engine's concern.
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound indicates the product or variant does not exist.
var ErrNotFound = errors.New("catalog: product not found")

// Snapshot carries the pricing inputs for one sellable unit. Prices are minor
// units. The checkout revalidation path and the cart preview must both be fed
// the same snapshot fields to guarantee identical totals.
type Snapshot struct {
	UnitPrice int64  `json:"unitPrice"`
	OfferText string `json:"offerText"`
	Stock     int    `json:"stock"`
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads pricing snapshots from the catalog tables, consulting the cache
// first when one is configured.
type Store struct {
	DB    rowQuerier
	Cache *Cache
}

const productSnapshotSQL = `
SELECT price, COALESCE(offer_text, ''), stock
FROM products
WHERE id = $1 AND deleted_at IS NULL`

const variantSnapshotSQL = `
SELECT v.price, COALESCE(p.offer_text, ''), v.stock
FROM product_variants v
JOIN products p ON p.id = v.product_id
WHERE v.id = $1 AND v.product_id = $2 AND p.deleted_at IS NULL`

// PricingSnapshot loads the snapshot for a product or, when variantID is set,
// for that variant of the product. Variant rows carry their own price and
// stock; the offer string always lives on the product.
func (s *Store) PricingSnapshot(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (Snapshot, error) {
	if s == nil || s.DB == nil {
		return Snapshot{}, errors.New("catalog store not configured")
	}
	if snap, ok, err := s.Cache.GetSnapshot(ctx, productID, variantID); err == nil && ok {
		return snap, nil
	}

	var (
		snap Snapshot
		err  error
	)
	if variantID != nil {
		err = s.DB.QueryRow(ctx, variantSnapshotSQL, *variantID, productID).
			Scan(&snap.UnitPrice, &snap.OfferText, &snap.Stock)
	} else {
		err = s.DB.QueryRow(ctx, productSnapshotSQL, productID).
			Scan(&snap.UnitPrice, &snap.OfferText, &snap.Stock)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	_ = s.Cache.SetSnapshot(ctx, productID, variantID, snap)
	return snap, nil
}

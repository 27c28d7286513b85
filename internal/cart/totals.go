// Package cart folds per-line pricing results into cart totals. The cart
// itself (its lines and their transitions) is owned by the caller; this
// package only reads and projects.
package cart

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/arvella/backend-parfum/internal/currency"
	"github.com/arvella/backend-parfum/internal/offer"
	"github.com/arvella/backend-parfum/internal/pricing"
)

// Line binds a quantity, unit price, and offer string to a product identity.
type Line struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Qty       int
	UnitPrice currency.Money
	OfferText string
}

// PricedLine is a line together with its parsed offer and pricing result.
type PricedLine struct {
	Line   Line
	Offer  offer.Offer
	Result pricing.Result
}

// Totals is the fold over all lines' pricing results.
type Totals struct {
	OriginalTotal currency.Money
	FinalTotal    currency.Money
	Savings       currency.Money
	OfferLines    int
}

// Aggregate prices every line and accumulates totals field by field, not by
// subtracting sums, so per-line results and cart totals always agree.
func Aggregate(lines []Line) ([]PricedLine, Totals, error) {
	priced := make([]PricedLine, 0, len(lines))
	var totals Totals
	for i, ln := range lines {
		off := offer.Parse(ln.OfferText)
		res, err := pricing.Price(ln.Qty, ln.UnitPrice, off)
		if err != nil {
			return nil, Totals{}, fmt.Errorf("price line %d (%s): %w", i, ln.ProductID, err)
		}
		priced = append(priced, PricedLine{Line: ln, Offer: off, Result: res})
		totals.OriginalTotal += res.OriginalTotal
		totals.FinalTotal += res.FinalTotal
		totals.Savings += res.Savings
		if res.OfferApplied {
			totals.OfferLines++
		}
	}
	return priced, totals, nil
}

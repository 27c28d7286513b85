package pricing

import (
	"errors"
	"fmt"

	"github.com/arvella/backend-parfum/internal/currency"
	"github.com/arvella/backend-parfum/internal/offer"
)

var (
	// ErrNegativeQuantity indicates a caller passed a negative quantity.
	ErrNegativeQuantity = errors.New("pricing: negative quantity")
	// ErrNegativeUnitPrice indicates a caller passed a negative unit price.
	ErrNegativeUnitPrice = errors.New("pricing: negative unit price")
	// ErrPercentOutOfRange indicates a percent discount outside [0,100].
	// The parser lets these through; rejecting them here keeps upstream data
	// corruption visible instead of clamping it away.
	ErrPercentOutOfRange = errors.New("pricing: percent discount out of range")
)

// Result is the derived pricing of one line. It is recomputed on demand and
// never persisted apart from its inputs.
type Result struct {
	OriginalTotal      currency.Money
	FinalTotal         currency.Money
	Savings            currency.Money
	UnitsInBestTier    int
	UnitsAtFullPrice   int
	EffectiveUnitPrice float64
	OfferApplied       bool
}

// Price computes the bundle-optimal total for a line quantity under an offer.
// Precondition violations fail loudly; ordinary user input never triggers them.
func Price(qty int, unit currency.Money, off offer.Offer) (Result, error) {
	if qty < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrNegativeQuantity, qty)
	}
	if unit < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrNegativeUnitPrice, unit)
	}

	original := currency.Money(qty) * unit
	res := Result{
		OriginalTotal:      original,
		FinalTotal:         original,
		UnitsAtFullPrice:   qty,
		EffectiveUnitPrice: float64(unit),
	}

	switch o := off.(type) {
	case offer.Bundle:
		if qty > 0 && o.GroupSize >= 1 {
			// Greedy maximum-bundle allocation. Optimal as long as the group
			// price is no worse than GroupSize units at the regular price.
			groups := qty / o.GroupSize
			rem := qty % o.GroupSize
			res.FinalTotal = currency.Money(groups)*o.GroupPrice + currency.Money(rem)*unit
			res.UnitsInBestTier = groups * o.GroupSize
			res.UnitsAtFullPrice = rem
			res.OfferApplied = groups > 0
		}
	case offer.PercentOff:
		if o.Percent < 0 || o.Percent > 100 {
			return Result{}, fmt.Errorf("%w: %d%%", ErrPercentOutOfRange, o.Percent)
		}
		if qty > 0 {
			res.FinalTotal = discountHalfUp(original, o.Percent)
			res.UnitsInBestTier = qty
			res.UnitsAtFullPrice = 0
			res.OfferApplied = true
		}
	case offer.ComboFixed:
		if qty > 0 {
			res.FinalTotal = currency.Money(qty) * o.UnitPrice
			res.UnitsInBestTier = qty
			res.UnitsAtFullPrice = 0
			res.OfferApplied = true
		}
	case offer.Unrecognized:
		// No offer; the line prices at the regular unit price.
	default:
		return Result{}, fmt.Errorf("pricing: unhandled offer kind %T", off)
	}

	res.Savings = res.OriginalTotal - res.FinalTotal
	if qty > 0 {
		res.EffectiveUnitPrice = float64(res.FinalTotal) / float64(qty)
	}
	return res, nil
}

// discountHalfUp applies a percent discount to the aggregate total, rounding
// half up. Rounding once on the aggregate avoids per-unit drift across the
// quantity.
func discountHalfUp(total currency.Money, percent int) currency.Money {
	return (total*currency.Money(100-percent) + 50) / 100
}

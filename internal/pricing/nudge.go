package pricing

import (
	"fmt"

	"github.com/arvella/backend-parfum/internal/currency"
	"github.com/arvella/backend-parfum/internal/offer"
)

// Hint tells the shopper how many more units would unlock additional savings.
type Hint struct {
	Show             bool
	UnitsNeeded      int
	PotentialSavings currency.Money
	Message          string
}

// Nudge reports whether adding units would cross into a better-priced bundle
// tier. Only bundle offers nudge; the framing makes no sense for flat
// discounts. A nil stock means the caller has no stock constraint to enforce.
func Nudge(qty int, unit currency.Money, off offer.Offer, stock *int) (Hint, error) {
	if qty < 0 {
		return Hint{}, fmt.Errorf("%w: %d", ErrNegativeQuantity, qty)
	}
	if unit < 0 {
		return Hint{}, fmt.Errorf("%w: %d", ErrNegativeUnitPrice, unit)
	}

	b, ok := off.(offer.Bundle)
	if !ok || qty == 0 || b.GroupSize < 1 {
		return Hint{}, nil
	}
	rem := qty % b.GroupSize
	if rem == 0 {
		// Already on a bundle boundary.
		return Hint{}, nil
	}
	needed := b.GroupSize - rem

	current, err := Price(qty, unit, off)
	if err != nil {
		return Hint{}, err
	}
	next, err := Price(qty+needed, unit, off)
	if err != nil {
		return Hint{}, err
	}
	potential := currency.Money(needed)*unit - (next.FinalTotal - current.FinalTotal)
	if potential <= 0 {
		return Hint{}, nil
	}
	if stock != nil && qty+needed > *stock {
		// The next tier is out of reach; suppress the hint rather than error.
		return Hint{}, nil
	}
	return Hint{
		Show:             true,
		UnitsNeeded:      needed,
		PotentialSavings: potential,
		Message:          fmt.Sprintf("Add %d more to unlock the bundle price", needed),
	}, nil
}

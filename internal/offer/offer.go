package offer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arvella/backend-parfum/internal/currency"
)

// Offer is the closed set of promotional shapes a merchandising string can
// describe. The set is sealed so calculators must handle every kind explicitly.
type Offer interface {
	isOffer()
}

// Bundle prices every full group of GroupSize units at GroupPrice, with any
// remainder charged at the regular unit price.
type Bundle struct {
	GroupPrice currency.Money
	GroupSize  int
}

// PercentOff discounts the line total by Percent. The grammar accepts values
// above 100; the calculator rejects them as a data error rather than clamping.
type PercentOff struct {
	Percent int
}

// ComboFixed prices every unit at UnitPrice regardless of quantity.
type ComboFixed struct {
	UnitPrice currency.Money
}

// Unrecognized carries input that matched no grammar rule. It prices as
// "no offer" and is a data-quality signal, not an error.
type Unrecognized struct {
	Original string
}

func (Bundle) isOffer()       {}
func (PercentOff) isOffer()   {}
func (ComboFixed) isOffer()   {}
func (Unrecognized) isOffer() {}

// Merchandising staff author these strings by hand, so the grammar is three
// fixed shapes with an optional currency glyph. Anything else falls through.
var (
	bundleRe  = regexp.MustCompile(`(?i)^(?:rp\s*|[$€£¥₹]\s*)?(\d+)\s+for\s+(\d+)$`)
	percentRe = regexp.MustCompile(`(?i)^(\d+)\s*%(?:\s*off)?$`)
	comboRe   = regexp.MustCompile(`(?i)^(?:rp\s*|[$€£¥₹]\s*)?(\d+)\s+combo$`)
)

// Parse maps a merchandising string to its offer shape. It is a total function
// of the input: the same string always yields the same variant and parsing
// never fails. First matching rule wins; a group size of zero falls through.
func Parse(raw string) Offer {
	s := strings.TrimSpace(raw)
	if m := bundleRe.FindStringSubmatch(s); m != nil {
		price, perr := strconv.ParseInt(m[1], 10, 64)
		size, serr := strconv.Atoi(m[2])
		if perr == nil && serr == nil && size >= 1 {
			return Bundle{GroupPrice: price, GroupSize: size}
		}
	}
	if m := percentRe.FindStringSubmatch(s); m != nil {
		if pct, err := strconv.Atoi(m[1]); err == nil {
			return PercentOff{Percent: pct}
		}
	}
	if m := comboRe.FindStringSubmatch(s); m != nil {
		if price, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return ComboFixed{UnitPrice: price}
		}
	}
	return Unrecognized{Original: raw}
}

// Kind returns a stable label for metrics and logs.
func Kind(o Offer) string {
	switch o.(type) {
	case Bundle:
		return "bundle"
	case PercentOff:
		return "percent"
	case ComboFixed:
		return "combo"
	default:
		return "none"
	}
}

package currency

import (
	"fmt"
	"math"
	"strings"

	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders Money values as locale-aware currency strings.
// Formatting is lossy and display-only; it is never parsed back.
type Formatter struct {
	unit    xcurrency.Unit
	printer *message.Printer
	scale   int
}

// NewFormatter builds a formatter for an ISO 4217 code and a BCP 47 locale tag.
func NewFormatter(code, locale string) (*Formatter, error) {
	unit, err := xcurrency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("parse currency code %q: %w", code, err)
	}
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	scale, _ := xcurrency.Cash.Rounding(unit)
	return &Formatter{
		unit:    unit,
		printer: message.NewPrinter(tag),
		scale:   scale,
	}, nil
}

// Format renders an amount of minor units with the currency symbol.
func (f *Formatter) Format(amount Money) string {
	if f == nil || f.printer == nil {
		return fmt.Sprintf("%d", amount)
	}
	major := float64(amount) / math.Pow10(f.scale)
	return f.printer.Sprintf("%v", xcurrency.Symbol(f.unit.Amount(major)))
}

// Code returns the ISO 4217 code the formatter was built with.
func (f *Formatter) Code() string {
	if f == nil {
		return ""
	}
	return f.unit.String()
}

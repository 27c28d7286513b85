// Package quote runs the pricing engine over authoritative catalog data. It
// backs both the storefront cart preview and the checkout revalidation path,
// which must agree to the minor unit because they share inputs and engine.
package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arvella/backend-parfum/internal/cart"
	"github.com/arvella/backend-parfum/internal/catalog"
	"github.com/arvella/backend-parfum/internal/currency"
	"github.com/arvella/backend-parfum/internal/obs"
	"github.com/arvella/backend-parfum/internal/offer"
	"github.com/arvella/backend-parfum/internal/pricing"
)

var (
	// ErrTotalMismatch is returned when a client-submitted total disagrees
	// with the server-side recomputation.
	ErrTotalMismatch = errors.New("quote: client total does not match server total")
	// ErrTooManyLines guards the quote endpoint against oversized carts.
	ErrTooManyLines = errors.New("quote: too many lines")
)

// CatalogSource supplies the authoritative pricing inputs for a sellable unit.
type CatalogSource interface {
	PricingSnapshot(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (catalog.Snapshot, error)
}

// Service prices carts from catalog snapshots.
type Service struct {
	Catalog  CatalogSource
	Format   *currency.Formatter
	Logger   zerolog.Logger
	MaxLines int
}

// LineInput identifies one cart line by product/variant and quantity. The
// unit price and offer string are never taken from the client.
type LineInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Qty       int
}

// NudgeView is the shopper-facing projection of a nudge hint.
type NudgeView struct {
	UnitsNeeded             int            `json:"unitsNeeded"`
	PotentialSavings        currency.Money `json:"potentialSavings"`
	PotentialSavingsDisplay string         `json:"potentialSavingsDisplay,omitempty"`
	Message                 string         `json:"message"`
}

// QuotedLine carries the priced projection of one line.
type QuotedLine struct {
	ProductID          uuid.UUID      `json:"productId"`
	VariantID          *uuid.UUID     `json:"variantId,omitempty"`
	Qty                int            `json:"qty"`
	UnitPrice          currency.Money `json:"unitPrice"`
	OfferKind          string         `json:"offerKind"`
	OriginalTotal      currency.Money `json:"originalTotal"`
	FinalTotal         currency.Money `json:"finalTotal"`
	Savings            currency.Money `json:"savings"`
	UnitsInBestTier    int            `json:"unitsInBestTier"`
	UnitsAtFullPrice   int            `json:"unitsAtFullPrice"`
	EffectiveUnitPrice float64        `json:"effectiveUnitPrice"`
	OfferApplied       bool           `json:"offerApplied"`
	FinalTotalDisplay  string         `json:"finalTotalDisplay,omitempty"`
	Nudge              *NudgeView     `json:"nudge,omitempty"`
}

// Quote is the cart-level fold plus its per-line projections.
type Quote struct {
	Lines             []QuotedLine   `json:"lines"`
	OriginalTotal     currency.Money `json:"originalTotal"`
	FinalTotal        currency.Money `json:"finalTotal"`
	Savings           currency.Money `json:"savings"`
	OfferLines        int            `json:"offerLines"`
	FinalTotalDisplay string         `json:"finalTotalDisplay,omitempty"`
	SavingsDisplay    string         `json:"savingsDisplay,omitempty"`
}

// Preview loads snapshots for every line, prices the cart, and attaches nudge
// hints. It is side-effect free apart from logs and metrics; safe on every
// quantity change.
func (s *Service) Preview(ctx context.Context, inputs []LineInput) (Quote, error) {
	if s == nil || s.Catalog == nil {
		return Quote{}, errors.New("quote service not configured")
	}
	if s.MaxLines > 0 && len(inputs) > s.MaxLines {
		return Quote{}, fmt.Errorf("%w: %d > %d", ErrTooManyLines, len(inputs), s.MaxLines)
	}

	lines := make([]cart.Line, 0, len(inputs))
	stocks := make([]int, 0, len(inputs))
	for _, in := range inputs {
		snap, err := s.Catalog.PricingSnapshot(ctx, in.ProductID, in.VariantID)
		if err != nil {
			obs.CountQuote("error")
			return Quote{}, fmt.Errorf("snapshot %s: %w", in.ProductID, err)
		}
		s.auditOffer(in.ProductID, snap)
		lines = append(lines, cart.Line{
			ProductID: in.ProductID,
			VariantID: in.VariantID,
			Qty:       in.Qty,
			UnitPrice: snap.UnitPrice,
			OfferText: snap.OfferText,
		})
		stocks = append(stocks, snap.Stock)
	}

	priced, totals, err := cart.Aggregate(lines)
	if err != nil {
		obs.CountQuote("error")
		return Quote{}, err
	}

	out := Quote{
		Lines:             make([]QuotedLine, 0, len(priced)),
		OriginalTotal:     totals.OriginalTotal,
		FinalTotal:        totals.FinalTotal,
		Savings:           totals.Savings,
		OfferLines:        totals.OfferLines,
		FinalTotalDisplay: s.display(totals.FinalTotal),
		SavingsDisplay:    s.display(totals.Savings),
	}
	for i, pl := range priced {
		ql := QuotedLine{
			ProductID:          pl.Line.ProductID,
			VariantID:          pl.Line.VariantID,
			Qty:                pl.Line.Qty,
			UnitPrice:          pl.Line.UnitPrice,
			OfferKind:          offer.Kind(pl.Offer),
			OriginalTotal:      pl.Result.OriginalTotal,
			FinalTotal:         pl.Result.FinalTotal,
			Savings:            pl.Result.Savings,
			UnitsInBestTier:    pl.Result.UnitsInBestTier,
			UnitsAtFullPrice:   pl.Result.UnitsAtFullPrice,
			EffectiveUnitPrice: pl.Result.EffectiveUnitPrice,
			OfferApplied:       pl.Result.OfferApplied,
			FinalTotalDisplay:  s.display(pl.Result.FinalTotal),
		}
		stock := stocks[i]
		hint, err := pricing.Nudge(pl.Line.Qty, pl.Line.UnitPrice, pl.Offer, &stock)
		if err != nil {
			obs.CountQuote("error")
			return Quote{}, err
		}
		if hint.Show {
			obs.CountNudgeShown()
			ql.Nudge = &NudgeView{
				UnitsNeeded:             hint.UnitsNeeded,
				PotentialSavings:        hint.PotentialSavings,
				PotentialSavingsDisplay: s.display(hint.PotentialSavings),
				Message:                 hint.Message,
			}
		}
		out.Lines = append(out.Lines, ql)
	}
	obs.CountQuote("ok")
	return out, nil
}

// Revalidate re-runs the cart computation server-side and rejects a
// client-submitted total that disagrees. The order path must call this before
// persisting any price-bearing record.
func (s *Service) Revalidate(ctx context.Context, inputs []LineInput, expected currency.Money) (Quote, error) {
	q, err := s.Preview(ctx, inputs)
	if err != nil {
		return Quote{}, err
	}
	if q.FinalTotal != expected {
		obs.CountPriceMismatch()
		s.Logger.Warn().
			Int64("client_total", expected).
			Int64("server_total", q.FinalTotal).
			Msg("price_mismatch")
		return q, fmt.Errorf("%w: client %d, server %d", ErrTotalMismatch, expected, q.FinalTotal)
	}
	return q, nil
}

// auditOffer emits data-quality signals for offer strings the merchandising
// team authored badly. None of these block the quote.
func (s *Service) auditOffer(productID uuid.UUID, snap catalog.Snapshot) {
	off := offer.Parse(snap.OfferText)
	obs.CountOfferParsed(offer.Kind(off))
	switch o := off.(type) {
	case offer.Unrecognized:
		if strings.TrimSpace(o.Original) != "" {
			obs.CountMalformedOffer()
			s.Logger.Warn().
				Str("product_id", productID.String()).
				Str("offer_text", o.Original).
				Msg("malformed_offer")
		}
	case offer.Bundle:
		if o.GroupPrice == 0 || o.GroupPrice > currency.Money(o.GroupSize)*snap.UnitPrice {
			s.Logger.Warn().
				Str("product_id", productID.String()).
				Str("offer_text", snap.OfferText).
				Int64("group_price", o.GroupPrice).
				Int("group_size", o.GroupSize).
				Int64("unit_price", snap.UnitPrice).
				Msg("bundle_offer_misconfigured")
		}
	case offer.ComboFixed:
		if o.UnitPrice == 0 || o.UnitPrice > snap.UnitPrice {
			s.Logger.Warn().
				Str("product_id", productID.String()).
				Str("offer_text", snap.OfferText).
				Int64("combo_price", o.UnitPrice).
				Int64("unit_price", snap.UnitPrice).
				Msg("combo_offer_misconfigured")
		}
	case offer.PercentOff:
		if o.Percent > 100 {
			s.Logger.Error().
				Str("product_id", productID.String()).
				Str("offer_text", snap.OfferText).
				Int("percent", o.Percent).
				Msg("percent_offer_out_of_range")
		}
	}
}

func (s *Service) display(amount currency.Money) string {
	if s == nil || s.Format == nil {
		return ""
	}
	return s.Format.Format(amount)
}

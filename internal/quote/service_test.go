package quote_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arvella/backend-parfum/internal/catalog"
	"github.com/arvella/backend-parfum/internal/currency"
	"github.com/arvella/backend-parfum/internal/quote"
)

type fakeCatalog struct {
	snapshots map[string]catalog.Snapshot
}

func (f fakeCatalog) PricingSnapshot(_ context.Context, productID uuid.UUID, variantID *uuid.UUID) (catalog.Snapshot, error) {
	key := productID.String()
	if variantID != nil {
		key += ":" + variantID.String()
	}
	snap, ok := f.snapshots[key]
	if !ok {
		return catalog.Snapshot{}, catalog.ErrNotFound
	}
	return snap, nil
}

func newService(snaps map[string]catalog.Snapshot) *quote.Service {
	return &quote.Service{
		Catalog:  fakeCatalog{snapshots: snaps},
		Logger:   zerolog.Nop(),
		MaxLines: 50,
	}
}

func TestPreviewPricesFromCatalogNotClient(t *testing.T) {
	productID := uuid.New()
	svc := newService(map[string]catalog.Snapshot{
		productID.String(): {UnitPrice: 100, OfferText: "180 for 2", Stock: 10},
	})

	q, err := svc.Preview(context.Background(), []quote.LineInput{{ProductID: productID, Qty: 5}})
	require.NoError(t, err)
	require.Len(t, q.Lines, 1)

	line := q.Lines[0]
	require.Equal(t, currency.Money(100), line.UnitPrice)
	require.Equal(t, "bundle", line.OfferKind)
	require.Equal(t, currency.Money(500), line.OriginalTotal)
	require.Equal(t, currency.Money(460), line.FinalTotal)
	require.Equal(t, currency.Money(40), line.Savings)
	require.True(t, line.OfferApplied)

	require.Equal(t, currency.Money(460), q.FinalTotal)
	require.Equal(t, currency.Money(40), q.Savings)
	require.Equal(t, 1, q.OfferLines)

	// 5 is off the bundle boundary; one more unit unlocks the third pair.
	require.NotNil(t, line.Nudge)
	require.Equal(t, 1, line.Nudge.UnitsNeeded)
	require.Equal(t, currency.Money(20), line.Nudge.PotentialSavings)
}

func TestPreviewNudgeSuppressedByStock(t *testing.T) {
	productID := uuid.New()
	svc := newService(map[string]catalog.Snapshot{
		productID.String(): {UnitPrice: 100, OfferText: "180 for 2", Stock: 5},
	})

	q, err := svc.Preview(context.Background(), []quote.LineInput{{ProductID: productID, Qty: 5}})
	require.NoError(t, err)
	require.Nil(t, q.Lines[0].Nudge, "next tier exceeds stock")
}

func TestPreviewMalformedOfferDegradesGracefully(t *testing.T) {
	productID := uuid.New()
	svc := newService(map[string]catalog.Snapshot{
		productID.String(): {UnitPrice: 150, OfferText: "buy 3 get 1 free", Stock: 10},
	})

	q, err := svc.Preview(context.Background(), []quote.LineInput{{ProductID: productID, Qty: 2}})
	require.NoError(t, err)
	require.Equal(t, "none", q.Lines[0].OfferKind)
	require.Equal(t, currency.Money(300), q.FinalTotal)
	require.False(t, q.Lines[0].OfferApplied)
	require.Equal(t, 0, q.OfferLines)
}

func TestPreviewRejectsPercentAboveHundred(t *testing.T) {
	productID := uuid.New()
	svc := newService(map[string]catalog.Snapshot{
		productID.String(): {UnitPrice: 150, OfferText: "120% off", Stock: 10},
	})

	_, err := svc.Preview(context.Background(), []quote.LineInput{{ProductID: productID, Qty: 2}})
	require.Error(t, err)
}

func TestPreviewUnknownProduct(t *testing.T) {
	svc := newService(nil)
	_, err := svc.Preview(context.Background(), []quote.LineInput{{ProductID: uuid.New(), Qty: 1}})
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestPreviewVariantPricing(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()
	svc := newService(map[string]catalog.Snapshot{
		productID.String() + ":" + variantID.String(): {UnitPrice: 200, OfferText: "50% off", Stock: 4},
	})

	q, err := svc.Preview(context.Background(), []quote.LineInput{{ProductID: productID, VariantID: &variantID, Qty: 3}})
	require.NoError(t, err)
	require.Equal(t, currency.Money(300), q.FinalTotal)
	require.Equal(t, currency.Money(300), q.Savings)
}

func TestPreviewMaxLines(t *testing.T) {
	productID := uuid.New()
	svc := newService(map[string]catalog.Snapshot{
		productID.String(): {UnitPrice: 100, Stock: 10},
	})
	svc.MaxLines = 1

	_, err := svc.Preview(context.Background(), []quote.LineInput{
		{ProductID: productID, Qty: 1},
		{ProductID: productID, Qty: 1},
	})
	require.ErrorIs(t, err, quote.ErrTooManyLines)
}

func TestPreviewFlagsMisconfiguredCombo(t *testing.T) {
	cases := []struct {
		name      string
		offerText string
		warn      bool
	}{
		{"priced at zero", "0 combo", true},
		{"priced above unit", "120 combo", true},
		{"discounted", "80 combo", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			productID := uuid.New()
			svc := &quote.Service{
				Catalog: fakeCatalog{snapshots: map[string]catalog.Snapshot{
					productID.String(): {UnitPrice: 100, OfferText: tc.offerText, Stock: 10},
				}},
				Logger:   zerolog.New(&buf),
				MaxLines: 50,
			}

			_, err := svc.Preview(context.Background(), []quote.LineInput{{ProductID: productID, Qty: 2}})
			require.NoError(t, err)
			if tc.warn {
				require.Contains(t, buf.String(), "combo_offer_misconfigured")
			} else {
				require.NotContains(t, buf.String(), "combo_offer_misconfigured")
			}
		})
	}
}

func TestPreviewFormatsDisplayTotals(t *testing.T) {
	format, err := currency.NewFormatter("USD", "en")
	require.NoError(t, err)

	productID := uuid.New()
	svc := newService(map[string]catalog.Snapshot{
		productID.String(): {UnitPrice: 100, OfferText: "180 for 2", Stock: 10},
	})
	svc.Format = format

	q, err := svc.Preview(context.Background(), []quote.LineInput{{ProductID: productID, Qty: 2}})
	require.NoError(t, err)
	require.NotEmpty(t, q.FinalTotalDisplay)
	require.NotEmpty(t, q.Lines[0].FinalTotalDisplay)
}

func TestRevalidateAcceptsMatchingTotal(t *testing.T) {
	productID := uuid.New()
	svc := newService(map[string]catalog.Snapshot{
		productID.String(): {UnitPrice: 100, OfferText: "180 for 2", Stock: 10},
	})

	q, err := svc.Revalidate(context.Background(), []quote.LineInput{{ProductID: productID, Qty: 4}}, 360)
	require.NoError(t, err)
	require.Equal(t, currency.Money(360), q.FinalTotal)
}

func TestRevalidateRejectsStaleTotal(t *testing.T) {
	productID := uuid.New()
	svc := newService(map[string]catalog.Snapshot{
		productID.String(): {UnitPrice: 100, OfferText: "180 for 2", Stock: 10},
	})

	_, err := svc.Revalidate(context.Background(), []quote.LineInput{{ProductID: productID, Qty: 4}}, 400)
	require.ErrorIs(t, err, quote.ErrTotalMismatch)
}

func TestPreviewAndRevalidateAgree(t *testing.T) {
	productID := uuid.New()
	other := uuid.New()
	snaps := map[string]catalog.Snapshot{
		productID.String(): {UnitPrice: 95, OfferText: "180 for 2", Stock: 30},
		other.String():     {UnitPrice: 500, OfferText: "399 combo", Stock: 30},
	}
	svc := newService(snaps)
	inputs := []quote.LineInput{
		{ProductID: productID, Qty: 7},
		{ProductID: other, Qty: 4},
	}

	preview, err := svc.Preview(context.Background(), inputs)
	require.NoError(t, err)

	checked, err := svc.Revalidate(context.Background(), inputs, preview.FinalTotal)
	require.NoError(t, err)
	require.Equal(t, preview.FinalTotal, checked.FinalTotal)
	require.Equal(t, preview.Savings, checked.Savings)
}

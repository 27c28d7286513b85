package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arvella/backend-parfum/internal/currency"
	"github.com/arvella/backend-parfum/internal/offer"
	"github.com/arvella/backend-parfum/internal/pricing"
)

func TestNudgeShowsWhenNextTierSaves(t *testing.T) {
	off := offer.Parse("180 for 2")
	hint, err := pricing.Nudge(1, 100, off, nil)
	require.NoError(t, err)
	require.True(t, hint.Show)
	require.Equal(t, 1, hint.UnitsNeeded)
	// One more unit costs 100 but the pair reprices from 100 to 180: net 20 saved.
	require.Equal(t, currency.Money(20), hint.PotentialSavings)
	require.Contains(t, hint.Message, "1")
}

func TestNudgeSilentOnBoundary(t *testing.T) {
	off := offer.Parse("180 for 2")
	hint, err := pricing.Nudge(2, 100, off, nil)
	require.NoError(t, err)
	require.False(t, hint.Show)
	require.Equal(t, 0, hint.UnitsNeeded)
}

func TestNudgeSilentAtZeroQuantity(t *testing.T) {
	hint, err := pricing.Nudge(0, 100, offer.Bundle{GroupPrice: 180, GroupSize: 2}, nil)
	require.NoError(t, err)
	require.False(t, hint.Show)
}

func TestNudgeOnlyForBundles(t *testing.T) {
	for _, off := range []offer.Offer{
		offer.PercentOff{Percent: 50},
		offer.ComboFixed{UnitPrice: 399},
		offer.Unrecognized{Original: "bogof"},
	} {
		hint, err := pricing.Nudge(1, 100, off, nil)
		require.NoError(t, err)
		require.False(t, hint.Show)
	}
}

func TestNudgeSuppressedByStock(t *testing.T) {
	off := offer.Bundle{GroupPrice: 180, GroupSize: 2}
	stock := 1
	hint, err := pricing.Nudge(1, 100, off, &stock)
	require.NoError(t, err)
	require.False(t, hint.Show)

	stock = 2
	hint, err = pricing.Nudge(1, 100, off, &stock)
	require.NoError(t, err)
	require.True(t, hint.Show)
}

func TestNudgeSilentWhenBundleSavesNothing(t *testing.T) {
	// Group priced exactly at two units: crossing the boundary saves nothing.
	hint, err := pricing.Nudge(1, 100, offer.Bundle{GroupPrice: 200, GroupSize: 2}, nil)
	require.NoError(t, err)
	require.False(t, hint.Show)
}

func TestNudgePreconditions(t *testing.T) {
	_, err := pricing.Nudge(-2, 100, offer.Bundle{GroupPrice: 180, GroupSize: 2}, nil)
	require.ErrorIs(t, err, pricing.ErrNegativeQuantity)

	_, err = pricing.Nudge(2, -1, offer.Bundle{GroupPrice: 180, GroupSize: 2}, nil)
	require.ErrorIs(t, err, pricing.ErrNegativeUnitPrice)
}

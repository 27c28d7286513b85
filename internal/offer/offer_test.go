package offer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arvella/backend-parfum/internal/offer"
)

func TestParseBundle(t *testing.T) {
	cases := []struct {
		input string
		want  offer.Bundle
	}{
		{"180 for 2", offer.Bundle{GroupPrice: 180, GroupSize: 2}},
		{"  180 FOR 2  ", offer.Bundle{GroupPrice: 180, GroupSize: 2}},
		{"$450 for 3", offer.Bundle{GroupPrice: 450, GroupSize: 3}},
		{"Rp 25000 for 2", offer.Bundle{GroupPrice: 25000, GroupSize: 2}},
	}
	for _, tc := range cases {
		got := offer.Parse(tc.input)
		require.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestParsePercent(t *testing.T) {
	require.Equal(t, offer.PercentOff{Percent: 50}, offer.Parse("50% off"))
	require.Equal(t, offer.PercentOff{Percent: 50}, offer.Parse("50%"))
	require.Equal(t, offer.PercentOff{Percent: 15}, offer.Parse("15 % OFF"))
	// The grammar accepts values above 100; rejecting them is the calculator's job.
	require.Equal(t, offer.PercentOff{Percent: 120}, offer.Parse("120% off"))
}

func TestParseCombo(t *testing.T) {
	require.Equal(t, offer.ComboFixed{UnitPrice: 399}, offer.Parse("399 combo"))
	require.Equal(t, offer.ComboFixed{UnitPrice: 399}, offer.Parse("$399 Combo"))
}

func TestParseUnrecognized(t *testing.T) {
	inputs := []string{
		"",
		"buy 3 get 1 free",
		"180 for 0",
		"for 2",
		"combo 399",
		"50 percent off",
		"180for2",
	}
	for _, in := range inputs {
		got := offer.Parse(in)
		require.Equal(t, offer.Unrecognized{Original: in}, got, "input %q", in)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	inputs := []string{"180 for 2", "50% off", "399 combo", "mystery deal"}
	for _, in := range inputs {
		first := offer.Parse(in)
		for i := 0; i < 3; i++ {
			require.Equal(t, first, offer.Parse(in))
		}
	}
}

func TestKindLabels(t *testing.T) {
	require.Equal(t, "bundle", offer.Kind(offer.Parse("180 for 2")))
	require.Equal(t, "percent", offer.Kind(offer.Parse("10% off")))
	require.Equal(t, "combo", offer.Kind(offer.Parse("399 combo")))
	require.Equal(t, "none", offer.Kind(offer.Parse("two for one")))
}

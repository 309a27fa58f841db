package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Layouts(t *testing.T) {
	cfg := Config{}

	want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2025-03-15",
		"03/15/2025",
		"2025/03/15",
		"Mar 15, 2025",
		"March 15, 2025",
		"15 Mar 2025",
	} {
		got, err := Date(cfg, in)
		require.NoError(t, err, in)
		require.NotNil(t, got, in)
		assert.True(t, got.Equal(want), "%s: got %v", in, got)
	}
}

func TestDate_Empty(t *testing.T) {
	got, err := Date(Config{}, "  ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDate_Unparsable(t *testing.T) {
	got, err := Date(Config{}, "next Tuesday")
	assert.Nil(t, got)

	var nErr *Error
	require.ErrorAs(t, err, &nErr)
	assert.Equal(t, "date", nErr.Field)
	assert.Equal(t, "next Tuesday", nErr.Value)
}

func TestDate_ExtraLayouts(t *testing.T) {
	cfg := Config{ExtraDateLayouts: []string{"02.01.2006"}}
	got, err := Date(cfg, "15.03.2025")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), *got)
}

func TestMoney(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1234.56", 1234.56},
		{"$1,234.56", 1234.56},
		{"USD 500", 500},
		{"€99.99", 99.99},
		{"(250.00)", -250},
		{"-42.5", -42.5},
	}
	for _, tc := range cases {
		got, err := Money(Config{}, tc.in)
		require.NoError(t, err, tc.in)
		require.NotNil(t, got, tc.in)
		assert.InDelta(t, tc.want, *got, 1e-9, tc.in)
	}
}

func TestMoney_Empty(t *testing.T) {
	got, err := Money(Config{}, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMoney_Unparsable(t *testing.T) {
	got, err := Money(Config{}, "twelve dollars")
	assert.Nil(t, got)

	var nErr *Error
	require.ErrorAs(t, err, &nErr)
	assert.Equal(t, "money", nErr.Field)
	assert.Equal(t, "twelve dollars", nErr.Value)
}

func TestQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"10", 10},
		{"2,500", 2500},
		{"10 each", 10},
		{"2,500 pcs", 2500},
		{"0.5", 0.5},
	}
	for _, tc := range cases {
		got, err := Quantity(Config{}, tc.in)
		require.NoError(t, err, tc.in)
		require.NotNil(t, got, tc.in)
		assert.InDelta(t, tc.want, *got, 1e-9, tc.in)
	}
}

func TestQuantity_Unparsable(t *testing.T) {
	got, err := Quantity(Config{}, "a few")
	assert.Nil(t, got)
	require.Error(t, err)
}

func TestCurrency(t *testing.T) {
	got, err := Currency("usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", got)

	got, err = Currency("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Currency("DOLLARS")
	require.Error(t, err)
}

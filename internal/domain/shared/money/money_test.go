package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesCurrency(t *testing.T) {
	_, err := New(10, "EURO")
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	m, err := New(10, "eur")
	require.NoError(t, err)
	assert.Equal(t, "EUR", m.Currency)
}

func TestAddAndSubEnforceCurrency(t *testing.T) {
	a := EUR(100)
	b := Must(50, "USD")

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	sum, err := a.Add(EUR(25))
	require.NoError(t, err)
	assert.Equal(t, int64(125), sum.Amount)

	diff, err := a.Sub(EUR(30))
	require.NoError(t, err)
	assert.Equal(t, int64(70), diff.Amount)
}

func TestPercentRoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		pct    float64
		want   int64
	}{
		{"27.5 of 500", 500, 27.5, 138},
		{"30 of 362", 362, 30, 109},
		{"zero pct", 500, 0, 0},
		{"full", 500, 100, 500},
		{"12.5 of 620", 620, 12.5, 78},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EUR(tc.amount).Percent(tc.pct)
			assert.Equal(t, tc.want, got.Amount)
			assert.Equal(t, "EUR", got.Currency)
		})
	}
}

func TestStringFormatting(t *testing.T) {
	assert.Equal(t, "€362", EUR(362).String())
	assert.Equal(t, "50 USD", Must(50, "USD").String())
}

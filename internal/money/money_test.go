package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-api/internal/money"
)

func TestRound2_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"exact halfway rounds up", "0.125", "0.13"},
		{"negative halfway rounds away from zero", "-0.125", "-0.13"},
		{"below halfway rounds down", "6.1725", "6.17"},
		{"above halfway rounds up", "6.1751", "6.18"},
		{"already two places unchanged", "11.70", "11.7"},
		{"integer unchanged", "130", "130"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := money.MustFromString(tt.input)
			want := money.MustFromString(tt.expected)
			got := money.Round2(d)
			assert.True(t, want.Equal(got), "expected %s, got %s", want, got)
		})
	}
}

func TestSum_Exact(t *testing.T) {
	values := []decimal.Decimal{
		money.MustFromString("0.10"),
		money.MustFromString("0.20"),
		money.MustFromString("0.30"),
	}

	// Binary floating point would drift here; decimals must not.
	sum := money.Sum(values)
	assert.True(t, sum.Equal(money.MustFromString("0.60")), "got %s", sum)
}

func TestSum_Empty(t *testing.T) {
	assert.True(t, money.Sum(nil).IsZero())
}

func TestFromString_Invalid(t *testing.T) {
	_, err := money.FromString("not-a-number")
	require.Error(t, err)
}

func TestSignHelpers(t *testing.T) {
	assert.True(t, money.IsNegative(money.MustFromString("-0.01")))
	assert.False(t, money.IsNegative(money.Zero))
	assert.True(t, money.IsNonNegative(money.Zero))
	assert.True(t, money.IsNonNegative(money.FromInt(5)))
	assert.False(t, money.IsNonNegative(money.MustFromString("-5")))
}

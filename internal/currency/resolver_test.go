package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestIsSupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want bool
	}{
		{"USD", true},
		{"usd", true},
		{" eur ", true},
		{"MMK", true},
		{"KZT", true},
		{"XXX", false},
		{"", false},
		{"US", false},
		{"DOLLARS", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, IsSupported(tt.code))
		})
	}
}

func TestSupportedSetCoverage(t *testing.T) {
	t.Parallel()

	codes := Codes()
	require.GreaterOrEqual(t, len(codes), 50)

	// One representative per region.
	for _, code := range []string{"BRL", "EUR", "JPY", "AED", "ZAR", "KZT"} {
		require.True(t, IsSupported(code), "expected %s to be supported", code)
	}
}

func TestSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want string
	}{
		{"USD", "$"},
		{"EUR", "€"},
		{"GBP", "£"},
		{"SGD", "S$"},
		{"sgd", "S$"},
		{"XXX", "XXX"}, // unknown codes come back unchanged
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Symbol(tt.code))
		})
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "US Dollar", Name("USD"))
	require.Equal(t, "Japanese Yen", Name("jpy"))
	require.Equal(t, "XXX", Name("XXX"))
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount decimal.Decimal
		code   string
		want   string
	}{
		{"two decimals by default", decimal.NewFromFloat(12.5), "USD", "$12.50"},
		{"euro", decimal.NewFromFloat(9.99), "EUR", "€9.99"},
		{"zero-decimal currency", decimal.NewFromInt(1500), "JPY", "¥1500"},
		{"zero-decimal rounds", decimal.NewFromFloat(1500.4), "KRW", "₩1500"},
		{"unknown code falls back to the code itself", decimal.NewFromFloat(3.1), "XXX", "XXX3.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Format(tt.amount, tt.code))
		})
	}
}

func TestFromSymbol(t *testing.T) {
	t.Parallel()

	require.Equal(t, "USD", FromSymbol("$"))
	require.Equal(t, "EUR", FromSymbol("€"))
	require.Equal(t, "SGD", FromSymbol("S$"))
	require.Equal(t, "MYR", FromSymbol("RM"))
	require.Equal(t, "", FromSymbol("??"))
	require.Equal(t, "", FromSymbol(""))
}

func TestGuessFromHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		merchant string
		want     string
	}{
		{"Autohaus Müller GmbH", "EUR"},
		{"Tesco Ltd", "GBP"},
		{"Kopitiam Pte", "SGD"},
		{"Acme LLC", "USD"},
		{"Plain Corner Shop", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.merchant, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, GuessFromHints(tt.merchant))
		})
	}
}

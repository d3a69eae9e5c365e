package importer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arpithpm/expense-manager-sub001/internal/currency"
	"github.com/arpithpm/expense-manager-sub001/internal/models"
)

func TestParseDocument(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"expenses": [
			{
				"id": "rec-1",
				"date": "2024-01-15",
				"merchant": "Corner Grocery",
				"amount": 12.85,
				"currency": "USD",
				"category": "Groceries",
				"paymentMethod": "Credit Card",
				"subtotal": 11.83,
				"taxAmount": 1.02,
				"items": [{"name": "Rice", "quantity": 1, "totalPrice": 8.40}],
				"confidence": 0.92
			},
			{
				"date": "2024-01-16T09:30:00Z",
				"merchant": "Gas Station",
				"amount": "40.00",
				"currency": "USD",
				"category": "Transportation"
			}
		]
	}`)

	doc, err := ParseDocument(data)
	require.NoError(t, err)
	require.Len(t, doc.Candidates, 2)
	require.Empty(t, doc.Rejected)

	first := doc.Candidates[0]
	require.Equal(t, "rec-1", first.ID)
	require.Equal(t, "Corner Grocery", first.Merchant)
	require.NotNil(t, first.Subtotal)
	require.Len(t, first.Items, 1)
	require.InDelta(t, 0.92, first.Confidence, 1e-9)

	// Records without an id get a generated one.
	second := doc.Candidates[1]
	require.NotEmpty(t, second.ID)
	require.Equal(t, 2024, second.Date.Year())
}

func TestParseDocument_UnreadableDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"not json", "this is not a document"},
		{"empty input", ""},
		{"wrong top-level type", `[1, 2, 3]`},
		{"missing expenses key", `{"records": []}`},
		{"expenses not an array", `{"expenses": "nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := ParseDocument([]byte(tt.data))
			require.Nil(t, doc)

			var importErr *ImportError
			require.ErrorAs(t, err, &importErr)
			require.Contains(t, err.Error(), "import document unreadable")
		})
	}
}

func TestParseDocument_EmptyExpensesArray(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`{"expenses": []}`))
	require.NoError(t, err)
	require.Empty(t, doc.Candidates)
	require.Empty(t, doc.Rejected)
}

func TestParseDocument_CurrencyResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		merchant       string
		currency       string
		wantCurrency   string
		wantCorrection bool
		wantOriginal   *string
	}{
		{"supported code passes through", "Corner Shop", `"USD"`, "USD", false, nil},
		{"lowercase code is normalized", "Corner Shop", `"usd"`, "USD", false, nil},
		{"padded code is normalized", "Corner Shop", `" eur "`, "EUR", false, nil},
		{"unsupported code gets default", "Corner Shop", `"ZZZ"`, "USD", true, strPtr("ZZZ")},
		{"unsupported code with locale hint", "Acme GmbH", `"ZZZ"`, "EUR", true, strPtr("ZZZ")},
		{"absent currency gets default", "Corner Shop", `""`, "USD", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := fmt.Sprintf(`{"expenses": [
				{"date": "2024-05-01", "merchant": %q, "amount": 10.00, "currency": %s, "category": "Other"}
			]}`, tt.merchant, tt.currency)

			doc, err := ParseDocument([]byte(data))
			require.NoError(t, err)
			require.Len(t, doc.Candidates, 1)

			candidate := doc.Candidates[0]
			require.Equal(t, tt.wantCurrency, candidate.Currency)
			require.True(t, currency.IsSupported(candidate.Currency))

			if !tt.wantCorrection {
				require.Empty(t, candidate.Corrections)
				return
			}
			require.Len(t, candidate.Corrections, 1)
			c := candidate.Corrections[0]
			require.Equal(t, models.CorrectionFieldCurrency, c.Field)
			require.Equal(t, tt.wantOriginal, c.OriginalValue)
			require.Equal(t, tt.wantCurrency, c.CorrectedValue)
			require.NotEmpty(t, c.Reason)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestParseDocument_BadRecordsDoNotAbortBatch(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"expenses": [
			{"date": "2024-01-15", "merchant": "Good Shop", "amount": 5.00, "currency": "USD", "category": "Other"},
			{"date": "2024-01-15", "merchant": "Bad Amount", "amount": "abc", "currency": "USD", "category": "Other"},
			{"date": "not a date", "merchant": "Bad Date", "amount": 5.00, "currency": "USD", "category": "Other"},
			{"date": "2024-01-17", "merchant": "Also Good", "amount": 7.50, "currency": "USD", "category": "Other"}
		]
	}`)

	doc, err := ParseDocument(data)
	require.NoError(t, err)
	require.Len(t, doc.Candidates, 2)
	require.Equal(t, "Good Shop", doc.Candidates[0].Merchant)
	require.Equal(t, "Also Good", doc.Candidates[1].Merchant)

	require.Len(t, doc.Rejected, 2)
	require.Contains(t, doc.Rejected[0], "record 2")
	require.Contains(t, doc.Rejected[1], "record 3")
}

package parser

import (
	"testing"

	"github.com/shopspring/decimal"
)

func FuzzParse(f *testing.F) {
	// Valid JSON responses.
	f.Add(`{"date": "2024-01-15", "merchant": "Coffee Shop", "amount": 5.50, "currency": "USD", "category": "Food & Dining", "confidence": 0.95}`)
	f.Add(`{"date": "2024-01-15", "merchant": "Shop", "amount": "10", "currency": "EUR", "category": "Other", "confidence": 0.5}`)

	// Markdown-wrapped (common LLM output).
	f.Add("```json\n{\"date\": \"2024-01-15\", \"merchant\": \"Shop\", \"amount\": 10, \"currency\": \"USD\", \"category\": \"Other\", \"confidence\": 0.9}\n```")
	f.Add("```\n{\"amount\": 5.50}\n```")

	// Truncated at various points.
	f.Add(`{"date": "2024-01-15", "merchant": "Shop", "amount": 10, "currency": "USD", "category": "Other", "confidence": 0.9, "items": [{"name": "Rice",`)
	f.Add(`{"date": "2024-01-15", "merchant": "Shop", "amount": 10, "currency":`)
	f.Add(`{"date": "2024-01-15", "merchant": "Sho`)
	f.Add(`{"mer`)
	f.Add(`[`)
	f.Add(`{`)

	// Invalid/edge cases.
	f.Add(`{"amount": "abc"}`)
	f.Add(`{}`)
	f.Add(`not json`)
	f.Add(``)
	f.Add(`   `)
	f.Add(`{"amount": -5.00, "merchant": "Shop"}`)
	f.Add(`{"amount": 999999999999.99, "merchant": "Big"}`)
	f.Add(`{"confidence": 7.5, "merchant": "Shop", "amount": 1, "date": "2024-01-01", "currency": "USD", "category": "Other"}`)

	// Plain-text receipts for the heuristic path.
	f.Add("Merchant: Blue Bottle Coffee\nTotal: $14.25")
	f.Add("RM12.00 nasi lemak at Corner Stall on 2024-02-01")

	// Unicode.
	f.Add(`{"date": "2024-01-15", "merchant": "コーヒー", "amount": 5.50, "currency": "JPY", "category": "Food & Dining", "confidence": 0.8}`)
	f.Add(`{"date": "2024-01-15", "merchant": "Café ☕", "amount": 5.50, "currency": "EUR", "category": "Food & Dining", "confidence": 0.8}`)

	f.Fuzz(func(t *testing.T, input string) {
		result, err := Parse(input)

		if err == nil && result != nil {
			// Invariant 1: a successful parse always carries a non-zero
			// amount. Sign checks belong to record validation.
			if result.Amount.Equal(decimal.Zero) {
				t.Errorf("Parse(%q) returned zero amount: %v", input, result.Amount)
			}
			// Invariant 2: merchant is never empty on success.
			if result.Merchant == "" {
				t.Errorf("Parse(%q) returned empty merchant", input)
			}
			// Invariant 3: confidence stays in [0, 1].
			if result.Confidence < 0 || result.Confidence > 1 {
				t.Errorf("Parse(%q) returned confidence out of range: %v", input, result.Confidence)
			}
			// Invariant 4: category is always set, by parse or by fallback default.
			if result.Category == "" {
				t.Errorf("Parse(%q) returned empty category", input)
			}
		}
	})
}

package importer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/arpithpm/expense-manager-sub001/internal/currency"
	"github.com/arpithpm/expense-manager-sub001/internal/models"
)

// ImportError is an aggregate-level failure: the import document itself
// cannot be read as structured data, so no candidates can be extracted.
// It aborts the whole batch, unlike per-record problems.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return "import document unreadable: " + e.Err.Error()
}

func (e *ImportError) Unwrap() error { return e.Err }

// Document is a parsed bulk import document: the decodable candidates
// plus per-record decode failures. A record that cannot even be decoded
// is reported and excluded without aborting the batch.
type Document struct {
	Candidates []models.ExpenseRecord
	Rejected   []string
}

// candidateRecord is the wire shape of one bulk-import entry. Dates
// travel as strings and ids are optional.
type candidateRecord struct {
	ID            string                  `json:"id"`
	Date          string                  `json:"date"`
	Merchant      string                  `json:"merchant"`
	Amount        decimal.Decimal         `json:"amount"`
	Currency      string                  `json:"currency"`
	Category      string                  `json:"category"`
	Description   string                  `json:"description"`
	PaymentMethod string                  `json:"paymentMethod"`
	Items         []models.ExtractionItem `json:"items"`
	Subtotal      *decimal.Decimal        `json:"subtotal"`
	Discounts     *decimal.Decimal        `json:"discounts"`
	Fees          *decimal.Decimal        `json:"fees"`
	Tip           *decimal.Decimal        `json:"tip"`
	TaxAmount     *decimal.Decimal        `json:"taxAmount"`
	ItemsTotal    *decimal.Decimal        `json:"itemsTotal"`
	Confidence    float64                 `json:"confidence"`
}

// ParseDocument reads a bulk import document of the form
// {"expenses": [...]}. A document that is not structured data at all
// returns an *ImportError; individual undecodable records land in
// Rejected and the rest of the batch survives.
func ParseDocument(data []byte) (*Document, error) {
	var envelope struct {
		Expenses []json.RawMessage `json:"expenses"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &ImportError{Err: err}
	}
	if envelope.Expenses == nil {
		return nil, &ImportError{Err: errors.New(`missing "expenses" array`)}
	}

	doc := &Document{}
	for i, raw := range envelope.Expenses {
		var wire candidateRecord
		if err := json.Unmarshal(raw, &wire); err != nil {
			doc.Rejected = append(doc.Rejected, fmt.Sprintf("record %d: %v", i+1, err))
			continue
		}

		date, err := models.ParseDate(wire.Date)
		if err != nil {
			doc.Rejected = append(doc.Rejected, fmt.Sprintf("record %d: %v", i+1, err))
			continue
		}

		id := wire.ID
		if id == "" {
			id = models.NewRecordID()
		}

		candidate := models.ExpenseRecord{
			ID:            id,
			Date:          date,
			Merchant:      wire.Merchant,
			Amount:        wire.Amount,
			Category:      wire.Category,
			Description:   wire.Description,
			PaymentMethod: wire.PaymentMethod,
			Items:         wire.Items,
			Subtotal:      wire.Subtotal,
			Discounts:     wire.Discounts,
			Fees:          wire.Fees,
			Tip:           wire.Tip,
			TaxAmount:     wire.TaxAmount,
			ItemsTotal:    wire.ItemsTotal,
			Confidence:    wire.Confidence,
		}
		resolveCurrency(&candidate, wire.Currency)
		doc.Candidates = append(doc.Candidates, candidate)
	}

	return doc, nil
}

// resolveCurrency normalizes a candidate's currency and substitutes a
// supported code when the document carries none or an unsupported one.
// Only records with supported codes may enter storage, and every
// substitution is audited, matching single-receipt extraction.
func resolveCurrency(rec *models.ExpenseRecord, raw string) {
	code := currency.Normalize(raw)
	if currency.IsSupported(code) {
		rec.Currency = code
		return
	}

	if code == "" {
		rec.Currency = models.DefaultCurrency
		rec.AddCorrection(models.CorrectionFieldCurrency, nil, models.DefaultCurrency,
			"currency absent, default substituted", rec.Confidence)
		return
	}

	original := raw
	corrected := models.DefaultCurrency
	reason := "unsupported currency, default substituted"
	if guessed := currency.GuessFromHints(rec.Merchant); guessed != "" {
		corrected = guessed
		reason = "unsupported currency, merchant locale suggests " + guessed
	}

	rec.Currency = corrected
	rec.AddCorrection(models.CorrectionFieldCurrency, &original, corrected, reason, rec.Confidence)
}

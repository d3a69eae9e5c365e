// Package models defines the domain entities for the expense manager.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency substituted when extraction yields none.
const DefaultCurrency = "USD"

// DateLayout is the canonical date format used on the wire.
const DateLayout = "2006-01-02"

// CorrectionField identifies which field an automatic correction touched.
type CorrectionField string

// Correction field values.
const (
	CorrectionFieldDate     CorrectionField = "date"
	CorrectionFieldCurrency CorrectionField = "currency"
	CorrectionFieldMerchant CorrectionField = "merchant"
	CorrectionFieldAmount   CorrectionField = "amount"
	CorrectionFieldCategory CorrectionField = "category"
)

// Correction is an immutable audit entry for an automatic fix applied
// during parsing or validation. Entries are append-only.
type Correction struct {
	Field          CorrectionField `json:"field"`
	OriginalValue  *string         `json:"originalValue,omitempty"`
	CorrectedValue string          `json:"correctedValue"`
	Reason         string          `json:"reason"`
	Confidence     float64         `json:"confidence"`
	Timestamp      time.Time       `json:"timestamp"`
}

// ExtractionItem is a single line item extracted from a receipt.
type ExtractionItem struct {
	Name        string           `json:"name"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
	TotalPrice  decimal.Decimal  `json:"totalPrice"`
	Category    string           `json:"category,omitempty"`
	Description string           `json:"description,omitempty"`
}

// ExtractionResult is the structured output of parsing one raw extraction
// response. It is not yet validated: Date is a raw string and Currency may
// be absent or unsupported. Optional monetary fields are pointers so that
// "absent" and "zero" stay distinguishable.
type ExtractionResult struct {
	Date          string           `json:"date"`
	Merchant      string           `json:"merchant"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	Category      string           `json:"category"`
	Description   string           `json:"description,omitempty"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	Items         []ExtractionItem `json:"items,omitempty"`
	Subtotal      *decimal.Decimal `json:"subtotal,omitempty"`
	Discounts     *decimal.Decimal `json:"discounts,omitempty"`
	Fees          *decimal.Decimal `json:"fees,omitempty"`
	Tip           *decimal.Decimal `json:"tip,omitempty"`
	TaxAmount     *decimal.Decimal `json:"taxAmount,omitempty"`
	ItemsTotal    *decimal.Decimal `json:"itemsTotal,omitempty"`
	Confidence    float64          `json:"confidence"`
	Corrections   []Correction     `json:"corrections,omitempty"`
}

// HasBreakdown returns true if any financial breakdown field is present.
func (r *ExtractionResult) HasBreakdown() bool {
	return r.Subtotal != nil || r.Discounts != nil || r.Fees != nil ||
		r.Tip != nil || r.TaxAmount != nil || r.ItemsTotal != nil
}

// AddCorrection appends an audit entry to the result.
func (r *ExtractionResult) AddCorrection(field CorrectionField, original *string, corrected, reason string, confidence float64) {
	r.Corrections = append(r.Corrections, Correction{
		Field:          field,
		OriginalValue:  original,
		CorrectedValue: corrected,
		Reason:         reason,
		Confidence:     confidence,
		Timestamp:      time.Now().UTC(),
	})
}

// ExpenseRecord is the canonical validated entity handed to storage.
type ExpenseRecord struct {
	ID            string           `json:"id"`
	Date          time.Time        `json:"date"`
	Merchant      string           `json:"merchant"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	Category      string           `json:"category"`
	Description   string           `json:"description,omitempty"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	Items         []ExtractionItem `json:"items,omitempty"`
	Subtotal      *decimal.Decimal `json:"subtotal,omitempty"`
	Discounts     *decimal.Decimal `json:"discounts,omitempty"`
	Fees          *decimal.Decimal `json:"fees,omitempty"`
	Tip           *decimal.Decimal `json:"tip,omitempty"`
	TaxAmount     *decimal.Decimal `json:"taxAmount,omitempty"`
	ItemsTotal    *decimal.Decimal `json:"itemsTotal,omitempty"`
	Confidence    float64          `json:"confidence,omitempty"`
	Corrections   []Correction     `json:"corrections,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// AddCorrection appends an audit entry to the record.
func (e *ExpenseRecord) AddCorrection(field CorrectionField, original *string, corrected, reason string, confidence float64) {
	e.Corrections = append(e.Corrections, Correction{
		Field:          field,
		OriginalValue:  original,
		CorrectedValue: corrected,
		Reason:         reason,
		Confidence:     confidence,
		Timestamp:      time.Now().UTC(),
	})
}

// HasBreakdown returns true if any financial breakdown field is present.
func (e *ExpenseRecord) HasBreakdown() bool {
	return e.Subtotal != nil || e.Discounts != nil || e.Fees != nil ||
		e.Tip != nil || e.TaxAmount != nil || e.ItemsTotal != nil
}

// NewRecordID generates an opaque record identifier.
func NewRecordID() string {
	return uuid.NewString()
}

// dateLayouts are the formats accepted when promoting a raw date string.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// ParseDate parses a raw extraction date string.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// NewRecordFromExtraction promotes a validated ExtractionResult into an
// ExpenseRecord. The result's date must already be parseable; the
// financial validator guarantees this for anything it returns.
func NewRecordFromExtraction(r *ExtractionResult, now time.Time) (*ExpenseRecord, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("promote extraction: %w", err)
	}

	return &ExpenseRecord{
		ID:            NewRecordID(),
		Date:          date,
		Merchant:      r.Merchant,
		Amount:        r.Amount,
		Currency:      r.Currency,
		Category:      r.Category,
		Description:   r.Description,
		PaymentMethod: r.PaymentMethod,
		Items:         r.Items,
		Subtotal:      r.Subtotal,
		Discounts:     r.Discounts,
		Fees:          r.Fees,
		Tip:           r.Tip,
		TaxAmount:     r.TaxAmount,
		ItemsTotal:    r.ItemsTotal,
		Confidence:    r.Confidence,
		Corrections:   r.Corrections,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// DateRange is the inclusive earliest/latest span of a record batch.
type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// ImportSummary is a read-only aggregate over a sequence of records,
// computable without merge side effects. Used for pre-import preview.
type ImportSummary struct {
	TotalExpenses         int             `json:"totalExpenses"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	Categories            []string        `json:"categories"`
	Currencies            []string        `json:"currencies"`
	DateRange             *DateRange      `json:"dateRange,omitempty"`
	HasItems              bool            `json:"hasItems"`
	HasFinancialBreakdown bool            `json:"hasFinancialBreakdown"`
}

// ImportResult is the outcome of merging a batch of candidates into the
// existing collection.
type ImportResult struct {
	ImportedCount  int           `json:"importedCount"`
	DuplicateCount int           `json:"duplicateCount"`
	SkippedCount   int           `json:"skippedCount"`
	Errors         []string      `json:"errors,omitempty"`
	Summary        ImportSummary `json:"summary"`
}

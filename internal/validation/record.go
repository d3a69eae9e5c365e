package validation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arpithpm/expense-manager-sub001/internal/models"
)

// Stable violation messages. Callers and tests match on these substrings.
const (
	MsgInvalidAmount = "Invalid amount"
	MsgEmptyMerchant = "Empty merchant"
	MsgFutureDate    = "Future date"
)

// RecordValidator enforces the hard domain invariants a candidate record
// must satisfy before storage. Used identically for single entries and
// for each element of a bulk import batch.
type RecordValidator struct {
	now func() time.Time
}

// NewRecordValidator creates a validator using the real clock.
func NewRecordValidator() *RecordValidator {
	return &RecordValidator{now: time.Now}
}

// NewRecordValidatorAt creates a validator with an injected clock.
func NewRecordValidatorAt(now func() time.Time) *RecordValidator {
	if now == nil {
		now = time.Now
	}
	return &RecordValidator{now: now}
}

// Validate returns every violation for the candidate; an empty slice
// means the record may enter storage. Violations are additive: one
// candidate can report several.
func (v *RecordValidator) Validate(rec *models.ExpenseRecord) []string {
	var violations []string

	if rec.Amount.LessThanOrEqual(decimal.Zero) {
		violations = append(violations, MsgInvalidAmount)
	}
	if strings.TrimSpace(rec.Merchant) == "" {
		violations = append(violations, MsgEmptyMerchant)
	}
	if rec.Date.After(v.now()) {
		violations = append(violations, MsgFutureDate)
	}

	return violations
}

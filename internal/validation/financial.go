// Package validation checks and repairs extraction results before they
// become expense records. The financial validator never fails: it returns
// a best-effort corrected result with an honest confidence and an audit
// trail. The record validator is the hard gate in front of storage.
package validation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/arpithpm/expense-manager-sub001/internal/currency"
	"github.com/arpithpm/expense-manager-sub001/internal/logger"
	"github.com/arpithpm/expense-manager-sub001/internal/models"
)

// Default tolerance for breakdown reconciliation: the larger of an
// absolute floor and a fraction of the total wins. Observed rounding on
// real receipts makes anything tighter too noisy.
var (
	DefaultAbsoluteTolerance = decimal.NewFromFloat(0.02)
	DefaultRelativeTolerance = decimal.NewFromFloat(0.01)
)

// Confidence penalty factors applied per correction kind. Corrections
// only ever lower trust.
const (
	datePenalty            = 0.90
	currencyDefaultPenalty = 0.90
	currencyGuessPenalty   = 0.85
)

// FinancialOptions configures a FinancialValidator. Zero values select
// the documented defaults.
type FinancialOptions struct {
	DefaultCurrency   string
	AbsoluteTolerance decimal.Decimal
	RelativeTolerance decimal.Decimal
	Now               func() time.Time
}

// FinancialValidator reconciles the monetary fields of an
// ExtractionResult and applies bounded auto-corrections.
type FinancialValidator struct {
	defaultCurrency string
	absTolerance    decimal.Decimal
	relTolerance    decimal.Decimal
	now             func() time.Time
}

// NewFinancialValidator creates a validator with the given options.
func NewFinancialValidator(opts FinancialOptions) *FinancialValidator {
	v := &FinancialValidator{
		defaultCurrency: opts.DefaultCurrency,
		absTolerance:    opts.AbsoluteTolerance,
		relTolerance:    opts.RelativeTolerance,
		now:             opts.Now,
	}
	if v.defaultCurrency == "" {
		v.defaultCurrency = models.DefaultCurrency
	}
	if v.absTolerance.IsZero() {
		v.absTolerance = DefaultAbsoluteTolerance
	}
	if v.relTolerance.IsZero() {
		v.relTolerance = DefaultRelativeTolerance
	}
	if v.now == nil {
		v.now = time.Now
	}
	return v
}

// Validate corrects the date and currency, reconciles the financial
// breakdown against the total, and adjusts confidence. It always returns
// a usable result; the output confidence never exceeds the input one.
func (v *FinancialValidator) Validate(r *models.ExtractionResult) *models.ExtractionResult {
	v.correctDate(r)
	v.correctCurrency(r)
	v.checkBreakdown(r)
	v.checkItemsTotal(r)

	if r.Confidence < 0 {
		r.Confidence = 0
	}
	return r
}

func (v *FinancialValidator) correctDate(r *models.ExtractionResult) {
	if _, err := models.ParseDate(r.Date); err == nil {
		return
	}

	var original *string
	if r.Date != "" {
		raw := r.Date
		original = &raw
	}

	today := v.now().Format(models.DateLayout)
	r.Date = today
	r.Confidence *= datePenalty
	r.AddCorrection(models.CorrectionFieldDate, original, today,
		"date unparseable or absent", r.Confidence)
}

func (v *FinancialValidator) correctCurrency(r *models.ExtractionResult) {
	code := currency.Normalize(r.Currency)
	if currency.IsSupported(code) {
		r.Currency = code
		return
	}

	if code == "" {
		r.Currency = v.defaultCurrency
		r.Confidence *= currencyDefaultPenalty
		r.AddCorrection(models.CorrectionFieldCurrency, nil, v.defaultCurrency,
			"currency absent, default substituted", r.Confidence)
		return
	}

	// Unsupported code: try contextual signals before falling back to the
	// default. Either way the substitution is logged, never silent.
	original := r.Currency
	guessed := currency.GuessFromHints(r.Merchant)
	reason := "unsupported currency, default substituted"
	corrected := v.defaultCurrency
	if guessed != "" {
		corrected = guessed
		reason = "unsupported currency, merchant locale suggests " + guessed
	}

	r.Currency = corrected
	r.Confidence *= currencyGuessPenalty
	r.AddCorrection(models.CorrectionFieldCurrency, &original, corrected, reason, r.Confidence)

	logger.Log.Debug().
		Str("original", original).
		Str("corrected", corrected).
		Str("merchant", logger.HashMerchant(r.Merchant)).
		Msg("Overrode unsupported currency")
}

// tolerance returns max(absolute, relative * amount).
func (v *FinancialValidator) tolerance(amount decimal.Decimal) decimal.Decimal {
	rel := v.relTolerance.Mul(amount.Abs())
	if rel.GreaterThan(v.absTolerance) {
		return rel
	}
	return v.absTolerance
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// checkBreakdown compares subtotal + tax + fees + tip - discounts against
// the stated total. A mismatch beyond tolerance never adjusts the amount;
// both values stay intact for caller inspection and the confidence drops
// in proportion to the relative deviation.
func (v *FinancialValidator) checkBreakdown(r *models.ExtractionResult) {
	if !r.HasBreakdown() {
		return
	}

	base := decimal.Zero
	switch {
	case r.Subtotal != nil:
		base = *r.Subtotal
	case r.ItemsTotal != nil:
		base = *r.ItemsTotal
	}

	calculated := base.
		Add(orZero(r.TaxAmount)).
		Add(orZero(r.Fees)).
		Add(orZero(r.Tip)).
		Sub(orZero(r.Discounts))

	deviation := calculated.Sub(r.Amount).Abs()
	if deviation.LessThanOrEqual(v.tolerance(r.Amount)) {
		return
	}

	relDeviation := 1.0
	if !r.Amount.IsZero() {
		relDeviation, _ = deviation.Div(r.Amount.Abs()).Float64()
	}
	if relDeviation > 0.9 {
		relDeviation = 0.9
	}
	r.Confidence *= 1 - relDeviation

	logger.Log.Warn().
		Str("amount", r.Amount.String()).
		Str("calculated", calculated.String()).
		Str("deviation", deviation.String()).
		Float64("confidence", r.Confidence).
		Msg("Financial breakdown does not reconcile with total")
}

// checkItemsTotal verifies that the line items sum to the stated items
// total, when both are present.
func (v *FinancialValidator) checkItemsTotal(r *models.ExtractionResult) {
	if r.ItemsTotal == nil || len(r.Items) == 0 {
		return
	}

	sum := decimal.Zero
	for _, item := range r.Items {
		sum = sum.Add(item.TotalPrice)
	}

	deviation := sum.Sub(*r.ItemsTotal).Abs()
	if deviation.LessThanOrEqual(v.tolerance(*r.ItemsTotal)) {
		return
	}

	relDeviation := 1.0
	if !r.ItemsTotal.IsZero() {
		relDeviation, _ = deviation.Div(r.ItemsTotal.Abs()).Float64()
	}
	if relDeviation > 0.9 {
		relDeviation = 0.9
	}
	r.Confidence *= 1 - relDeviation

	logger.Log.Warn().
		Str("itemsTotal", r.ItemsTotal.String()).
		Str("itemsSum", sum.String()).
		Msg("Line items do not sum to itemsTotal")
}

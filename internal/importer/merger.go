// Package importer merges batches of candidate expense records into the
// existing collection, classifying each candidate as new, duplicate, or
// invalid.
package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arpithpm/expense-manager-sub001/internal/logger"
	"github.com/arpithpm/expense-manager-sub001/internal/models"
	"github.com/arpithpm/expense-manager-sub001/internal/validation"
)

// DefaultAmountEpsilon is the amount difference below which two records
// on the same day at the same merchant count as the same purchase.
var DefaultAmountEpsilon = decimal.NewFromFloat(0.01)

// Options configures a single merge run.
type Options struct {
	// AllowDuplicates disables both duplicate checks.
	AllowDuplicates bool
	// Progress, when set, receives a monotonically increasing fraction in
	// [0,1] as candidates are processed. A completed batch always ends
	// with exactly 1.0, even when the batch is empty.
	Progress func(fraction float64)
}

// Merger classifies candidates against the existing collection. It has
// no side effects; persistence belongs to the Importer.
type Merger struct {
	validator *validation.RecordValidator
	epsilon   decimal.Decimal
}

// NewMerger creates a merger with the default amount epsilon.
func NewMerger(validator *validation.RecordValidator) *Merger {
	return NewMergerWithEpsilon(validator, DefaultAmountEpsilon)
}

// NewMergerWithEpsilon creates a merger with a custom amount epsilon.
func NewMergerWithEpsilon(validator *validation.RecordValidator, epsilon decimal.Decimal) *Merger {
	if validator == nil {
		validator = validation.NewRecordValidator()
	}
	if epsilon.LessThanOrEqual(decimal.Zero) {
		epsilon = DefaultAmountEpsilon
	}
	return &Merger{validator: validator, epsilon: epsilon}
}

// Merge processes candidates in order against existing plus everything
// accepted earlier in the same batch, so a batch can contain duplicates
// of itself. It returns the result, the accepted records, and a non-nil
// error only when the context is cancelled between candidates; counts
// accumulated up to that point are still returned.
func (m *Merger) Merge(ctx context.Context, candidates, existing []models.ExpenseRecord, opts Options) (*models.ImportResult, []models.ExpenseRecord, error) {
	result := &models.ImportResult{}
	accepted := make([]models.ExpenseRecord, 0, len(candidates))

	emit := func(done int) {
		if opts.Progress == nil {
			return
		}
		if len(candidates) == 0 {
			opts.Progress(1.0)
			return
		}
		opts.Progress(float64(done) / float64(len(candidates)))
	}

	for i, candidate := range candidates {
		// Cooperative cancellation: yield only between candidates so
		// classification of a single record is never half-done.
		if err := ctx.Err(); err != nil {
			result.Summary = Summarize(accepted)
			return result, accepted, err
		}

		if violations := m.validator.Validate(&candidate); len(violations) > 0 {
			result.SkippedCount++
			for _, violation := range violations {
				result.Errors = append(result.Errors,
					fmt.Sprintf("record %d (%s): %s", i+1, candidate.Merchant, violation))
			}
			emit(i + 1)
			continue
		}

		if !opts.AllowDuplicates && m.isDuplicate(candidate, existing, accepted) {
			result.DuplicateCount++
			logger.Log.Debug().
				Str("merchant", logger.HashMerchant(candidate.Merchant)).
				Str("date", candidate.Date.Format(models.DateLayout)).
				Msg("Skipped duplicate candidate")
			emit(i + 1)
			continue
		}

		accepted = append(accepted, candidate)
		result.ImportedCount++
		emit(i + 1)
	}

	if len(candidates) == 0 {
		emit(0)
	}

	result.Summary = Summarize(accepted)
	return result, accepted, nil
}

// isDuplicate checks exact-id identity first, then similarity: same
// calendar date, case-insensitive merchant match, and amount within
// epsilon.
func (m *Merger) isDuplicate(candidate models.ExpenseRecord, existing, accepted []models.ExpenseRecord) bool {
	for _, rec := range existing {
		if rec.ID == candidate.ID {
			return true
		}
	}
	for _, rec := range accepted {
		if rec.ID == candidate.ID {
			return true
		}
	}

	for _, rec := range existing {
		if m.similar(candidate, rec) {
			return true
		}
	}
	for _, rec := range accepted {
		if m.similar(candidate, rec) {
			return true
		}
	}
	return false
}

func (m *Merger) similar(a, b models.ExpenseRecord) bool {
	if !sameDay(a.Date, b.Date) {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(a.Merchant), strings.TrimSpace(b.Merchant)) {
		return false
	}
	return a.Amount.Sub(b.Amount).Abs().LessThanOrEqual(m.epsilon)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Package pipeline wires the extraction stages end to end: raw text in,
// a storage-ready expense record out.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/arpithpm/expense-manager-sub001/internal/models"
	"github.com/arpithpm/expense-manager-sub001/internal/parser"
	"github.com/arpithpm/expense-manager-sub001/internal/validation"
)

// ValidationError reports the hard invariant violations that kept a
// candidate out of storage.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "record rejected: " + strings.Join(e.Violations, "; ")
}

// Pipeline runs parse, financial validation, promotion, and the record
// gate for single responses. It is stateless and safe to share across
// goroutines.
type Pipeline struct {
	financial *validation.FinancialValidator
	record    *validation.RecordValidator
	now       func() time.Time
}

// New creates a pipeline. Nil validators select defaults.
func New(financial *validation.FinancialValidator, record *validation.RecordValidator) *Pipeline {
	if financial == nil {
		financial = validation.NewFinancialValidator(validation.FinancialOptions{})
	}
	if record == nil {
		record = validation.NewRecordValidator()
	}
	return &Pipeline{financial: financial, record: record, now: time.Now}
}

// ParseAndValidate turns raw extraction text into a corrected
// ExtractionResult without promoting it. Parse failures propagate as
// *parser.ParseError.
func (p *Pipeline) ParseAndValidate(raw string) (*models.ExtractionResult, error) {
	result, err := parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	return p.financial.Validate(result), nil
}

// ProcessResponse runs the full path: parse, correct, promote, and gate.
// A record that fails the gate is returned alongside a *ValidationError
// so the caller can inspect what was rejected.
func (p *Pipeline) ProcessResponse(raw string) (*models.ExpenseRecord, error) {
	result, err := p.ParseAndValidate(raw)
	if err != nil {
		return nil, err
	}

	record, err := models.NewRecordFromExtraction(result, p.now())
	if err != nil {
		return nil, fmt.Errorf("promotion failed: %w", err)
	}

	if violations := p.record.Validate(record); len(violations) > 0 {
		return record, &ValidationError{Violations: violations}
	}
	return record, nil
}

// Package parser turns raw extraction-service text into a structured
// ExtractionResult. Model output is unreliable: it may be wrapped in
// markdown fences, truncated mid-token, or not JSON at all. Parsing is
// staged: strip, strict parse, one truncation repair, then a heuristic
// fallback that recovers only the required fields.
package parser

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/arpithpm/expense-manager-sub001/internal/logger"
	"github.com/arpithpm/expense-manager-sub001/internal/models"
)

// ErrKind classifies a parse failure.
type ErrKind int

// Parse failure kinds.
const (
	ErrTruncated ErrKind = iota
	ErrMalformed
	ErrUnrecoverable
)

func (k ErrKind) String() string {
	switch k {
	case ErrTruncated:
		return "truncated"
	case ErrMalformed:
		return "malformed"
	case ErrUnrecoverable:
		return "unrecoverable"
	}
	return "unknown"
}

// ParseError is returned when a raw response cannot be parsed.
type ParseError struct {
	Kind ErrKind
	Err  error
}

func (e *ParseError) Error() string {
	return "parse " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// RepairedConfidenceCap bounds confidence for responses that needed
// truncation repair before parsing.
const RepairedConfidenceCap = 0.75

// FallbackConfidenceCap bounds confidence for heuristic recovery. The
// fallback never yields more trust than a clean structural parse.
const FallbackConfidenceCap = 0.5

// fallbackDefaultConfidence is used when the raw text carries no usable
// confidence value at all.
const fallbackDefaultConfidence = 0.3

// Parse converts one raw extraction response into an ExtractionResult.
// It never panics on malformed input. Total failure is reported as a
// *ParseError: ErrTruncated when the input was cut off and neither the
// repair nor the fallback could recover it, ErrUnrecoverable otherwise.
func Parse(raw string) (*models.ExtractionResult, error) {
	stripped := stripFences(raw)
	if stripped == "" {
		return nil, &ParseError{Kind: ErrUnrecoverable, Err: errors.New("empty response")}
	}

	result, strictErr := strictParse(stripped)
	if strictErr == nil {
		return result, nil
	}

	truncated := looksTruncated(stripped)
	if truncated {
		// Repair is attempted exactly once per response.
		repaired := repairTruncation(stripped)
		if result, err := strictParse(repaired); err == nil {
			if result.Confidence > RepairedConfidenceCap {
				result.Confidence = RepairedConfidenceCap
			}
			logger.Log.Debug().Msg("Recovered truncated response via structural repair")
			return result, nil
		}
	}

	result = fallbackExtract(stripped)
	if result != nil {
		logger.Log.Debug().
			Str("merchant", logger.HashMerchant(result.Merchant)).
			Msg("Recovered required fields via heuristic fallback")
		return result, nil
	}

	if truncated {
		return nil, &ParseError{Kind: ErrTruncated, Err: errors.New("truncated beyond repair: " + strictErr.Error())}
	}
	return nil, &ParseError{Kind: ErrUnrecoverable, Err: errors.New("malformed beyond recovery: " + strictErr.Error())}
}

// stripFences removes surrounding markdown code fences and whitespace.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```json")
			s = strings.TrimPrefix(s, "```")
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

// strictParse attempts a structural parse against the expected schema.
// Missing required fields count as failure so the caller can fall back.
func strictParse(s string) (*models.ExtractionResult, error) {
	var result models.ExtractionResult
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		return nil, &ParseError{Kind: ErrMalformed, Err: err}
	}

	var missing []string
	if strings.TrimSpace(result.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(result.Merchant) == "" {
		missing = append(missing, "merchant")
	}
	if result.Amount.IsZero() {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(result.Currency) == "" {
		missing = append(missing, "currency")
	}
	if strings.TrimSpace(result.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return nil, &ParseError{
			Kind: ErrMalformed,
			Err:  errors.New("missing required fields: " + strings.Join(missing, ", ")),
		}
	}

	result.Confidence = clampConfidence(result.Confidence)
	return &result, nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/arpithpm/expense-manager-sub001/internal/currency"
	"github.com/arpithpm/expense-manager-sub001/internal/models"
)

// Heuristic patterns for recovering required fields from text that could
// not be parsed structurally. The closing quote is optional everywhere
// because truncation routinely eats it.
var (
	reAmountField   = regexp.MustCompile(`"amount"\s*:\s*"?(\d[\d,]*(?:\.\d+)?)`)
	reSymbolAmount  = regexp.MustCompile(`(S\$|NT\$|HK\$|A\$|NZ\$|R\$|RM|Rp|[$€£¥₹₩฿₫₱₽₴₺₪₦])\s?(\d[\d,]*(?:\.\d{1,2})?)`)
	reTotalLine     = regexp.MustCompile(`(?im)^\s*(?:grand\s+total|total|amount)\s*[:\-]?\s*\D{0,4}?(\d[\d,]*(?:\.\d{1,2})?)\s*$`)
	reMerchantField = regexp.MustCompile(`"merchant"\s*:\s*"([^"\n]*)"?`)
	reMerchantLine  = regexp.MustCompile(`(?im)^\s*(?:merchant|store|vendor)\s*[:\-]\s*(\S.*)$`)
	reDateField     = regexp.MustCompile(`"date"\s*:\s*"([^"\n]*)"?`)
	reDateISO       = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	reCurrencyField = regexp.MustCompile(`"currency"\s*:\s*"([A-Za-z]{3})`)
	reCategoryField = regexp.MustCompile(`"category"\s*:\s*"([^"\n]*)"?`)
	reConfidence    = regexp.MustCompile(`"confidence"\s*:\s*"?(0?\.\d+|1(?:\.0+)?|0|1)`)
	reBareCode      = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

// fallbackExtract recovers only the required top-level fields via pattern
// matching. All optional and item fields are dropped, and confidence is
// capped well below what a structural parse can report. Returns nil when
// not even the amount and merchant can be found.
func fallbackExtract(s string) *models.ExtractionResult {
	amount, symbolCurrency := extractAmount(s)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	merchant := extractMerchant(s)
	if merchant == "" {
		return nil
	}

	result := &models.ExtractionResult{
		Date:       extractDate(s),
		Merchant:   merchant,
		Amount:     amount,
		Currency:   extractCurrency(s, symbolCurrency),
		Category:   "",
		Confidence: fallbackDefaultConfidence,
	}

	if m := reConfidence.FindStringSubmatch(s); m != nil {
		if c, err := strconv.ParseFloat(m[1], 64); err == nil {
			result.Confidence = clampConfidence(c)
		}
	}
	if result.Confidence > FallbackConfidenceCap {
		result.Confidence = FallbackConfidenceCap
	}

	if m := reCategoryField.FindStringSubmatch(s); m != nil && strings.TrimSpace(m[1]) != "" {
		result.Category = strings.TrimSpace(m[1])
	} else {
		result.Category = "Other"
		result.AddCorrection(models.CorrectionFieldCategory, nil, "Other",
			"category not recoverable from degraded response", result.Confidence)
	}

	return result
}

// extractAmount finds the most credible monetary amount in the text. A
// labelled amount field wins; otherwise a currency-symbol-prefixed value
// or a total line. Also reports the currency implied by a matched symbol.
func extractAmount(s string) (decimal.Decimal, string) {
	if m := reAmountField.FindStringSubmatch(s); m != nil {
		if d, err := parseAmount(m[1]); err == nil {
			return d, ""
		}
	}
	if m := reSymbolAmount.FindStringSubmatch(s); m != nil {
		if d, err := parseAmount(m[2]); err == nil {
			return d, currency.FromSymbol(m[1])
		}
	}
	if m := reTotalLine.FindStringSubmatch(s); m != nil {
		if d, err := parseAmount(m[1]); err == nil {
			return d, ""
		}
	}
	return decimal.Zero, ""
}

func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
}

func extractMerchant(s string) string {
	if m := reMerchantField.FindStringSubmatch(s); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	if m := reMerchantLine.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractDate(s string) string {
	if m := reDateField.FindStringSubmatch(s); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	return reDateISO.FindString(s)
}

// extractCurrency prefers an explicit currency field, then the code
// implied by a matched symbol, then any supported code appearing as a
// bare token. An empty result is fine: the financial validator
// substitutes and audits a default.
func extractCurrency(s, symbolCurrency string) string {
	if m := reCurrencyField.FindStringSubmatch(s); m != nil {
		code := currency.Normalize(m[1])
		if currency.IsSupported(code) {
			return code
		}
	}
	if symbolCurrency != "" {
		return symbolCurrency
	}
	for _, token := range reBareCode.FindAllString(s, 8) {
		if currency.IsSupported(token) {
			return token
		}
	}
	return ""
}

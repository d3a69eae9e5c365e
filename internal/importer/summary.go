package importer

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/arpithpm/expense-manager-sub001/internal/models"
)

// Summarize computes a read-only aggregate over any sequence of records,
// accepted or merely proposed. It performs no merge side effects, so it
// is safe for pre-import preview against a live collection.
func Summarize(records []models.ExpenseRecord) models.ImportSummary {
	summary := models.ImportSummary{
		TotalExpenses: len(records),
		TotalAmount:   decimal.Zero,
	}

	categories := map[string]bool{}
	currencies := map[string]bool{}

	for _, rec := range records {
		summary.TotalAmount = summary.TotalAmount.Add(rec.Amount)

		if rec.Category != "" {
			categories[rec.Category] = true
		}
		if rec.Currency != "" {
			currencies[rec.Currency] = true
		}
		if len(rec.Items) > 0 {
			summary.HasItems = true
		}
		if rec.HasBreakdown() {
			summary.HasFinancialBreakdown = true
		}

		if summary.DateRange == nil {
			summary.DateRange = &models.DateRange{Earliest: rec.Date, Latest: rec.Date}
			continue
		}
		if rec.Date.Before(summary.DateRange.Earliest) {
			summary.DateRange.Earliest = rec.Date
		}
		if rec.Date.After(summary.DateRange.Latest) {
			summary.DateRange.Latest = rec.Date
		}
	}

	summary.Categories = sortedKeys(categories)
	summary.Currencies = sortedKeys(currencies)
	return summary
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

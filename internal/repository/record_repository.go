// Package repository persists expense records in PostgreSQL.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/arpithpm/expense-manager-sub001/internal/database"
	"github.com/arpithpm/expense-manager-sub001/internal/models"
	"github.com/arpithpm/expense-manager-sub001/internal/store"
)

// RecordRepository implements store.Store on top of PostgreSQL.
type RecordRepository struct {
	db database.PGXDB
}

var _ store.Store = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(db database.PGXDB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Add persists the given records.
func (r *RecordRepository) Add(ctx context.Context, records ...models.ExpenseRecord) error {
	for _, rec := range records {
		var items, corrections []byte
		var err error
		if len(rec.Items) > 0 {
			if items, err = json.Marshal(rec.Items); err != nil {
				return fmt.Errorf("failed to encode items for %s: %w", rec.ID, err)
			}
		}
		if len(rec.Corrections) > 0 {
			if corrections, err = json.Marshal(rec.Corrections); err != nil {
				return fmt.Errorf("failed to encode corrections for %s: %w", rec.ID, err)
			}
		}

		_, err = r.db.Exec(ctx, `
			INSERT INTO expense_records (
				id, date, merchant, amount, currency, category, description, payment_method,
				items, subtotal, discounts, fees, tip, tax_amount, items_total,
				confidence, corrections, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		`, rec.ID, rec.Date, rec.Merchant, rec.Amount, rec.Currency, rec.Category,
			rec.Description, rec.PaymentMethod, items,
			toNull(rec.Subtotal), toNull(rec.Discounts), toNull(rec.Fees),
			toNull(rec.Tip), toNull(rec.TaxAmount), toNull(rec.ItemsTotal),
			rec.Confidence, corrections, rec.CreatedAt, rec.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
		}
	}
	return nil
}

// List returns all stored records ordered by date.
func (r *RecordRepository) List(ctx context.Context) ([]models.ExpenseRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, date, merchant, amount, currency, category, description, payment_method,
		       items, subtotal, discounts, fees, tip, tax_amount, items_total,
		       confidence, corrections, created_at, updated_at
		FROM expense_records
		ORDER BY date DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.ExpenseRecord
	for rows.Next() {
		var rec models.ExpenseRecord
		var description, paymentMethod *string
		var items, corrections []byte
		var subtotal, discounts, fees, tip, taxAmount, itemsTotal decimal.NullDecimal

		if err := rows.Scan(
			&rec.ID, &rec.Date, &rec.Merchant, &rec.Amount, &rec.Currency, &rec.Category,
			&description, &paymentMethod, &items,
			&subtotal, &discounts, &fees, &tip, &taxAmount, &itemsTotal,
			&rec.Confidence, &corrections, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		if description != nil {
			rec.Description = *description
		}
		if paymentMethod != nil {
			rec.PaymentMethod = *paymentMethod
		}
		rec.Subtotal = fromNull(subtotal)
		rec.Discounts = fromNull(discounts)
		rec.Fees = fromNull(fees)
		rec.Tip = fromNull(tip)
		rec.TaxAmount = fromNull(taxAmount)
		rec.ItemsTotal = fromNull(itemsTotal)

		if len(items) > 0 {
			if err := json.Unmarshal(items, &rec.Items); err != nil {
				return nil, fmt.Errorf("failed to decode items for %s: %w", rec.ID, err)
			}
		}
		if len(corrections) > 0 {
			if err := json.Unmarshal(corrections, &rec.Corrections); err != nil {
				return nil, fmt.Errorf("failed to decode corrections for %s: %w", rec.ID, err)
			}
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	return records, nil
}

func toNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNull(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

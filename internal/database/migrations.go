package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS expense_records (
			id TEXT PRIMARY KEY,
			date DATE NOT NULL,
			merchant TEXT NOT NULL,
			amount DECIMAL(12, 2) NOT NULL,
			currency TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			payment_method TEXT,
			items JSONB,
			subtotal DECIMAL(12, 2),
			discounts DECIMAL(12, 2),
			fees DECIMAL(12, 2),
			tip DECIMAL(12, 2),
			tax_amount DECIMAL(12, 2),
			items_total DECIMAL(12, 2),
			confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
			corrections JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_expense_records_date ON expense_records(date)`,
		`CREATE INDEX IF NOT EXISTS idx_expense_records_merchant ON expense_records(LOWER(merchant))`,
		`CREATE INDEX IF NOT EXISTS idx_expense_records_category ON expense_records(category)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

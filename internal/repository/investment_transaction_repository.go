package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gripfinance/grip-backend/internal/model"
)

// InvestmentTransactionRepository provides data access methods for the investment_transaction table.
type InvestmentTransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInvestmentTransactionRepository creates a new InvestmentTransactionRepository with the provided database connection.
func NewInvestmentTransactionRepository(db *sql.DB) *InvestmentTransactionRepository {
	return &InvestmentTransactionRepository{db: db}
}

// WithTx returns a new InvestmentTransactionRepository scoped to the provided transaction.
func (r *InvestmentTransactionRepository) WithTx(tx *sql.Tx) *InvestmentTransactionRepository {
	return &InvestmentTransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *InvestmentTransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertTransaction stores t unless an identical row (same holding, date, type,
// amount and units) already exists. It reports whether a row was written.
func (r *InvestmentTransactionRepository) InsertTransaction(ctx context.Context, t *model.InvestmentTransaction) (bool, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Source == "" {
		t.Source = string(model.SourceUnknown)
	}

	query := `
        INSERT INTO investment_transaction
            (id, holding_id, transaction_date, transaction_type, amount, units, nav, source, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT DO NOTHING
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.HoldingID,
		t.TransactionDate.Format(time.DateOnly),
		t.TransactionType,
		t.Amount.String(),
		t.Units.String(),
		t.NAV.String(),
		t.Source,
		formatTimestamp(t.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert investment transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// GetTransactionsByHolding retrieves a holding's transactions sorted by date ascending.
// Returns an empty slice if the holding has none.
func (r *InvestmentTransactionRepository) GetTransactionsByHolding(ctx context.Context, holdingID string) ([]model.InvestmentTransaction, error) {
	query := `
        SELECT id, holding_id, transaction_date, transaction_type, amount, units, nav, source, created_at
        FROM investment_transaction
        WHERE holding_id = ?
        ORDER BY transaction_date ASC, created_at ASC
    `

	rows, err := r.getQuerier().QueryContext(ctx, query, holdingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.InvestmentTransaction{}
	for rows.Next() {
		var t model.InvestmentTransaction
		var dateStr, createdAtStr string

		err := rows.Scan(
			&t.ID,
			&t.HoldingID,
			&dateStr,
			&t.TransactionType,
			&t.Amount,
			&t.Units,
			&t.NAV,
			&t.Source,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment_transaction table results: %w", err)
		}

		if t.TransactionDate, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment_transaction table: %w", err)
	}

	return transactions, nil
}

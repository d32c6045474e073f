package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gripfinance/grip-backend/internal/apperrors"
	"github.com/gripfinance/grip-backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
// A holding is unique per scheme name and folio number.
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a new HoldingRepository scoped to the provided transaction.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HoldingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const holdingColumns = `id, scheme_name, folio_number, source, is_sip, sip_amount, created_at, updated_at`

// GetHoldings retrieves all holdings ordered by scheme name and folio.
// Returns an empty slice if there are none.
func (r *HoldingRepository) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding ORDER BY scheme_name ASC, folio_number ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// GetHolding retrieves a single holding by ID.
// Returns apperrors.ErrHoldingNotFound if no holding has that ID.
func (r *HoldingRepository) GetHolding(ctx context.Context, holdingID string) (model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE id = ?`
	return r.queryHolding(ctx, query, holdingID)
}

// FindHolding looks up the holding for a scheme and folio pair.
// Returns apperrors.ErrHoldingNotFound if it does not exist yet.
func (r *HoldingRepository) FindHolding(ctx context.Context, schemeName, folioNumber string) (model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE scheme_name = ? AND folio_number = ?`
	return r.queryHolding(ctx, query, schemeName, strings.TrimSpace(folioNumber))
}

func (r *HoldingRepository) queryHolding(ctx context.Context, query string, args ...any) (model.Holding, error) {
	h, err := scanHolding(r.getQuerier().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	return h, err
}

// InsertHolding stores a new holding. ID and timestamps are assigned when empty.
func (r *HoldingRepository) InsertHolding(ctx context.Context, h *model.Holding) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	h.UpdatedAt = now
	if h.Source == "" {
		h.Source = string(model.SourceUnknown)
	}
	h.FolioNumber = strings.TrimSpace(h.FolioNumber)

	query := `
        INSERT INTO holding (id, scheme_name, folio_number, source, is_sip, sip_amount, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		h.ID,
		h.SchemeName,
		h.FolioNumber,
		h.Source,
		h.IsSIP,
		h.SIPAmount,
		formatTimestamp(h.CreatedAt),
		formatTimestamp(h.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}

	return nil
}

// UpdateSIP records the result of SIP detection for a holding.
func (r *HoldingRepository) UpdateSIP(ctx context.Context, holdingID string, isSIP bool, amount decimal.NullDecimal) error {
	query := `UPDATE holding SET is_sip = ?, sip_amount = ?, updated_at = ? WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query,
		isSIP,
		amount,
		formatTimestamp(time.Now()),
		holdingID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding SIP status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrHoldingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (model.Holding, error) {
	var h model.Holding
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&h.ID,
		&h.SchemeName,
		&h.FolioNumber,
		&h.Source,
		&h.IsSIP,
		&h.SIPAmount,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, err
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to scan holding table results: %w", err)
	}

	if h.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Holding{}, err
	}
	if h.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.Holding{}, err
	}

	return h, nil
}

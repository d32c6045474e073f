package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gripfinance/grip-backend/internal/model"
	"github.com/gripfinance/grip-backend/internal/repository"
)

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	// Simple creation with defaults
//	holding := testutil.NewHolding().Build(t, db)
//
//	// Customized holding
//	holding := testutil.NewHolding().
//	    WithScheme("Alpha Equity Fund").
//	    WithFolio("12345/67").
//	    WithSIP("5000").
//	    Build(t, db)
type HoldingBuilder struct {
	ID          string
	SchemeName  string
	FolioNumber string
	Source      model.StatementSource
	IsSIP       bool
	SIPAmount   decimal.NullDecimal
}

// NewHolding creates a HoldingBuilder with sensible defaults.
func NewHolding() *HoldingBuilder {
	return &HoldingBuilder{
		ID:          MakeID(),
		SchemeName:  MakeSchemeName("Test Scheme"),
		FolioNumber: MakeFolio(),
		Source:      model.SourceCAMS,
	}
}

// WithID sets a custom ID.
func (b *HoldingBuilder) WithID(id string) *HoldingBuilder {
	b.ID = id
	return b
}

// WithScheme sets the scheme name.
func (b *HoldingBuilder) WithScheme(name string) *HoldingBuilder {
	b.SchemeName = name
	return b
}

// WithFolio sets the folio number.
func (b *HoldingBuilder) WithFolio(folio string) *HoldingBuilder {
	b.FolioNumber = folio
	return b
}

// WithSource sets the statement source.
func (b *HoldingBuilder) WithSource(source model.StatementSource) *HoldingBuilder {
	b.Source = source
	return b
}

// WithSIP marks the holding as a SIP of the given amount.
func (b *HoldingBuilder) WithSIP(amount string) *HoldingBuilder {
	b.IsSIP = true
	b.SIPAmount = decimal.NewNullDecimal(decimal.RequireFromString(amount))
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	h := model.Holding{
		ID:          b.ID,
		SchemeName:  b.SchemeName,
		FolioNumber: b.FolioNumber,
		Source:      string(b.Source),
		IsSIP:       b.IsSIP,
		SIPAmount:   b.SIPAmount,
	}

	if err := repository.NewHoldingRepository(db).InsertHolding(context.Background(), &h); err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return h
}

// InvestmentTransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	testutil.NewInvestmentTransaction(holding.ID).
//	    WithDate("2024-01-05").
//	    WithType("SIP Purchase").
//	    WithAmount("5000").
//	    Build(t, db)
type InvestmentTransactionBuilder struct {
	HoldingID       string
	TransactionDate time.Time
	TransactionType string
	Amount          decimal.Decimal
	Units           decimal.Decimal
	NAV             decimal.Decimal
	Source          model.StatementSource
}

// NewInvestmentTransaction creates an InvestmentTransactionBuilder with sensible defaults.
func NewInvestmentTransaction(holdingID string) *InvestmentTransactionBuilder {
	return &InvestmentTransactionBuilder{
		HoldingID:       holdingID,
		TransactionDate: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		TransactionType: "Purchase",
		Amount:          decimal.NewFromInt(5000),
		Units:           decimal.RequireFromString("41.32"),
		NAV:             decimal.RequireFromString("121.01"),
		Source:          model.SourceCAMS,
	}
}

// WithDate sets the transaction date from a YYYY-MM-DD string.
func (b *InvestmentTransactionBuilder) WithDate(date string) *InvestmentTransactionBuilder {
	b.TransactionDate = MustDate(date)
	return b
}

// WithType sets the transaction type.
func (b *InvestmentTransactionBuilder) WithType(txType string) *InvestmentTransactionBuilder {
	b.TransactionType = txType
	return b
}

// WithAmount sets the amount.
func (b *InvestmentTransactionBuilder) WithAmount(amount string) *InvestmentTransactionBuilder {
	b.Amount = decimal.RequireFromString(amount)
	return b
}

// WithUnits sets the units.
func (b *InvestmentTransactionBuilder) WithUnits(units string) *InvestmentTransactionBuilder {
	b.Units = decimal.RequireFromString(units)
	return b
}

// Build creates the transaction in the database and returns it.
func (b *InvestmentTransactionBuilder) Build(t *testing.T, db *sql.DB) model.InvestmentTransaction {
	t.Helper()

	tx := model.InvestmentTransaction{
		HoldingID:       b.HoldingID,
		TransactionDate: b.TransactionDate,
		TransactionType: b.TransactionType,
		Amount:          b.Amount,
		Units:           b.Units,
		NAV:             b.NAV,
		Source:          string(b.Source),
	}

	inserted, err := repository.NewInvestmentTransactionRepository(db).InsertTransaction(context.Background(), &tx)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}
	if !inserted {
		t.Fatalf("Test transaction already exists: %+v", tx)
	}

	return tx
}

// CreateMonthlyPurchases creates count purchases of amount for a holding,
// starting at start and spaced one calendar month apart.
//
// Example usage:
//
//	testutil.CreateMonthlyPurchases(t, db, holding.ID, "2024-01-05", "5000", 3)
func CreateMonthlyPurchases(t *testing.T, db *sql.DB, holdingID, start, amount string, count int) []model.InvestmentTransaction {
	t.Helper()

	first := MustDate(start)
	txns := make([]model.InvestmentTransaction, 0, count)
	for i := 0; i < count; i++ {
		txns = append(txns, NewInvestmentTransaction(holdingID).
			WithDate(first.AddDate(0, i, 0).Format(time.DateOnly)).
			WithType("Purchase").
			WithAmount(amount).
			Build(t, db))
	}
	return txns
}

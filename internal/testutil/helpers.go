package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gripfinance/grip-backend/internal/model"
	"github.com/gripfinance/grip-backend/internal/previewtoken"
	"github.com/gripfinance/grip-backend/internal/repository"
	"github.com/gripfinance/grip-backend/internal/service"
)

// NewTestSigner returns a preview token signer with a random key.
func NewTestSigner(t *testing.T) *previewtoken.Signer {
	t.Helper()

	signer, err := previewtoken.NewSigner("", time.Minute)
	if err != nil {
		t.Fatalf("Failed to create preview token signer: %v", err)
	}
	return signer
}

func NewTestStatementService(t *testing.T, db *sql.DB) *service.StatementService {
	t.Helper()

	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewInvestmentTransactionRepository(db)

	return service.NewStatementService(
		db,
		holdingRepo,
		transactionRepo,
		NewTestSigner(t),
		2,
	)
}

func NewTestHoldingService(t *testing.T, db *sql.DB) *service.HoldingService {
	t.Helper()

	return service.NewHoldingService(
		repository.NewHoldingRepository(db),
		repository.NewInvestmentTransactionRepository(db),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// ParsedRow builds a parsed statement row. Amount, units and NAV are decimal strings.
//
// Example usage:
//
//	row := testutil.ParsedRow("2024-01-05", "Alpha Fund", "F1", "Purchase", "5000", "41.32", "121.01")
func ParsedRow(date, scheme, folio, txType, amount, units, nav string) model.ParsedTransaction {
	return model.ParsedTransaction{
		TransactionDate: date,
		SchemeName:      scheme,
		FolioNumber:     folio,
		TransactionType: txType,
		Amount:          decimal.RequireFromString(amount),
		Units:           decimal.RequireFromString(units),
		NAV:             decimal.RequireFromString(nav),
	}
}

// MustDate parses a YYYY-MM-DD string and panics on malformed input.
func MustDate(date string) time.Time {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return t
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSchemeName generates a unique scheme name for testing.
//
// Example usage:
//
//	name := testutil.MakeSchemeName("Alpha Equity Fund")
//	// Returns: "Alpha Equity Fund XYZ789"
func MakeSchemeName(base string) string {
	if base == "" {
		base = "Scheme"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeFolio generates a folio number in the registrar style "12345678/90".
func MakeFolio() string {
	return randomDigits(8) + "/" + randomDigits(2)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	return randomFrom("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", length)
}

func randomDigits(length int) string {
	return randomFrom("0123456789", length)
}

func randomFrom(charset string, length int) string {
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

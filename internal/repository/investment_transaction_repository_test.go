package repository_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gripfinance/grip-backend/internal/model"
	"github.com/gripfinance/grip-backend/internal/repository"
	"github.com/gripfinance/grip-backend/internal/testutil"
)

func TestInvestmentTransactionRepository_InsertTransaction(t *testing.T) {
	ctx := context.Background()

	newTx := func(holdingID, amount string) *model.InvestmentTransaction {
		return &model.InvestmentTransaction{
			HoldingID:       holdingID,
			TransactionDate: testutil.MustDate("2024-01-05"),
			TransactionType: "Purchase",
			Amount:          decimal.RequireFromString(amount),
			Units:           decimal.RequireFromString("41.32"),
			NAV:             decimal.RequireFromString("121.01"),
		}
	}

	t.Run("inserts new transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewInvestmentTransactionRepository(db)
		h := testutil.NewHolding().Build(t, db)

		tx := newTx(h.ID, "5000")
		inserted, err := repo.InsertTransaction(ctx, tx)
		if err != nil {
			t.Fatalf("InsertTransaction() returned unexpected error: %v", err)
		}
		if !inserted {
			t.Error("Expected row to be inserted")
		}
		if tx.ID == "" {
			t.Error("Expected ID to be assigned")
		}
		testutil.AssertRowCount(t, db, "investment_transaction", 1)
	})

	t.Run("identical row is reported as duplicate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewInvestmentTransactionRepository(db)
		h := testutil.NewHolding().Build(t, db)

		if _, err := repo.InsertTransaction(ctx, newTx(h.ID, "5000")); err != nil {
			t.Fatalf("InsertTransaction() returned unexpected error: %v", err)
		}

		// 5000.00 normalizes to the same stored amount
		inserted, err := repo.InsertTransaction(ctx, newTx(h.ID, "5000.00"))
		if err != nil {
			t.Fatalf("InsertTransaction() returned unexpected error: %v", err)
		}
		if inserted {
			t.Error("Expected duplicate row to be ignored")
		}
		testutil.AssertRowCount(t, db, "investment_transaction", 1)
	})

	t.Run("different amount is a new row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewInvestmentTransactionRepository(db)
		h := testutil.NewHolding().Build(t, db)

		if _, err := repo.InsertTransaction(ctx, newTx(h.ID, "5000")); err != nil {
			t.Fatalf("InsertTransaction() returned unexpected error: %v", err)
		}
		inserted, err := repo.InsertTransaction(ctx, newTx(h.ID, "5001"))
		if err != nil {
			t.Fatalf("InsertTransaction() returned unexpected error: %v", err)
		}
		if !inserted {
			t.Error("Expected row to be inserted")
		}
	})

	t.Run("unknown holding violates foreign key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewInvestmentTransactionRepository(db)

		if _, err := repo.InsertTransaction(ctx, newTx(testutil.MakeID(), "5000")); err == nil {
			t.Error("Expected foreign key error")
		}
	})
}

func TestInvestmentTransactionRepository_GetTransactionsByHolding(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvestmentTransactionRepository(db)

	h := testutil.NewHolding().Build(t, db)
	other := testutil.NewHolding().Build(t, db)

	testutil.NewInvestmentTransaction(h.ID).WithDate("2024-03-05").WithAmount("3000").Build(t, db)
	testutil.NewInvestmentTransaction(h.ID).WithDate("2024-01-05").WithAmount("1000").Build(t, db)
	testutil.NewInvestmentTransaction(other.ID).WithDate("2024-02-05").Build(t, db)

	t.Run("returns holding transactions oldest first", func(t *testing.T) {
		txns, err := repo.GetTransactionsByHolding(ctx, h.ID)
		if err != nil {
			t.Fatalf("GetTransactionsByHolding() returned unexpected error: %v", err)
		}
		if len(txns) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(txns))
		}
		if got := txns[0].TransactionDate.Format("2006-01-02"); got != "2024-01-05" {
			t.Errorf("Expected first transaction on 2024-01-05, got %s", got)
		}
		if !txns[0].Amount.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("Expected amount 1000, got %s", txns[0].Amount)
		}
		if !txns[1].Units.Equal(decimal.RequireFromString("41.32")) {
			t.Errorf("Expected units 41.32, got %s", txns[1].Units)
		}
	})

	t.Run("returns empty slice for holding without transactions", func(t *testing.T) {
		empty := testutil.NewHolding().Build(t, db)

		txns, err := repo.GetTransactionsByHolding(ctx, empty.ID)
		if err != nil {
			t.Fatalf("GetTransactionsByHolding() returned unexpected error: %v", err)
		}
		if txns == nil || len(txns) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", txns)
		}
	})
}

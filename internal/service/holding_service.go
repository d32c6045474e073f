package service

import (
	"context"

	"github.com/gripfinance/grip-backend/internal/model"
	"github.com/gripfinance/grip-backend/internal/repository"
)

// HoldingService handles holding-related business logic operations.
type HoldingService struct {
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.InvestmentTransactionRepository
}

// NewHoldingService creates a new HoldingService with the provided repository dependencies.
func NewHoldingService(
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.InvestmentTransactionRepository,
) *HoldingService {
	return &HoldingService{
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
	}
}

// GetHoldings retrieves all holdings.
func (s *HoldingService) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	return s.holdingRepo.GetHoldings(ctx)
}

// GetHolding retrieves a single holding by ID.
func (s *HoldingService) GetHolding(ctx context.Context, holdingID string) (model.Holding, error) {
	return s.holdingRepo.GetHolding(ctx, holdingID)
}

// GetHoldingTransactions retrieves the transactions of a holding, oldest first.
// Returns apperrors.ErrHoldingNotFound if the holding does not exist.
func (s *HoldingService) GetHoldingTransactions(ctx context.Context, holdingID string) ([]model.InvestmentTransaction, error) {
	if _, err := s.holdingRepo.GetHolding(ctx, holdingID); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetTransactionsByHolding(ctx, holdingID)
}

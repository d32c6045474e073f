package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding represents a mutual fund position identified by scheme and folio.
type Holding struct {
	ID          string              `json:"id"`
	SchemeName  string              `json:"schemeName"`
	FolioNumber string              `json:"folioNumber,omitempty"`
	Source      string              `json:"source"`
	IsSIP       bool                `json:"isSip"`
	SIPAmount   decimal.NullDecimal `json:"sipAmount"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// InvestmentTransaction is an imported statement row attached to a holding.
type InvestmentTransaction struct {
	ID              string          `json:"id"`
	HoldingID       string          `json:"holdingId"`
	TransactionDate time.Time       `json:"transactionDate"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	Units           decimal.Decimal `json:"units"`
	NAV             decimal.Decimal `json:"nav"`
	Source          string          `json:"source"`
	CreatedAt       time.Time       `json:"createdAt"`
}

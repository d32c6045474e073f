package service

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gripfinance/grip-backend/internal/model"
)

const (
	sipMinInstallments         = 3
	sipMinExplicitInstallments = 2
	sipMinGapDays              = 25
	sipMaxGapDays              = 35
)

// sipAmountTolerance is the allowed relative deviation from a run's first amount.
var sipAmountTolerance = decimal.NewFromFloat(0.05)

// sipResult describes the run of installments that qualified a holding as a SIP.
type sipResult struct {
	Amount       decimal.Decimal
	Installments int
}

// isPurchase reports whether a transaction type adds money to a holding.
func isPurchase(txType string) bool {
	t := strings.ToLower(txType)
	return strings.Contains(t, "purchase") || strings.Contains(t, "sip")
}

// detectSIP looks for the latest run of roughly monthly purchases of a
// roughly constant amount. Consecutive purchases belong to the same run when
// they are 25 to 35 days apart and their amount is within 5% of the run's
// first amount. A run needs three installments, or two when the statement
// labels any purchase as a SIP.
func detectSIP(transactions []model.InvestmentTransaction) (sipResult, bool) {
	var purchases []model.InvestmentTransaction
	explicit := false
	for _, t := range transactions {
		if !isPurchase(t.TransactionType) || !t.Amount.IsPositive() {
			continue
		}
		purchases = append(purchases, t)
		if strings.Contains(strings.ToLower(t.TransactionType), "sip") {
			explicit = true
		}
	}

	minRun := sipMinInstallments
	if explicit {
		minRun = sipMinExplicitInstallments
	}
	if len(purchases) < minRun {
		return sipResult{}, false
	}

	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].TransactionDate.Before(purchases[j].TransactionDate)
	})

	var best sipResult
	found := false
	start := 0
	for i := 1; i <= len(purchases); i++ {
		if i < len(purchases) && continuesRun(purchases[start], purchases[i-1], purchases[i]) {
			continue
		}
		if n := i - start; n >= minRun {
			best = sipResult{Amount: purchases[i-1].Amount, Installments: n}
			found = true
		}
		start = i
	}

	return best, found
}

func continuesRun(first, prev, next model.InvestmentTransaction) bool {
	gap := int(next.TransactionDate.Sub(prev.TransactionDate).Hours() / 24)
	if gap < sipMinGapDays || gap > sipMaxGapDays {
		return false
	}
	limit := first.Amount.Mul(sipAmountTolerance)
	return next.Amount.Sub(first.Amount).Abs().LessThanOrEqual(limit)
}

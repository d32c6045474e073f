package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/gripfinance/grip-backend/internal/api/request"
	"github.com/gripfinance/grip-backend/internal/apperrors"
	"github.com/gripfinance/grip-backend/internal/model"
)

// ValidateImportStatement validates a statement import request.
//
// Either a preview token or at least one transaction is required. A token
// replaces inline transactions, which are then not checked. Otherwise each
// inline row must have:
//   - transaction_date: YYYY-MM-DD
//   - scheme_name and transaction_type: non-empty
//   - amount, units: non-negative, not both zero
//
// Field keys of the returned Error are indexed, e.g. "transactions[2].amount".
func ValidateImportStatement(req request.ImportStatementRequest) error {
	errors := make(map[string]string)

	hasToken := strings.TrimSpace(req.PreviewToken) != ""
	if !hasToken && len(req.Transactions) == 0 {
		errors["transactions"] = "transactions or preview_token is required"
	}

	if req.Source != "" && model.ParseStatementSource(req.Source) == model.SourceUnknown {
		errors["source"] = fmt.Sprintf("%s: %s", apperrors.ErrInvalidSource, req.Source)
	}

	if !hasToken {
		for i, tx := range req.Transactions {
			validateParsedTransaction(fmt.Sprintf("transactions[%d]", i), tx, errors)
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func validateParsedTransaction(prefix string, tx model.ParsedTransaction, errors map[string]string) {
	if _, err := time.Parse(time.DateOnly, tx.TransactionDate); err != nil {
		errors[prefix+".transaction_date"] = "transaction_date must be in YYYY-MM-DD format"
	}

	if strings.TrimSpace(tx.SchemeName) == "" {
		errors[prefix+".scheme_name"] = "scheme_name is required"
	}

	if strings.TrimSpace(tx.TransactionType) == "" {
		errors[prefix+".transaction_type"] = "transaction_type is required"
	}

	if tx.Amount.IsNegative() {
		errors[prefix+".amount"] = "amount cannot be negative"
	}
	if tx.Units.IsNegative() {
		errors[prefix+".units"] = "units cannot be negative"
	}
	if tx.Amount.IsZero() && tx.Units.IsZero() {
		errors[prefix+".amount"] = "amount or units must be non-zero"
	}
}

package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsedTransaction is a single normalized row read from an account statement.
// Amounts and units are always non-negative; the direction of a transaction is
// carried by TransactionType.
type ParsedTransaction struct {
	TransactionDate string          `json:"transaction_date"` // YYYY-MM-DD
	SchemeName      string          `json:"scheme_name"`
	FolioNumber     string          `json:"folio_number,omitempty"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Units           decimal.Decimal `json:"units"`
	NAV             decimal.Decimal `json:"nav"`
}

// StatementSource identifies the registrar that issued a statement.
// It is used for labeling only; parsing never depends on it.
type StatementSource string

const (
	SourceCAMS      StatementSource = "cams"
	SourceKFintech  StatementSource = "kfintech"
	SourceMFCentral StatementSource = "mfcentral"
	SourceUnknown   StatementSource = "unknown"
)

// StatementSources lists the supported sources in display order.
var StatementSources = []StatementSource{SourceCAMS, SourceKFintech, SourceMFCentral}

var sourceLabels = map[StatementSource]string{
	SourceCAMS:      "CAMS",
	SourceKFintech:  "KFintech",
	SourceMFCentral: "MF Central",
	SourceUnknown:   "Unknown",
}

// ParseStatementSource maps a user supplied value onto a known source.
// Matching ignores case, spaces and dashes; anything else is SourceUnknown.
func ParseStatementSource(s string) StatementSource {
	normalized := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, src := range StatementSources {
		if string(src) == normalized {
			return src
		}
	}
	return SourceUnknown
}

// Label returns the human readable name of the source.
func (s StatementSource) Label() string {
	if label, ok := sourceLabels[s]; ok {
		return label
	}
	return sourceLabels[SourceUnknown]
}

// StatementSourceInfo is the API representation of a supported source.
type StatementSourceInfo struct {
	Value StatementSource `json:"value"`
	Label string          `json:"label"`
}

// StatementFileSummary describes the outcome of parsing one uploaded file.
type StatementFileSummary struct {
	FileName         string `json:"file_name"`
	Recognized       bool   `json:"recognized"`
	TransactionCount int    `json:"transaction_count"`
	DroppedRows      int    `json:"dropped_rows"`
	Error            string `json:"error,omitempty"`
}

// StatementPreview is returned after parsing uploaded statements and before import.
// PreviewToken carries the same transactions in signed form so the client can
// submit them for import unchanged.
type StatementPreview struct {
	Source       StatementSource        `json:"source"`
	Files        []StatementFileSummary `json:"files"`
	Transactions []ParsedTransaction    `json:"transactions"`
	PreviewToken string                 `json:"preview_token,omitempty"`
}

// ImportResult summarizes what an import did with a batch of parsed transactions.
type ImportResult struct {
	Imported        int            `json:"imported"`
	Duplicates      int            `json:"duplicates"`
	Skipped         int            `json:"skipped"`
	HoldingsCreated int            `json:"holdings_created"`
	SIPsDetected    []SIPDetection `json:"sips_detected"`
}

// SIPDetection reports a holding that was recognized as a systematic investment plan.
type SIPDetection struct {
	HoldingID    string          `json:"holding_id"`
	SchemeName   string          `json:"scheme_name"`
	FolioNumber  string          `json:"folio_number,omitempty"`
	SIPAmount    decimal.Decimal `json:"sip_amount"`
	Installments int             `json:"installments"`
}

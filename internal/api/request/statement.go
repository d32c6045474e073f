package request

import "github.com/gripfinance/grip-backend/internal/model"

// ImportStatementRequest submits a parsed batch for import, either inline or
// through the preview token returned by the parse endpoint.
type ImportStatementRequest struct {
	Transactions       []model.ParsedTransaction `json:"transactions"`
	PreviewToken       string                    `json:"preview_token,omitempty"`
	Source             string                    `json:"source,omitempty"`
	AutoCreateHoldings bool                      `json:"auto_create_holdings"`
	DetectSIPPatterns  bool                      `json:"detect_sip_patterns"`
}

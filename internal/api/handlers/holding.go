package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gripfinance/grip-backend/internal/api/response"
	"github.com/gripfinance/grip-backend/internal/apperrors"
	"github.com/gripfinance/grip-backend/internal/service"
)

// HoldingHandler handles HTTP requests for holding endpoints.
type HoldingHandler struct {
	holdingService   *service.HoldingService
	statementService *service.StatementService
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(holdingService *service.HoldingService, statementService *service.StatementService) *HoldingHandler {
	return &HoldingHandler{
		holdingService:   holdingService,
		statementService: statementService,
	}
}

// Holdings handles GET requests to list all holdings.
//
// Endpoint: GET /api/holding
// Response: 200 OK with array of Holding
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.holdingService.GetHoldings(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// Holding handles GET requests for a single holding.
//
// Endpoint: GET /api/holding/{uuid}
// Response: 200 OK with Holding
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the holding does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) Holding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	holding, err := h.holdingService.GetHolding(r.Context(), holdingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHolding.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// Transactions handles GET requests for the transactions of a holding, oldest first.
//
// Endpoint: GET /api/holding/{uuid}/transactions
// Response: 200 OK with array of InvestmentTransaction
// Error: 404 Not Found if the holding does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	transactions, err := h.holdingService.GetHoldingTransactions(r.Context(), holdingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// DetectSIP runs SIP detection across all holdings.
//
// Endpoint: POST /api/holding/detect-sip
// Response: 200 OK with array of SIPDetection
// Error: 500 Internal Server Error if detection fails
func (h *HoldingHandler) DetectSIP(w http.ResponseWriter, r *http.Request) {
	detections, err := h.statementService.DetectSIPs(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToDetectSIPs.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, detections)
}

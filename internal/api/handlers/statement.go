package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gripfinance/grip-backend/internal/api/request"
	"github.com/gripfinance/grip-backend/internal/api/response"
	"github.com/gripfinance/grip-backend/internal/apperrors"
	"github.com/gripfinance/grip-backend/internal/logger"
	"github.com/gripfinance/grip-backend/internal/model"
	"github.com/gripfinance/grip-backend/internal/service"
	"github.com/gripfinance/grip-backend/internal/validation"
)

// multipartMemory is how much of an upload is kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// StatementHandler handles HTTP requests for statement parsing and import.
type StatementHandler struct {
	statementService *service.StatementService
	maxUploadBytes   int64
}

// NewStatementHandler creates a new StatementHandler. maxUploadBytes bounds
// the whole multipart request body.
func NewStatementHandler(statementService *service.StatementService, maxUploadBytes int64) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		maxUploadBytes:   maxUploadBytes,
	}
}

// Sources handles GET requests for the list of supported statement sources.
//
// Endpoint: GET /api/statement/sources
// Response: 200 OK with array of StatementSourceInfo
func (h *StatementHandler) Sources(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.statementService.Sources())
}

// Parse handles multipart uploads of one or more statement files and returns
// a preview of the transactions found. Nothing is stored.
//
// Endpoint: POST /api/statement/parse
// Request: multipart/form-data with one or more "file" parts and an optional "source" field
// Response: 200 OK with StatementPreview
// Error: 400 Bad Request if the form is malformed or has no file
// Error: 413 Request Entity Too Large if the upload exceeds the configured limit
// Error: 422 Unprocessable Entity if no file contains a transaction table
// Error: 500 Internal Server Error if parsing fails
func (h *StatementHandler) Parse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(w, http.StatusRequestEntityTooLarge, "upload too large", err.Error())
			return
		}
		response.RespondError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log := logger.FromContext(r.Context())
			log.Warn().Err(err).Msg("failed to remove multipart temp files")
		}
	}()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		response.RespondError(w, http.StatusBadRequest, "no file uploaded", nil)
		return
	}

	files := make([]service.StatementFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, service.StatementFile{
			Name: fh.Filename,
			Open: openPart(fh),
		})
	}

	source := model.ParseStatementSource(r.FormValue("source"))

	preview, err := h.statementService.ParseFiles(r.Context(), source, files)
	if err != nil {
		if errors.Is(err, apperrors.ErrStatementNotRecognized) {
			response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrStatementNotRecognized.Error(), preview.Files)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToParseFile.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, preview)
}

func openPart(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

// Import handles POST requests that store a parsed batch. The batch comes
// either from a preview token or inline transactions.
//
// Endpoint: POST /api/statement/import
// Request Body: ImportStatementRequest
// Response: 201 Created with ImportResult
// Error: 400 Bad Request if the body is invalid, validation fails or the preview token is rejected
// Error: 500 Internal Server Error if the import fails
func (h *StatementHandler) Import(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ImportStatementRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateImportStatement(req); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
			return
		}
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.statementService.Import(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidPreviewToken):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPreviewToken.Error(), nil)
		case errors.Is(err, apperrors.ErrNoTransactions):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrNoTransactions.Error(), nil)
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportTransactions.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}

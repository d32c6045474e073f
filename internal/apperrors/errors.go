package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrHoldingNotFound indicates that a holding with the given ID does not exist.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrStatementNotRecognized indicates that none of the uploaded files contained
	// a transaction table the parser could read.
	ErrStatementNotRecognized = errors.New("no valid transactions found, check the file format")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrUnsupportedFileType indicates an upload that is neither delimited text nor a workbook.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrInvalidPreviewToken indicates a preview token that is expired, forged or unreadable.
	ErrInvalidPreviewToken = errors.New("invalid or expired preview token")

	// ErrNoTransactions indicates an import request without rows or a preview token.
	ErrNoTransactions = errors.New("no transactions to import")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidSource indicates a source value outside the supported registrars.
	ErrInvalidSource = errors.New("unknown statement source")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToParseFile          = errors.New("failed to parse file")
	ErrFailedToImportTransactions = errors.New("failed to import transactions")
	ErrFailedToDetectSIPs         = errors.New("failed to detect SIP patterns")

	ErrFailedToRetrieveHoldings     = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveHolding      = errors.New("failed to retrieve holding")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")

	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

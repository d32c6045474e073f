package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/gripfinance/grip-backend/internal/api/request"
	"github.com/gripfinance/grip-backend/internal/apperrors"
	"github.com/gripfinance/grip-backend/internal/logger"
	"github.com/gripfinance/grip-backend/internal/model"
	"github.com/gripfinance/grip-backend/internal/previewtoken"
	"github.com/gripfinance/grip-backend/internal/repository"
	"github.com/gripfinance/grip-backend/internal/statement"
)

// StatementFile is an uploaded statement waiting to be parsed.
type StatementFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// StatementService handles statement parsing, import and SIP detection.
type StatementService struct {
	db              *sql.DB
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.InvestmentTransactionRepository
	signer          *previewtoken.Signer
	maxParallel     int
}

// NewStatementService creates a new StatementService. signer may be nil, in
// which case previews carry no token and token imports are rejected.
func NewStatementService(
	db *sql.DB,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.InvestmentTransactionRepository,
	signer *previewtoken.Signer,
	maxParallelFiles int,
) *StatementService {
	if maxParallelFiles < 1 {
		maxParallelFiles = 1
	}
	return &StatementService{
		db:              db,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		signer:          signer,
		maxParallel:     maxParallelFiles,
	}
}

// Sources lists the statement sources offered to clients.
func (s *StatementService) Sources() []model.StatementSourceInfo {
	sources := make([]model.StatementSourceInfo, 0, len(model.StatementSources))
	for _, src := range model.StatementSources {
		sources = append(sources, model.StatementSourceInfo{Value: src, Label: src.Label()})
	}
	return sources
}

// ParseFiles parses uploaded statements concurrently and combines their rows
// in upload order. A file that cannot be read is reported in its summary and
// does not fail the others. Returns apperrors.ErrStatementNotRecognized when no
// file yields a transaction.
func (s *StatementService) ParseFiles(ctx context.Context, source model.StatementSource, files []StatementFile) (*model.StatementPreview, error) {
	log := logger.FromContext(ctx)

	summaries := make([]model.StatementFileSummary, len(files))
	parsed := make([][]model.ParsedTransaction, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			summary := model.StatementFileSummary{FileName: f.Name}
			res, err := parseStatementFile(f)
			if err != nil {
				log.Warn().Err(err).Str("file", f.Name).Msg("failed to parse statement file")
				summary.Error = apperrors.ErrFailedToParseFile.Error()
				if errors.Is(err, statement.ErrUnsupportedFileType) {
					summary.Error = apperrors.ErrUnsupportedFileType.Error()
				}
			} else {
				summary.Recognized = res.Recognized
				summary.TransactionCount = len(res.Transactions)
				summary.DroppedRows = res.Dropped
				parsed[i] = res.Transactions

				log.Debug().
					Str("file", f.Name).
					Bool("recognized", res.Recognized).
					Int("header_row", res.HeaderRow).
					Int("transactions", len(res.Transactions)).
					Int("dropped", res.Dropped).
					Msg("parsed statement file")
			}

			summaries[i] = summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	preview := &model.StatementPreview{
		Source:       source,
		Files:        summaries,
		Transactions: []model.ParsedTransaction{},
	}
	for _, txns := range parsed {
		preview.Transactions = append(preview.Transactions, txns...)
	}

	if len(preview.Transactions) == 0 {
		return preview, apperrors.ErrStatementNotRecognized
	}

	if s.signer != nil {
		token, err := s.signer.Sign(preview.Transactions)
		if err != nil {
			return nil, err
		}
		preview.PreviewToken = token
	}

	return preview, nil
}

func parseStatementFile(f StatementFile) (statement.Result, error) {
	rc, err := f.Open()
	if err != nil {
		return statement.Result{}, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	return statement.ParseFile(f.Name, rc)
}

type holdingKey struct {
	scheme string
	folio  string
}

// Import stores a parsed batch in a single database transaction. Rows whose
// holding does not exist are skipped unless AutoCreateHoldings is set; rows
// already stored are counted as duplicates. With DetectSIPPatterns every
// holding the batch touched is checked for a SIP.
func (s *StatementService) Import(ctx context.Context, req request.ImportStatementRequest) (result *model.ImportResult, err error) {
	transactions := req.Transactions
	if token := strings.TrimSpace(req.PreviewToken); token != "" {
		if s.signer == nil {
			return nil, apperrors.ErrInvalidPreviewToken
		}
		transactions, err = s.signer.Verify(token)
		if err != nil {
			return nil, err
		}
	}
	if len(transactions) == 0 {
		return nil, apperrors.ErrNoTransactions
	}

	source := model.ParseStatementSource(req.Source)
	log := logger.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportTransactions, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	holdingRepo := s.holdingRepo.WithTx(tx)
	transactionRepo := s.transactionRepo.WithTx(tx)

	result = &model.ImportResult{SIPsDetected: []model.SIPDetection{}}
	holdings := make(map[holdingKey]*model.Holding)
	var touched []*model.Holding

	for _, p := range transactions {
		key := holdingKey{scheme: strings.TrimSpace(p.SchemeName), folio: strings.TrimSpace(p.FolioNumber)}

		h, seen := holdings[key]
		if !seen {
			var created bool
			h, created, err = s.resolveHolding(ctx, holdingRepo, key, source, req.AutoCreateHoldings)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportTransactions, err)
			}
			if created {
				result.HoldingsCreated++
			}
			if h != nil {
				touched = append(touched, h)
			}
			holdings[key] = h
		}
		if h == nil {
			result.Skipped++
			continue
		}

		date, perr := time.Parse(time.DateOnly, p.TransactionDate)
		if perr != nil {
			result.Skipped++
			continue
		}

		inserted, ierr := transactionRepo.InsertTransaction(ctx, &model.InvestmentTransaction{
			HoldingID:       h.ID,
			TransactionDate: date,
			TransactionType: p.TransactionType,
			Amount:          p.Amount.Abs(),
			Units:           p.Units.Abs(),
			NAV:             p.NAV,
			Source:          string(source),
		})
		if ierr != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportTransactions, ierr)
		}
		if inserted {
			result.Imported++
		} else {
			result.Duplicates++
		}
	}

	if req.DetectSIPPatterns {
		for _, h := range touched {
			detection, derr := detectHoldingSIP(ctx, holdingRepo, transactionRepo, *h)
			if derr != nil {
				return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToDetectSIPs, derr)
			}
			if detection != nil {
				result.SIPsDetected = append(result.SIPsDetected, *detection)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportTransactions, err)
	}

	log.Info().
		Str("source", string(source)).
		Int("imported", result.Imported).
		Int("duplicates", result.Duplicates).
		Int("skipped", result.Skipped).
		Int("holdings_created", result.HoldingsCreated).
		Int("sips_detected", len(result.SIPsDetected)).
		Msg("statement imported")

	return result, nil
}

// resolveHolding returns the holding for key, creating it when allowed.
// A nil holding without error means the rows for key must be skipped.
func (s *StatementService) resolveHolding(
	ctx context.Context,
	repo *repository.HoldingRepository,
	key holdingKey,
	source model.StatementSource,
	autoCreate bool,
) (*model.Holding, bool, error) {
	existing, err := repo.FindHolding(ctx, key.scheme, key.folio)
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrHoldingNotFound) {
		return nil, false, err
	}
	log := logger.FromContext(ctx)
	if !autoCreate {
		log.Debug().
			Str("scheme", key.scheme).
			Str("folio", logger.MaskFolio(key.folio)).
			Msg("skipping rows for unknown holding")
		return nil, false, nil
	}

	h := &model.Holding{
		SchemeName:  key.scheme,
		FolioNumber: key.folio,
		Source:      string(source),
	}
	if err := repo.InsertHolding(ctx, h); err != nil {
		return nil, false, err
	}

	log.Info().
		Str("holding_id", h.ID).
		Str("scheme", key.scheme).
		Str("folio", logger.MaskFolio(key.folio)).
		Msg("created holding")
	return h, true, nil
}

// DetectSIPs runs SIP detection over every stored holding and returns the
// holdings recognized as SIPs.
func (s *StatementService) DetectSIPs(ctx context.Context) ([]model.SIPDetection, error) {
	holdings, err := s.holdingRepo.GetHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToDetectSIPs, err)
	}

	detections := []model.SIPDetection{}
	for _, h := range holdings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		detection, err := detectHoldingSIP(ctx, s.holdingRepo, s.transactionRepo, h)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToDetectSIPs, err)
		}
		if detection != nil {
			detections = append(detections, *detection)
		}
	}

	log := logger.FromContext(ctx)
	log.Info().
		Int("holdings", len(holdings)).
		Int("sips_detected", len(detections)).
		Msg("SIP detection finished")

	return detections, nil
}

// detectHoldingSIP marks h as a SIP when its transactions show a SIP pattern.
// Holdings without a pattern are left unchanged.
func detectHoldingSIP(
	ctx context.Context,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.InvestmentTransactionRepository,
	h model.Holding,
) (*model.SIPDetection, error) {
	transactions, err := transactionRepo.GetTransactionsByHolding(ctx, h.ID)
	if err != nil {
		return nil, err
	}

	sip, ok := detectSIP(transactions)
	if !ok {
		return nil, nil
	}

	amount := decimal.NewNullDecimal(sip.Amount)
	if err := holdingRepo.UpdateSIP(ctx, h.ID, true, amount); err != nil {
		return nil, err
	}

	return &model.SIPDetection{
		HoldingID:    h.ID,
		SchemeName:   h.SchemeName,
		FolioNumber:  h.FolioNumber,
		SIPAmount:    sip.Amount,
		Installments: sip.Installments,
	}, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/metrics"
)

// Backfill limits.
const (
	DefaultBackfillLimit = 100
	MaxBackfillLimit     = 1000
)

// BackfillRowStatus classifies what happened to one candidate row.
type BackfillRowStatus string

const (
	BackfillRowCandidate     BackfillRowStatus = "candidate"
	BackfillRowPosted        BackfillRowStatus = "posted"
	BackfillRowAlreadyPosted BackfillRowStatus = "already_posted"
	BackfillRowRaceDuplicate BackfillRowStatus = "race_duplicate"
	BackfillRowSkippedStatus BackfillRowStatus = "skipped_status"
	BackfillRowFailed        BackfillRowStatus = "failed"
)

// BackfillInput scopes a backfill run.
type BackfillInput struct {
	CompanyID    *int64
	AllCompanies bool
	OutletID     *int64
	Limit        int
	Execute      bool
}

// Validate checks the scope combination rules.
func (in *BackfillInput) Validate() error {
	if in.AllCompanies && in.CompanyID != nil {
		return errors.New("company id and all-companies are mutually exclusive")
	}

	if in.Execute && !in.AllCompanies && in.CompanyID == nil {
		return errors.New("execute requires a company id or all-companies")
	}

	if in.OutletID != nil && in.CompanyID == nil {
		return errors.New("outlet id requires a company id")
	}

	return nil
}

// BackfillRow is the outcome for one POS transaction.
type BackfillRow struct {
	CompanyID        int64
	POSTransactionID int64
	Status           BackfillRowStatus
	BatchID          int64
	Err              error
}

// BackfillReport aggregates a run. Per-row failures are independent; the
// run keeps going and reports them all.
type BackfillReport struct {
	DryRun     bool
	Candidates int
	Posted     int
	Skipped    int
	Failed     int
	Rows       []BackfillRow
}

// BackfillUseCase posts COMPLETED POS transactions that were ingested
// before posting existed (or missed live posting).
type BackfillUseCase struct {
	txManager TransactionManager
	pos       POSTransactionRepository
	journals  JournalRepository
	posting   *PostingService
	mapper    JournalMapper
	retrier   Retrier
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewBackfillUseCase creates a new BackfillUseCase.
func NewBackfillUseCase(
	txManager TransactionManager,
	pos POSTransactionRepository,
	journals JournalRepository,
	posting *PostingService,
	mapper JournalMapper,
	retrier Retrier,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *BackfillUseCase {
	return &BackfillUseCase{
		txManager: txManager,
		pos:       pos,
		journals:  journals,
		posting:   posting,
		mapper:    mapper,
		retrier:   retrier,
		metrics:   m,
		logger:    logger,
	}
}

// Run executes (or dry-runs) a backfill over the requested scope.
func (uc *BackfillUseCase) Run(ctx context.Context, input BackfillInput) (*BackfillReport, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultBackfillLimit
	}
	if limit > MaxBackfillLimit {
		limit = MaxBackfillLimit
	}

	companyIDs, err := uc.resolveCompanies(ctx, input)
	if err != nil {
		return nil, err
	}

	report := &BackfillReport{DryRun: !input.Execute}

	for _, companyID := range companyIDs {
		remaining := limit - report.Candidates
		if remaining <= 0 {
			break
		}

		ids, err := uc.pos.ListUnpostedCompleted(ctx, companyID, input.OutletID, remaining)
		if err != nil {
			return nil, fmt.Errorf("list unposted for company %d: %w", companyID, err)
		}

		for _, id := range ids {
			report.Candidates++

			if !input.Execute {
				report.Rows = append(report.Rows, BackfillRow{
					CompanyID:        companyID,
					POSTransactionID: id,
					Status:           BackfillRowCandidate,
				})
				continue
			}

			row := uc.executeRow(ctx, companyID, id)
			report.Rows = append(report.Rows, row)
			uc.metrics.BackfillRows.WithLabelValues(string(row.Status)).Inc()

			switch row.Status {
			case BackfillRowPosted:
				report.Posted++
			case BackfillRowFailed:
				report.Failed++
			default:
				report.Skipped++
			}
		}
	}

	uc.logger.Info().
		Bool("dry_run", report.DryRun).
		Int("candidates", report.Candidates).
		Int("posted", report.Posted).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("backfill run finished")

	return report, nil
}

func (uc *BackfillUseCase) resolveCompanies(ctx context.Context, input BackfillInput) ([]int64, error) {
	if input.CompanyID != nil {
		return []int64{*input.CompanyID}, nil
	}

	return uc.pos.ListCompanyIDs(ctx)
}

// executeRow posts one transaction in its own database transaction,
// retried on deadlock/serialization failures. Failures are captured in
// the returned row, never propagated.
func (uc *BackfillUseCase) executeRow(ctx context.Context, companyID, posTransactionID int64) BackfillRow {
	row := BackfillRow{CompanyID: companyID, POSTransactionID: posTransactionID}

	err := uc.retrier.Retry(ctx, func() error {
		status, batchID, err := uc.postOne(ctx, companyID, posTransactionID)
		if err != nil {
			return err
		}

		row.Status = status
		row.BatchID = batchID
		return nil
	})
	if err != nil {
		uc.logger.Warn().
			Err(err).
			Int64("company_id", companyID).
			Int64("pos_transaction_id", posTransactionID).
			Msg("backfill row failed")

		row.Status = BackfillRowFailed
		row.Err = err
	}

	return row
}

func (uc *BackfillUseCase) postOne(ctx context.Context, companyID, posTransactionID int64) (BackfillRowStatus, int64, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback(ctx)

	// Row lock serializes against any live posting path touching the
	// same transaction, then both checks are redone under the lock.
	sale, err := uc.pos.GetByIDForUpdate(ctx, tx, companyID, posTransactionID)
	if err != nil {
		return "", 0, err
	}

	if sale.Status != domain.POSStatusCompleted {
		return BackfillRowSkippedStatus, 0, nil
	}

	existing, err := uc.journals.GetBatchByDoc(ctx, tx, companyID, domain.DocTypePOSSale, posTransactionID)
	if err != nil && !errors.Is(err, domain.ErrJournalBatchNotFound) {
		return "", 0, err
	}
	if existing != nil {
		return BackfillRowAlreadyPosted, existing.ID, nil
	}

	req := domain.PostingRequest{
		DocType:   domain.DocTypePOSSale,
		DocID:     sale.ID,
		CompanyID: sale.CompanyID,
		OutletID:  &sale.OutletID,
	}

	result, err := uc.posting.PostInTx(ctx, tx, req, uc.mapper)
	if err != nil {
		return "", 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", 0, err
	}

	if result.AlreadyPosted {
		// A concurrent poster won between our recheck and the insert;
		// the unique key resolved the race in their favor.
		return BackfillRowRaceDuplicate, result.BatchID, nil
	}

	return BackfillRowPosted, result.BatchID, nil
}

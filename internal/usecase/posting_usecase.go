package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/metrics"
)

// PostingService turns business documents into balanced journal batches.
// A document moves from unposted to posted exactly once; the database
// unique key on (company_id, doc_type, doc_id) is the sole source of
// truth for "already posted".
type PostingService struct {
	txManager   TransactionManager
	journalRepo JournalRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewPostingService creates a new PostingService.
func NewPostingService(
	txManager TransactionManager,
	journalRepo JournalRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *PostingService {
	return &PostingService{
		txManager:   txManager,
		journalRepo: journalRepo,
		idGen:       idGen,
		metrics:     m,
		logger:      logger,
	}
}

// PostResult reports the batch a posting request resolved to.
// AlreadyPosted is set when another caller won the race for the same
// document; that is a success, not an error.
type PostResult struct {
	BatchID       int64
	Reference     string
	AlreadyPosted bool
}

// Post posts a document inside a transaction owned by the service. It
// commits on success and rolls back on any failure.
func (s *PostingService) Post(ctx context.Context, req domain.PostingRequest, mapper JournalMapper) (PostResult, error) {
	if err := req.Validate(); err != nil {
		return PostResult{}, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return PostResult{}, err
	}
	defer tx.Rollback(ctx)

	result, err := s.PostInTx(ctx, tx, req, mapper)
	if err != nil {
		return PostResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return PostResult{}, err
	}

	return result, nil
}

// PostInTx posts a document on a transaction owned by the caller. The
// service never commits or rolls back tx; any error must make the
// caller's transaction roll back.
func (s *PostingService) PostInTx(ctx context.Context, tx Transaction, req domain.PostingRequest, mapper JournalMapper) (PostResult, error) {
	started := time.Now()

	result, err := s.postInTx(ctx, tx, req, mapper)
	if err != nil {
		s.metrics.PostingErrors.WithLabelValues(string(req.DocType)).Inc()
		return PostResult{}, err
	}

	s.metrics.PostingDuration.Observe(time.Since(started).Seconds())

	return result, nil
}

func (s *PostingService) postInTx(ctx context.Context, tx Transaction, req domain.PostingRequest, mapper JournalMapper) (PostResult, error) {
	if err := req.Validate(); err != nil {
		return PostResult{}, err
	}

	// Cheap pre-check. The unique key still decides under concurrency.
	existing, err := s.journalRepo.GetBatchByDoc(ctx, tx, req.CompanyID, req.DocType, req.DocID)
	if err != nil && !errors.Is(err, domain.ErrJournalBatchNotFound) {
		return PostResult{}, err
	}
	if existing != nil {
		s.metrics.DuplicateRaces.Inc()
		return PostResult{BatchID: existing.ID, Reference: existing.Reference, AlreadyPosted: true}, nil
	}

	lines, err := mapper.MapToJournal(ctx, tx, req)
	if err != nil {
		return PostResult{}, fmt.Errorf("map %s %d: %w", req.DocType, req.DocID, err)
	}

	if err := domain.ValidateJournalLines(lines); err != nil {
		return PostResult{}, fmt.Errorf("%s %d: %w", req.DocType, req.DocID, err)
	}

	batch := &domain.JournalBatch{
		Reference: s.idGen.Generate(),
		CompanyID: req.CompanyID,
		OutletID:  req.OutletID,
		DocType:   req.DocType,
		DocID:     req.DocID,
		PostedAt:  time.Now().UTC(),
	}

	batchID, inserted, err := s.journalRepo.CreateBatch(ctx, tx, batch)
	if err != nil {
		return PostResult{}, err
	}

	if !inserted {
		// Lost the race: a concurrent poster created the batch between
		// the pre-check and our insert. Success by race.
		s.metrics.DuplicateRaces.Inc()
		winner, err := s.journalRepo.GetBatchByDoc(ctx, tx, req.CompanyID, req.DocType, req.DocID)
		if err != nil {
			return PostResult{}, err
		}

		s.logger.Info().
			Str("doc_type", string(req.DocType)).
			Int64("doc_id", req.DocID).
			Int64("company_id", req.CompanyID).
			Int64("batch_id", winner.ID).
			Msg("document already posted by concurrent writer")

		return PostResult{BatchID: winner.ID, Reference: winner.Reference, AlreadyPosted: true}, nil
	}

	for i := range lines {
		lines[i].BatchID = batchID
	}

	if err := s.journalRepo.CreateLines(ctx, tx, lines); err != nil {
		return PostResult{}, err
	}

	s.metrics.BatchesPosted.WithLabelValues(string(req.DocType)).Inc()
	s.metrics.LinesPerBatch.Observe(float64(len(lines)))

	s.logger.Info().
		Str("doc_type", string(req.DocType)).
		Int64("doc_id", req.DocID).
		Int64("company_id", req.CompanyID).
		Int64("batch_id", batchID).
		Str("reference", batch.Reference).
		Int("lines", len(lines)).
		Msg("journal batch posted")

	return PostResult{BatchID: batchID, Reference: batch.Reference}, nil
}

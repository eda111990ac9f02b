package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/metrics"
)

// HookMode gates posting from the POS sync-push path.
type HookMode string

const (
	// HookDisabled keeps legacy sync behavior: the hook is a no-op.
	HookDisabled HookMode = "disabled"
	// HookShadow builds and validates lines without writing anything.
	HookShadow HookMode = "shadow"
	// HookActive posts for real on the sync endpoint's transaction.
	HookActive HookMode = "active"
)

// ParseHookMode parses a mode string. Unrecognized values report ok=false
// so the caller can warn and fall back to disabled.
func ParseHookMode(s string) (HookMode, bool) {
	switch HookMode(s) {
	case HookDisabled, HookShadow, HookActive:
		return HookMode(s), true
	}
	return HookDisabled, false
}

// HookError wraps a shadow/active failure with the mode attached, so
// operators can tell a shadow validation finding from an active posting
// failure without losing the cause.
type HookError struct {
	Mode HookMode
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("sync posting hook (%s): %v", e.Mode, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// HookOutcome describes what the hook did for one pushed transaction.
type HookOutcome struct {
	Mode       HookMode
	Posted     bool
	Validated  bool
	Skipped    bool
	SkipReason string
	BatchID    int64
}

// SyncPostingHook lets live POS synchronization opportunistically trigger
// posting without destabilizing the sync flow. The sync endpoint owns the
// transaction; in active mode the hook posts on it and never commits.
type SyncPostingHook struct {
	mode    HookMode
	posting *PostingService
	pos     POSTransactionRepository
	mapper  JournalMapper
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewSyncPostingHook creates a new SyncPostingHook.
func NewSyncPostingHook(
	mode HookMode,
	posting *PostingService,
	pos POSTransactionRepository,
	mapper JournalMapper,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SyncPostingHook {
	return &SyncPostingHook{
		mode:    mode,
		posting: posting,
		pos:     pos,
		mapper:  mapper,
		metrics: m,
		logger:  logger,
	}
}

// Mode returns the configured mode.
func (h *SyncPostingHook) Mode() HookMode {
	return h.mode
}

// OnPOSSalePushed runs after a POS transaction has been written by the
// sync endpoint, on the endpoint's still-open transaction. Only
// COMPLETED transactions are considered; everything else is a skipped
// outcome, never an error.
func (h *SyncPostingHook) OnPOSSalePushed(ctx context.Context, tx Transaction, companyID, posTransactionID int64) (HookOutcome, error) {
	if h.mode == HookDisabled {
		return h.skip("hook disabled"), nil
	}

	sale, err := h.pos.GetByID(ctx, tx, companyID, posTransactionID)
	if err != nil {
		return HookOutcome{Mode: h.mode}, h.fail(err)
	}

	if sale.Status != domain.POSStatusCompleted {
		return h.skip(fmt.Sprintf("status %s", sale.Status)), nil
	}

	req := domain.PostingRequest{
		DocType:   domain.DocTypePOSSale,
		DocID:     sale.ID,
		CompanyID: sale.CompanyID,
		OutletID:  &sale.OutletID,
	}

	switch h.mode {
	case HookShadow:
		lines, err := h.mapper.MapToJournal(ctx, tx, req)
		if err == nil {
			err = domain.ValidateJournalLines(lines)
		}
		if err != nil {
			return HookOutcome{Mode: h.mode}, h.fail(err)
		}

		h.metrics.HookOutcomes.WithLabelValues(string(h.mode), "validated").Inc()
		h.logger.Debug().Int64("pos_transaction_id", sale.ID).Msg("shadow validation passed")

		return HookOutcome{Mode: h.mode, Validated: true}, nil

	case HookActive:
		result, err := h.posting.PostInTx(ctx, tx, req, h.mapper)
		if err != nil {
			return HookOutcome{Mode: h.mode}, h.fail(err)
		}

		if result.AlreadyPosted {
			outcome := h.skip("already posted")
			outcome.BatchID = result.BatchID
			return outcome, nil
		}

		h.metrics.HookOutcomes.WithLabelValues(string(h.mode), "posted").Inc()

		return HookOutcome{Mode: h.mode, Posted: true, BatchID: result.BatchID}, nil
	}

	return h.skip("hook disabled"), nil
}

func (h *SyncPostingHook) skip(reason string) HookOutcome {
	h.metrics.HookOutcomes.WithLabelValues(string(h.mode), "skipped").Inc()

	return HookOutcome{Mode: h.mode, Skipped: true, SkipReason: reason}
}

func (h *SyncPostingHook) fail(err error) error {
	h.metrics.HookOutcomes.WithLabelValues(string(h.mode), "failed").Inc()

	return &HookError{Mode: h.mode, Err: err}
}

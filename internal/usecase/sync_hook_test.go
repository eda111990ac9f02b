package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/metrics"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
	"github.com/s18id/jurnapod-sub001/internal/usecase/mocks"
)

func TestParseHookMode(t *testing.T) {
	tests := []struct {
		input    string
		wantMode usecase.HookMode
		wantOK   bool
	}{
		{input: "disabled", wantMode: usecase.HookDisabled, wantOK: true},
		{input: "shadow", wantMode: usecase.HookShadow, wantOK: true},
		{input: "active", wantMode: usecase.HookActive, wantOK: true},
		{input: "", wantMode: usecase.HookDisabled, wantOK: false},
		{input: "Shadow", wantMode: usecase.HookDisabled, wantOK: false},
		{input: "on", wantMode: usecase.HookDisabled, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, ok := usecase.ParseHookMode(tt.input)
			if mode != tt.wantMode || ok != tt.wantOK {
				t.Errorf("ParseHookMode(%q) = (%s, %v), want (%s, %v)", tt.input, mode, ok, tt.wantMode, tt.wantOK)
			}
		})
	}
}

type hookFixture struct {
	hook     *usecase.SyncPostingHook
	pos      *mocks.MockPOSTransactionRepository
	journals *mocks.MockJournalRepository
	tx       *mocks.MockTransaction
}

func newHookFixture(t *testing.T, mode usecase.HookMode, mapper usecase.JournalMapper) *hookFixture {
	t.Helper()

	m := metrics.New(prometheus.NewRegistry())
	journals := mocks.NewMockJournalRepository()
	pos := mocks.NewMockPOSTransactionRepository()

	posting := usecase.NewPostingService(
		mocks.NewMockTransactionManager(), journals, mocks.NewMockIDGenerator(), m, zerolog.Nop())

	return &hookFixture{
		hook:     usecase.NewSyncPostingHook(mode, posting, pos, mapper, m, zerolog.Nop()),
		pos:      pos,
		journals: journals,
		tx:       mocks.NewMockTransaction(),
	}
}

func completedSale() domain.POSTransaction {
	return domain.POSTransaction{
		ID: 1, CompanyID: 1, OutletID: 3, Code: "POS-0001",
		Status: domain.POSStatusCompleted, TransactionDate: saleDate,
		GrandTotal: decimal.NewFromInt(80000),
	}
}

func TestSyncPostingHook_Disabled(t *testing.T) {
	f := newHookFixture(t, usecase.HookDisabled, balancedMapper(100))

	outcome, err := f.hook.OnPOSSalePushed(context.Background(), f.tx, 1, 1)
	if err != nil {
		t.Fatalf("OnPOSSalePushed: %v", err)
	}

	if !outcome.Skipped || outcome.SkipReason != "hook disabled" {
		t.Errorf("expected disabled skip, got %+v", outcome)
	}
}

func TestSyncPostingHook_SkipsNonCompleted(t *testing.T) {
	f := newHookFixture(t, usecase.HookActive, balancedMapper(100))

	sale := completedSale()
	sale.Status = domain.POSStatusVoided
	f.pos.AddTransaction(sale, nil, nil)

	outcome, err := f.hook.OnPOSSalePushed(context.Background(), f.tx, 1, 1)
	if err != nil {
		t.Fatalf("OnPOSSalePushed: %v", err)
	}

	if !outcome.Skipped || !strings.Contains(outcome.SkipReason, domain.POSStatusVoided) {
		t.Errorf("expected skip naming the status, got %+v", outcome)
	}

	if f.journals.BatchCount() != 0 {
		t.Error("non-completed sale must not be posted")
	}
}

func TestSyncPostingHook_ShadowValidatesOnly(t *testing.T) {
	f := newHookFixture(t, usecase.HookShadow, balancedMapper(80000))
	f.pos.AddTransaction(completedSale(), nil, nil)

	outcome, err := f.hook.OnPOSSalePushed(context.Background(), f.tx, 1, 1)
	if err != nil {
		t.Fatalf("OnPOSSalePushed: %v", err)
	}

	if !outcome.Validated || outcome.Posted {
		t.Errorf("shadow should validate without posting, got %+v", outcome)
	}

	if f.journals.BatchCount() != 0 {
		t.Error("shadow mode must not write batches")
	}
}

func TestSyncPostingHook_ShadowFailureWrapsHookError(t *testing.T) {
	mapErr := errors.New("mapping table gap")
	failing := mapperFunc(func(ctx context.Context, tx usecase.Transaction, req domain.PostingRequest) ([]domain.JournalLine, error) {
		return nil, mapErr
	})

	f := newHookFixture(t, usecase.HookShadow, failing)
	f.pos.AddTransaction(completedSale(), nil, nil)

	_, err := f.hook.OnPOSSalePushed(context.Background(), f.tx, 1, 1)

	var hookErr *usecase.HookError
	if !errors.As(err, &hookErr) {
		t.Fatalf("expected HookError, got %v", err)
	}

	if hookErr.Mode != usecase.HookShadow {
		t.Errorf("hook error mode = %s, want shadow", hookErr.Mode)
	}

	if !errors.Is(err, mapErr) {
		t.Error("HookError should unwrap to the cause")
	}
}

func TestSyncPostingHook_ActivePosts(t *testing.T) {
	f := newHookFixture(t, usecase.HookActive, balancedMapper(80000))
	f.pos.AddTransaction(completedSale(), nil, nil)

	outcome, err := f.hook.OnPOSSalePushed(context.Background(), f.tx, 1, 1)
	if err != nil {
		t.Fatalf("OnPOSSalePushed: %v", err)
	}

	if !outcome.Posted || outcome.BatchID == 0 {
		t.Errorf("expected posted outcome with batch id, got %+v", outcome)
	}

	if f.journals.BatchCount() != 1 {
		t.Errorf("expected 1 batch, got %d", f.journals.BatchCount())
	}

	// The sync endpoint owns tx; the hook must never settle it.
	if f.tx.Committed || f.tx.RolledBack {
		t.Error("hook must not commit or roll back the caller's transaction")
	}
}

func TestSyncPostingHook_ActiveAlreadyPosted(t *testing.T) {
	f := newHookFixture(t, usecase.HookActive, balancedMapper(80000))
	f.pos.AddTransaction(completedSale(), nil, nil)

	first, err := f.hook.OnPOSSalePushed(context.Background(), f.tx, 1, 1)
	if err != nil {
		t.Fatalf("first push: %v", err)
	}

	second, err := f.hook.OnPOSSalePushed(context.Background(), f.tx, 1, 1)
	if err != nil {
		t.Fatalf("second push: %v", err)
	}

	if !second.Skipped || second.SkipReason != "already posted" {
		t.Errorf("expected already-posted skip, got %+v", second)
	}

	if second.BatchID != first.BatchID {
		t.Errorf("skip should name the existing batch %d, got %d", first.BatchID, second.BatchID)
	}
}

func TestSyncPostingHook_MissingSale(t *testing.T) {
	f := newHookFixture(t, usecase.HookActive, balancedMapper(100))

	_, err := f.hook.OnPOSSalePushed(context.Background(), f.tx, 1, 404)
	if !errors.Is(err, domain.ErrPOSTransactionNotFound) {
		t.Fatalf("expected ErrPOSTransactionNotFound, got %v", err)
	}

	var hookErr *usecase.HookError
	if !errors.As(err, &hookErr) {
		t.Fatal("lookup failure should be wrapped in HookError")
	}
}

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
	"github.com/s18id/jurnapod-sub001/internal/usecase/mocks"
)

func mustBalance(t *testing.T, lines []domain.JournalLine) {
	t.Helper()
	if err := domain.ValidateJournalLines(lines); err != nil {
		t.Fatalf("mapped lines do not balance: %v", err)
	}
}

func TestMapperFor(t *testing.T) {
	deps := usecase.MapperDeps{}

	for _, docType := range []domain.DocType{
		domain.DocTypeSalesInvoice,
		domain.DocTypeSalesPaymentIn,
		domain.DocTypeDepreciation,
		domain.DocTypePOSSale,
	} {
		mapper, err := usecase.MapperFor(docType, deps)
		if err != nil {
			t.Errorf("MapperFor(%s): %v", docType, err)
		}
		if mapper == nil {
			t.Errorf("MapperFor(%s) returned nil mapper", docType)
		}
	}

	if _, err := usecase.MapperFor("PURCHASE_INVOICE", deps); err == nil {
		t.Error("expected error for unknown doc type")
	}
}

func TestSalesInvoiceMapper(t *testing.T) {
	invoiceDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	outlet := int64(4)

	tests := []struct {
		name      string
		invoice   *domain.SalesInvoice
		wantLines int
	}{
		{
			name: "invoice with tax",
			invoice: &domain.SalesInvoice{
				ID: 1, CompanyID: 1, OutletID: &outlet, Number: "INV-001", InvoiceDate: invoiceDate,
				Subtotal:   decimal.NewFromInt(100000),
				TaxAmount:  decimal.NewFromInt(11000),
				GrandTotal: decimal.NewFromInt(111000),
			},
			wantLines: 3,
		},
		{
			name: "tax-free invoice omits the tax line",
			invoice: &domain.SalesInvoice{
				ID: 2, CompanyID: 1, OutletID: &outlet, Number: "INV-002", InvoiceDate: invoiceDate,
				Subtotal:   decimal.NewFromInt(50000),
				TaxAmount:  decimal.Zero,
				GrandTotal: decimal.NewFromInt(50000),
			},
			wantLines: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			invoices := mocks.NewMockSalesInvoiceRepository(ctrl)
			invoices.EXPECT().
				GetByID(gomock.Any(), gomock.Nil(), int64(1), tt.invoice.ID).
				Return(tt.invoice, nil)

			mappings := mocks.NewMockAccountMappingRepository()
			mappings.SetAccount(1, &outlet, domain.KeyAR, 100)
			mappings.SetAccount(1, &outlet, domain.KeySalesRevenue, 200)
			mappings.SetAccount(1, &outlet, domain.KeySalesTax, 300)

			mapper := usecase.NewSalesInvoiceMapper(invoices, mappings)

			req := domain.PostingRequest{DocType: domain.DocTypeSalesInvoice, DocID: tt.invoice.ID, CompanyID: 1, OutletID: &outlet}

			lines, err := mapper.MapToJournal(context.Background(), nil, req)
			if err != nil {
				t.Fatalf("MapToJournal: %v", err)
			}

			if len(lines) != tt.wantLines {
				t.Fatalf("got %d lines, want %d", len(lines), tt.wantLines)
			}

			mustBalance(t, lines)

			if lines[0].AccountID != 100 || !lines[0].Debit.Equal(tt.invoice.GrandTotal) {
				t.Errorf("first line should debit AR for the grand total, got %+v", lines[0])
			}

			if lines[1].AccountID != 200 || !lines[1].Credit.Equal(tt.invoice.Subtotal) {
				t.Errorf("second line should credit revenue for the subtotal, got %+v", lines[1])
			}
		})
	}
}

func TestSalesInvoiceMapper_MissingMappings(t *testing.T) {
	outlet := int64(4)
	ctrl := gomock.NewController(t)

	invoices := mocks.NewMockSalesInvoiceRepository(ctrl)
	invoices.EXPECT().
		GetByID(gomock.Any(), gomock.Nil(), int64(1), int64(1)).
		Return(&domain.SalesInvoice{
			ID: 1, CompanyID: 1, OutletID: &outlet, Number: "INV-001",
			Subtotal: decimal.NewFromInt(100), TaxAmount: decimal.NewFromInt(10), GrandTotal: decimal.NewFromInt(110),
		}, nil)

	mappings := mocks.NewMockAccountMappingRepository()
	mappings.SetAccount(1, &outlet, domain.KeyAR, 100)

	mapper := usecase.NewSalesInvoiceMapper(invoices, mappings)
	req := domain.PostingRequest{DocType: domain.DocTypeSalesInvoice, DocID: 1, CompanyID: 1, OutletID: &outlet}

	_, err := mapper.MapToJournal(context.Background(), nil, req)

	var missing *domain.MissingMappingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingMappingError, got %v", err)
	}

	if len(missing.Keys) != 2 {
		t.Errorf("expected both missing keys reported at once, got %v", missing.Keys)
	}

	if !errors.Is(err, domain.ErrOutletAccountMappingMissing) {
		t.Error("error should unwrap to ErrOutletAccountMappingMissing")
	}
}

func TestSalesInvoiceMapper_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)

	invoices := mocks.NewMockSalesInvoiceRepository(ctrl)
	invoices.EXPECT().
		GetByID(gomock.Any(), gomock.Nil(), int64(1), int64(99)).
		Return(nil, domain.ErrSalesInvoiceNotFound)

	mapper := usecase.NewSalesInvoiceMapper(invoices, mocks.NewMockAccountMappingRepository())
	req := domain.PostingRequest{DocType: domain.DocTypeSalesInvoice, DocID: 99, CompanyID: 1}

	if _, err := mapper.MapToJournal(context.Background(), nil, req); !errors.Is(err, domain.ErrSalesInvoiceNotFound) {
		t.Fatalf("expected ErrSalesInvoiceNotFound, got %v", err)
	}
}

func TestSalesPaymentMapper(t *testing.T) {
	paidAt := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	outlet := int64(4)

	ctrl := gomock.NewController(t)
	payments := mocks.NewMockSalesPaymentRepository(ctrl)
	payments.EXPECT().
		GetByID(gomock.Any(), gomock.Nil(), int64(1), int64(10)).
		Return(&domain.SalesPayment{
			ID: 10, CompanyID: 1, OutletID: &outlet, InvoiceID: 1, InvoiceNumber: "INV-001",
			MethodCode: "bank_transfer", Amount: decimal.NewFromInt(111000), PaidAt: paidAt,
		}, nil)

	mappings := mocks.NewMockAccountMappingRepository()
	mappings.SetPaymentAccount(1, &outlet, "BANK_TRANSFER", 150)
	mappings.SetAccount(1, &outlet, domain.KeyAR, 100)

	mapper := usecase.NewSalesPaymentMapper(payments, mappings)
	req := domain.PostingRequest{DocType: domain.DocTypeSalesPaymentIn, DocID: 10, CompanyID: 1, OutletID: &outlet}

	lines, err := mapper.MapToJournal(context.Background(), nil, req)
	if err != nil {
		t.Fatalf("MapToJournal: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	mustBalance(t, lines)

	if lines[0].AccountID != 150 {
		t.Errorf("debit should hit the bank transfer account, got %d", lines[0].AccountID)
	}

	if lines[1].AccountID != 100 {
		t.Errorf("credit should hit AR, got %d", lines[1].AccountID)
	}

	want := "Payment for invoice INV-001 via BANK_TRANSFER"
	if lines[0].Description != want {
		t.Errorf("description = %q, want %q", lines[0].Description, want)
	}
}

func TestSalesPaymentMapper_UnmappedMethod(t *testing.T) {
	outlet := int64(4)

	ctrl := gomock.NewController(t)
	payments := mocks.NewMockSalesPaymentRepository(ctrl)
	payments.EXPECT().
		GetByID(gomock.Any(), gomock.Nil(), int64(1), int64(10)).
		Return(&domain.SalesPayment{
			ID: 10, CompanyID: 1, OutletID: &outlet, InvoiceNumber: "INV-001",
			MethodCode: "CRYPTO", Amount: decimal.NewFromInt(100),
		}, nil)

	mapper := usecase.NewSalesPaymentMapper(payments, mocks.NewMockAccountMappingRepository())
	req := domain.PostingRequest{DocType: domain.DocTypeSalesPaymentIn, DocID: 10, CompanyID: 1, OutletID: &outlet}

	if _, err := mapper.MapToJournal(context.Background(), nil, req); !errors.Is(err, domain.ErrOutletPaymentMappingMissing) {
		t.Fatalf("expected ErrOutletPaymentMappingMissing, got %v", err)
	}
}

func TestDepreciationMapper(t *testing.T) {
	runDate := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	outlet := int64(2)

	ctrl := gomock.NewController(t)
	runs := mocks.NewMockDepreciationRunRepository(ctrl)
	runs.EXPECT().
		GetByID(gomock.Any(), gomock.Nil(), int64(1), int64(5)).
		Return(&domain.DepreciationRun{
			ID: 5, CompanyID: 1, AssetID: 3, AssetName: "Espresso machine", OutletID: &outlet,
			Period: "2025-04", RunDate: runDate, Amount: decimal.RequireFromString("277.78"),
		}, nil)

	mappings := mocks.NewMockAccountMappingRepository()
	mappings.SetAccount(1, &outlet, domain.KeyDepreciationExpense, 700)
	mappings.SetAccount(1, &outlet, domain.KeyAccumDepreciation, 800)

	mapper := usecase.NewDepreciationMapper(runs, mappings)
	req := domain.PostingRequest{DocType: domain.DocTypeDepreciation, DocID: 5, CompanyID: 1, OutletID: &outlet}

	lines, err := mapper.MapToJournal(context.Background(), nil, req)
	if err != nil {
		t.Fatalf("MapToJournal: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	mustBalance(t, lines)

	if lines[0].AccountID != 700 || !lines[0].Debit.Equal(decimal.RequireFromString("277.78")) {
		t.Errorf("expense debit wrong: %+v", lines[0])
	}

	if lines[1].AccountID != 800 {
		t.Errorf("credit should hit accumulated depreciation, got %d", lines[1].AccountID)
	}

	want := "Depreciation 2025-04 - Espresso machine"
	if lines[0].Description != want {
		t.Errorf("description = %q, want %q", lines[0].Description, want)
	}
}

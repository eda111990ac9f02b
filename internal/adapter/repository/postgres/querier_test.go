package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	tests := []string{
		"0",
		"1",
		"-1",
		"0.5",
		"123456.78",
		"-99.999",
		"11000.0001",
	}

	for _, input := range tests {
		d := decimal.RequireFromString(input)
		got := numericToDecimal(decimalToNumeric(d))

		if !got.Equal(d) {
			t.Fatalf("round trip of %s produced %s", d, got)
		}
	}
}

func TestNumericToDecimalInvalid(t *testing.T) {
	got := numericToDecimal(pgtype.Numeric{})
	if !got.Equal(decimal.Zero) {
		t.Fatalf("expected zero for invalid numeric, got %s", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "journal_batches_company_doc_key"}

	if !IsUniqueViolation(dup, "journal_batches_company_doc_key") {
		t.Fatalf("expected duplicate key error to match its constraint")
	}

	if IsUniqueViolation(dup, "some_other_key") {
		t.Fatalf("expected constraint name mismatch to not match")
	}

	if IsUniqueViolation(errors.New("boom"), "journal_batches_company_doc_key") {
		t.Fatalf("expected non-pg error to not match")
	}
}

func TestTimeToPgTimestamptz(t *testing.T) {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	ts := timeToPgTimestamptz(now)
	if !ts.Valid || !ts.Time.Equal(now) {
		t.Fatalf("unexpected timestamptz: %+v", ts)
	}
}

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/s18id/jurnapod-sub001/internal/usecase"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestBackfillInput(t *testing.T) {
	input := backfillInput(5, true, 3, true, false, 100, true)

	if input.CompanyID == nil || *input.CompanyID != 5 {
		t.Fatalf("expected company scope 5, got %v", input.CompanyID)
	}
	if input.OutletID == nil || *input.OutletID != 3 {
		t.Fatalf("expected outlet scope 3, got %v", input.OutletID)
	}
	if input.AllCompanies || input.Limit != 100 || !input.Execute {
		t.Fatalf("unexpected input: %+v", input)
	}
}

func TestBackfillInputUnsetScopesAreNil(t *testing.T) {
	input := backfillInput(0, false, 0, false, true, 50, false)

	if input.CompanyID != nil || input.OutletID != nil {
		t.Fatalf("expected unset scopes to be nil, got company=%v outlet=%v", input.CompanyID, input.OutletID)
	}
	if !input.AllCompanies || input.Execute {
		t.Fatalf("unexpected input: %+v", input)
	}
}

func TestBackfillReportView(t *testing.T) {
	report := &usecase.BackfillReport{
		DryRun:     false,
		Candidates: 2,
		Posted:     1,
		Failed:     1,
		Rows: []usecase.BackfillRow{
			{CompanyID: 1, POSTransactionID: 10, Status: usecase.BackfillRowPosted, BatchID: 7},
			{CompanyID: 1, POSTransactionID: 11, Status: usecase.BackfillRowFailed, Err: errors.New("mapping missing")},
		},
	}

	view := backfillReportView(report)

	if view.Candidates != 2 || view.Posted != 1 || view.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", view)
	}
	if len(view.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(view.Rows))
	}
	if view.Rows[0].BatchID != 7 || view.Rows[0].Error != "" {
		t.Fatalf("unexpected posted row: %+v", view.Rows[0])
	}
	if view.Rows[1].Error != "mapping missing" {
		t.Fatalf("expected row error to be rendered, got %+v", view.Rows[1])
	}
}

func TestReconReportView(t *testing.T) {
	outlet := int64(3)
	report := &usecase.ReconciliationReport{
		CompanyID:        1,
		OutletID:         &outlet,
		CheckedAt:        time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC),
		MissingBatches:   1,
		MissingSampleIDs: []int64{42},
	}

	view := reconReportView(report)

	if view.Consistent {
		t.Fatalf("expected inconsistent report")
	}
	if view.CheckedAt != "2025-04-01T09:30:00Z" {
		t.Fatalf("expected RFC3339 timestamp, got %s", view.CheckedAt)
	}
	if view.OutletID == nil || *view.OutletID != outlet {
		t.Fatalf("expected outlet scope, got %v", view.OutletID)
	}
	if view.MissingBatches != 1 || len(view.MissingSampleIDs) != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestRootCmdRegistersCommands(t *testing.T) {
	rootCmd := newRootCmd()

	expected := map[string]bool{
		"post":      false,
		"backfill":  false,
		"reconcile": false,
		"migrate":   false,
	}

	for _, cmd := range rootCmd.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := expected[name]; ok {
			expected[name] = true
		}
	}

	for name, seen := range expected {
		if !seen {
			t.Fatalf("expected %s command to be registered", name)
		}
	}
}

func TestBackfillCmdFlagSurface(t *testing.T) {
	cmd := backfillCmd()

	for _, name := range []string{"company-id", "all-companies", "outlet-id", "limit", "dry-run", "execute"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Fatalf("expected --%s flag to be registered", name)
		}
	}

	if def := cmd.Flags().Lookup("dry-run").DefValue; def != "true" {
		t.Fatalf("expected --dry-run to default to true, got %s", def)
	}
}

func TestBackfillCmdDryRunExcludesExecute(t *testing.T) {
	cmd := backfillCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--dry-run", "--execute", "--company-id", "1"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected --dry-run and --execute together to fail")
	}
}

func TestReconcileCmdRequiresCompanyID(t *testing.T) {
	cmd := reconcileCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected missing --company-id to fail")
	}
}

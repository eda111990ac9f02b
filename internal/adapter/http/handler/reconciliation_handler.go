package handler

import (
	"net/http"
	"time"

	"github.com/s18id/jurnapod-sub001/internal/usecase"
)

// ReconciliationHandler serves on-demand ledger consistency reports.
type ReconciliationHandler struct {
	uc *usecase.ReconciliationUseCase
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(uc *usecase.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{uc: uc}
}

type reconciliationResponse struct {
	CompanyID int64  `json:"company_id"`
	OutletID  *int64 `json:"outlet_id,omitempty"`
	CheckedAt string `json:"checked_at"`

	Consistent bool `json:"consistent"`

	MissingBatches   int64   `json:"missing_batches"`
	MissingSampleIDs []int64 `json:"missing_sample_ids"`

	UnbalancedBatches   int64   `json:"unbalanced_batches"`
	UnbalancedSampleIDs []int64 `json:"unbalanced_sample_ids"`

	OrphanBatches   int64   `json:"orphan_batches"`
	OrphanSampleIDs []int64 `json:"orphan_sample_ids"`
}

// Report handles GET /api/v1/reconciliation.
//
// Query parameters: company_id (required), outlet_id (optional),
// sample_limit (optional, clamped by the use case).
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	companyID, ok := queryInt64(r, "company_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid company_id", "company_id must be an integer")
		return
	}
	if companyID == nil {
		writeError(w, http.StatusBadRequest, "missing company_id", "company_id query parameter is required")
		return
	}

	outletID, ok := queryInt64(r, "outlet_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid outlet_id", "outlet_id must be an integer")
		return
	}

	sampleLimit := 0
	if v, ok := queryInt64(r, "sample_limit"); !ok {
		writeError(w, http.StatusBadRequest, "invalid sample_limit", "sample_limit must be an integer")
		return
	} else if v != nil {
		sampleLimit = int(*v)
	}

	report, err := h.uc.Report(r.Context(), *companyID, outletID, sampleLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reconciliation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, reconciliationResponse{
		CompanyID:           report.CompanyID,
		OutletID:            report.OutletID,
		CheckedAt:           report.CheckedAt.UTC().Format(time.RFC3339),
		Consistent:          report.Consistent(),
		MissingBatches:      report.MissingBatches,
		MissingSampleIDs:    report.MissingSampleIDs,
		UnbalancedBatches:   report.UnbalancedBatches,
		UnbalancedSampleIDs: report.UnbalancedSampleIDs,
		OrphanBatches:       report.OrphanBatches,
		OrphanSampleIDs:     report.OrphanSampleIDs,
	})
}

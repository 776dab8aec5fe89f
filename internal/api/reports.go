package api

import (
	"net/http"

	"vetclinic/m/domain"
)

// reportRange parses the date range and writes a 400 when it is malformed.
func reportRange(w http.ResponseWriter, r *http.Request) (domain.DateRange, bool) {
	dr, err := dateRange(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return dr, false
	}
	return dr, true
}

func (h *Handler) profitLossReport(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if dr, ok := reportRange(w, r); ok {
		respondJSON(w, http.StatusOK, h.store.ProfitLossReport(dr))
	}
}

func (h *Handler) inventoryReport(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if dr, ok := reportRange(w, r); ok {
		respondJSON(w, http.StatusOK, h.store.InventoryReport(dr))
	}
}

func (h *Handler) customersReport(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if dr, ok := reportRange(w, r); ok {
		respondJSON(w, http.StatusOK, h.store.CustomersReport(dr))
	}
}

func (h *Handler) suppliersReport(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if dr, ok := reportRange(w, r); ok {
		respondJSON(w, http.StatusOK, h.store.SuppliersReport(dr))
	}
}

func (h *Handler) paymentsReport(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if dr, ok := reportRange(w, r); ok {
		respondJSON(w, http.StatusOK, h.store.PaymentsReport(dr))
	}
}

func (h *Handler) dashboardAlerts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.DashboardAlerts())
}

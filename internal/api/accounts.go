package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vetclinic/m/domain"
	"vetclinic/m/internal/ledger"
)

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Expenses())
}

func (h *Handler) saveExpense(w http.ResponseWriter, r *http.Request) {
	var req domain.Expense
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ID = chi.URLParam(r, "id")
	e, err := h.store.SaveExpense(r.Context(), req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, statusFor(req.ID), e)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if err := h.store.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	respondJSON(w, http.StatusOK, h.store.AccountTransactions())
}

func (h *Handler) saveManualTransaction(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var req ledger.ManualTransaction
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ID = chi.URLParam(r, "id")
	tx, err := h.store.SaveManualTransaction(r.Context(), req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, statusFor(req.ID), tx)
}

func (h *Handler) deleteManualTransaction(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if err := h.store.DeleteManualTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) latestBalances(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	respondJSON(w, http.StatusOK, h.store.LatestBalances())
}

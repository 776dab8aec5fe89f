package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vetclinic/m/domain"
)

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Customers())
}

func (h *Handler) saveCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.Customer
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ID = chi.URLParam(r, "id")
	c, err := h.store.SaveCustomer(r.Context(), req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, statusFor(req.ID), c)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if err := h.store.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) customerLedger(w http.ResponseWriter, r *http.Request) {
	dr, ok := reportRange(w, r)
	if !ok {
		return
	}
	entries, err := h.store.CustomerLedger(chi.URLParam(r, "id"), dr)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Suppliers())
}

func (h *Handler) saveSupplier(w http.ResponseWriter, r *http.Request) {
	var req domain.Supplier
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ID = chi.URLParam(r, "id")
	s, err := h.store.SaveSupplier(r.Context(), req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, statusFor(req.ID), s)
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if err := h.store.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) supplierLedger(w http.ResponseWriter, r *http.Request) {
	dr, ok := reportRange(w, r)
	if !ok {
		return
	}
	entries, err := h.store.SupplierLedger(chi.URLParam(r, "id"), dr)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) partyHistory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.PartyHistory(chi.URLParam(r, "id")))
}

// Payment handlers

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Payments())
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.Payment
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.store.SavePayment(r.Context(), req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// statusFor picks 201 for creates (no id in the path) and 200 for updates.
func statusFor(id string) int {
	if id == "" {
		return http.StatusCreated
	}
	return http.StatusOK
}

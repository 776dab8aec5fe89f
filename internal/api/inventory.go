package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vetclinic/m/domain"
	"vetclinic/m/internal/ledger"
)

// Product handlers

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Products())
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Product(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ledger.ProductInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.store.SaveProduct(r.Context(), req, true)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req ledger.ProductInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ID = chi.URLParam(r, "id")
	p, err := h.store.SaveProduct(r.Context(), req, false)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if err := h.store.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) productHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.store.ProductHistory(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// Invoice handlers

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices := h.store.Invoices()
	if t := domain.InvoiceType(r.URL.Query().Get("type")); t != "" {
		filtered := invoices[:0]
		for _, inv := range invoices {
			if inv.Type == t {
				filtered = append(filtered, inv)
			}
		}
		invoices = filtered
	}
	respondJSON(w, http.StatusOK, invoices)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req domain.Invoice
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	inv, err := h.store.SaveInvoice(r.Context(), req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, inv)
}

func (h *Handler) invoiceDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.store.InvoiceDetails(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	if err := h.store.DeleteInvoice(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

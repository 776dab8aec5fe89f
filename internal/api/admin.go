package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vetclinic/m/domain"
)

const maxImportBytes = 32 << 20

// User handlers

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	respondJSON(w, http.StatusOK, h.store.Users())
}

func (h *Handler) saveUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var req domain.User
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ID = chi.URLParam(r, "id")
	u, err := h.store.SaveUser(r.Context(), req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, statusFor(req.ID), u)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id := chi.URLParam(r, "id")
	if uid, _ := r.Context().Value(ctxUserID).(string); uid == id {
		respondError(w, http.StatusBadRequest, "cannot delete the signed-in user")
		return
	}
	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Settings handlers

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.ClinicSettings())
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var req domain.ClinicSettings
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.store.SaveClinicSettings(r.Context(), req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// Export / import

func (h *Handler) exportData(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	body, err := h.store.ExportData()
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	name := fmt.Sprintf("vetclinic_backup_%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) importData(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "unable to read import body")
		return
	}
	if err := h.store.ImportData(r.Context(), body); err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// Sync handlers

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sync.Status())
}

func (h *Handler) syncFlush(w http.ResponseWriter, r *http.Request) {
	sent, err := h.sync.Flush(r.Context())
	if err != nil {
		respondJSON(w, http.StatusBadGateway, map[string]any{"sent": sent, "error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"sent": sent, "status": h.sync.Status()})
}

// Backup handlers

func (h *Handler) listBackups(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.backups.List(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snaps)
}

func (h *Handler) createBackup(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	snap, err := h.backups.Backup(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, snap)
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"vetclinic/m/domain"
	"vetclinic/m/internal/ledger"
	"vetclinic/m/internal/store"
	"vetclinic/m/internal/syncq"
)

type ctxKey string

const (
	ctxUserID ctxKey = "userID"
	ctxRole   ctxKey = "role"
)

// SyncService is the part of the sync drainer exposed over HTTP.
type SyncService interface {
	Status() syncq.Status
	Flush(ctx context.Context) (int, error)
}

// BackupService is the part of the backup scheduler exposed over HTTP.
type BackupService interface {
	List(ctx context.Context) ([]domain.BackupSnapshot, error)
	Backup(ctx context.Context) (domain.BackupSnapshot, error)
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store   *store.Store
	sync    SyncService
	backups BackupService
	secret  string
	origins []string
	log     logrus.FieldLogger
}

// New constructs a Handler.
func New(s *store.Store, sync SyncService, backups BackupService, secret string, origins []string, log logrus.FieldLogger) *Handler {
	return &Handler{store: s, sync: sync, backups: backups, secret: secret, origins: origins, log: log}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: h.log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/reset-password", h.resetPassword)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Get("/{id}", h.getProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
			r.Get("/{id}/history", h.productHistory)
		})

		pr.Route("/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.saveCustomer)
			r.Put("/{id}", h.saveCustomer)
			r.Delete("/{id}", h.deleteCustomer)
			r.Get("/{id}/ledger", h.customerLedger)
			r.Get("/{id}/history", h.partyHistory)
		})

		pr.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.listSuppliers)
			r.Post("/", h.saveSupplier)
			r.Put("/{id}", h.saveSupplier)
			r.Delete("/{id}", h.deleteSupplier)
			r.Get("/{id}/ledger", h.supplierLedger)
			r.Get("/{id}/history", h.partyHistory)
		})

		pr.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.listInvoices)
			r.Post("/", h.createInvoice)
			r.Get("/{id}", h.invoiceDetails)
			r.Delete("/{id}", h.deleteInvoice)
		})

		pr.Route("/payments", func(r chi.Router) {
			r.Get("/", h.listPayments)
			r.Post("/", h.createPayment)
		})

		pr.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.listExpenses)
			r.Post("/", h.saveExpense)
			r.Put("/{id}", h.saveExpense)
			r.Delete("/{id}", h.deleteExpense)
		})

		pr.Route("/accounts", func(r chi.Router) {
			r.Get("/transactions", h.listTransactions)
			r.Post("/transactions", h.saveManualTransaction)
			r.Put("/transactions/{id}", h.saveManualTransaction)
			r.Delete("/transactions/{id}", h.deleteManualTransaction)
			r.Get("/balances", h.latestBalances)
		})

		pr.Route("/reports", func(r chi.Router) {
			r.Get("/profit-loss", h.profitLossReport)
			r.Get("/inventory", h.inventoryReport)
			r.Get("/customers", h.customersReport)
			r.Get("/suppliers", h.suppliersReport)
			r.Get("/payments", h.paymentsReport)
			r.Get("/dashboard", h.dashboardAlerts)
		})

		pr.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Post("/", h.saveUser)
			r.Put("/{id}", h.saveUser)
			r.Delete("/{id}", h.deleteUser)
		})

		pr.Get("/settings", h.getSettings)
		pr.Put("/settings", h.saveSettings)

		pr.Get("/data/export", h.exportData)
		pr.Post("/data/import", h.importData)

		pr.Get("/sync/status", h.syncStatus)
		pr.Post("/sync/flush", h.syncFlush)

		pr.Get("/backups", h.listBackups)
		pr.Post("/backups", h.createBackup)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication helpers

type authClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(userID string, role domain.Role) (string, error) {
	claims := authClaims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...domain.Role) bool {
	current, ok := r.Context().Value(ctxRole).(string)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing role")
		return false
	}
	for _, allowedRole := range allowed {
		if current == string(allowedRole) {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

// Auth Handlers

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.store.Authenticate(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.generateToken(user.ID, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "new_password is required")
		return
	}
	uid, _ := r.Context().Value(ctxUserID).(string)
	for _, u := range h.store.Users() {
		if u.ID != uid {
			continue
		}
		u.Password = payload.NewPassword
		if _, err := h.store.SaveUser(r.Context(), u); err != nil {
			h.respondErr(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
		return
	}
	respondError(w, http.StatusNotFound, "user not found")
}

// Helpers

// respondErr maps ledger error kinds to HTTP statuses.
func (h *Handler) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrReferentialIntegrity):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrDataCorruption):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithField("request_id", middleware.GetReqID(r.Context())).Error("request failed")
		respondError(w, status, "internal error")
		return
	}
	respondError(w, status, err.Error())
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// dateRange reads the optional startDate and endDate query parameters.
func dateRange(r *http.Request) (domain.DateRange, error) {
	var (
		dr  domain.DateRange
		err error
	)
	q := r.URL.Query()
	if dr.Start, err = domain.ParseDate(q.Get("startDate")); err != nil {
		return dr, err
	}
	if dr.End, err = domain.ParseDate(q.Get("endDate")); err != nil {
		return dr, err
	}
	return dr, nil
}

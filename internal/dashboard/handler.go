package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/coinboard/backend/internal/auth"
	"github.com/coinboard/backend/internal/models"
	"github.com/coinboard/backend/internal/services"
)

// Engine is the subset of the marketplace engine the dashboard uses.
type Engine interface {
	GetAccount(id uuid.UUID) (models.Account, error)
	AddCoins(accountID uuid.UUID, amount int) (models.Account, error)
	LedgerFor(accountID uuid.UUID) iter.Seq[models.LedgerEntry]
	PlatformRevenue(callerID uuid.UUID) (int, error)
}

type Handler struct {
	authSvc auth.Service
	engine  Engine
	log     *slog.Logger
}

func NewHandler(authSvc auth.Service, engine Engine, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{authSvc: authSvc, engine: engine, log: log}
}

func (h *Handler) accountIDFromRequest(r *http.Request) (uuid.UUID, error) {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		return uuid.Nil, fmt.Errorf("missing authorization")
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return uuid.Nil, fmt.Errorf("bad authorization format")
	}
	token := strings.TrimSpace(authz[len(prefix):])
	if token == "" {
		return uuid.Nil, fmt.Errorf("empty token")
	}
	return h.authSvc.ValidateToken(token)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /api/v1/account/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID, err := h.accountIDFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	acc, err := h.engine.GetAccount(accountID)
	if err != nil {
		h.log.Error("get account failed", "error", err)
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":              acc.ID,
		"handle":          acc.Handle,
		"display_name":    acc.DisplayName,
		"avatar_ref":      acc.AvatarRef,
		"coins":           acc.Coins,
		"lifetime_earned": acc.LifetimeEarned,
		"lifetime_spent":  acc.LifetimeSpent,
		"is_privileged":   acc.IsPrivileged,
		"created_at":      acc.CreatedAt,
	})
}

// GET /api/v1/ledger
func (h *Handler) ListLedger(w http.ResponseWriter, r *http.Request) {
	accountID, err := h.accountIDFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	entries := []models.LedgerEntry{}
	for e := range h.engine.LedgerFor(accountID) {
		entries = append(entries, e)
	}
	writeJSON(w, http.StatusOK, entries)
}

// POST /api/v1/wallet/topup
func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	accountID, err := h.accountIDFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var body struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	acc, err := h.engine.AddCoins(accountID, body.Amount)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		h.log.Error("top-up failed", "error", err)
		http.Error(w, "top-up failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    acc.ID,
		"coins": acc.Coins,
	})
}

// GET /api/v1/platform/revenue — privileged accounts only.
func (h *Handler) PlatformRevenue(w http.ResponseWriter, r *http.Request) {
	accountID, err := h.accountIDFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	revenue, err := h.engine.PlatformRevenue(accountID)
	if err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			http.Error(w, "not authorized", http.StatusForbidden)
			return
		}
		h.log.Error("platform revenue failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"revenue": revenue})
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/coinboard/backend/internal/models"
)

// AccountEngine is the subset of the marketplace engine the account endpoint
// uses.
type AccountEngine interface {
	GetAccount(id uuid.UUID) (models.Account, error)
}

// AccountHandler serves /v1/accounts endpoints.
type AccountHandler struct {
	Engine AccountEngine
	Logger *slog.Logger
}

// GetAccount handles GET /v1/accounts/{id}. Used by the presentation layer
// to show poster and claimant details next to a task.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid account id"}`, http.StatusBadRequest)
		return
	}
	acc, err := h.Engine.GetAccount(id)
	if err != nil {
		http.Error(w, `{"error":"account not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

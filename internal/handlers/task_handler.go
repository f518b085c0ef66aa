package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/coinboard/backend/internal/middleware"
	"github.com/coinboard/backend/internal/models"
	"github.com/coinboard/backend/internal/services"
)

// TaskEngine is the subset of the marketplace engine the task endpoints use.
type TaskEngine interface {
	PostTask(title, description string, tags []string, bounty int, posterID uuid.UUID) (models.Task, error)
	ClaimTask(taskID, workerID uuid.UUID) (models.Task, error)
	SubmitWork(taskID, workerID uuid.UUID, note string) (models.Task, error)
	ApproveWork(taskID, posterID uuid.UUID) (models.Task, error)
	RejectWork(taskID, posterID uuid.UUID, reason string) (models.Task, error)
	GetTask(id uuid.UUID) (models.Task, error)
	ListTasks(query string) []models.Task
}

// TaskHandler serves /v1/tasks endpoints.
type TaskHandler struct {
	Engine TaskEngine
	Logger *slog.Logger
}

// --- POST /v1/tasks ---

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Bounty      int      `json:"bounty"`
}

// CreateTask handles POST /v1/tasks.
// Auth -> BountyCheck (via middleware) -> PostTask -> 201.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, `{"error":"title is required"}`, http.StatusBadRequest)
		return
	}

	task, err := h.Engine.PostTask(req.Title, req.Description, req.Tags, req.Bounty, acc.ID)
	if err != nil {
		h.writeEngineError(w, err, "post task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// --- GET /v1/tasks ---

// ListTasks handles GET /v1/tasks. The optional q parameter fuzzy-filters
// over title, description and tags; without it tasks come back
// most-recent-first.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := h.Engine.ListTasks(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, tasks)
}

// --- GET /v1/tasks/{id} ---

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromPath(r)
	if !ok {
		http.Error(w, `{"error":"invalid task id"}`, http.StatusBadRequest)
		return
	}
	task, err := h.Engine.GetTask(taskID)
	if err != nil {
		http.Error(w, `{"error":"task not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// --- POST /v1/tasks/{id}/claim ---

func (h *TaskHandler) ClaimTask(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(taskID, callerID uuid.UUID) (models.Task, error) {
		return h.Engine.ClaimTask(taskID, callerID)
	}, "claim task")
}

// --- POST /v1/tasks/{id}/submit ---

type submitWorkRequest struct {
	Note string `json:"note"`
}

func (h *TaskHandler) SubmitWork(w http.ResponseWriter, r *http.Request) {
	var req submitWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	h.lifecycle(w, r, func(taskID, callerID uuid.UUID) (models.Task, error) {
		return h.Engine.SubmitWork(taskID, callerID, req.Note)
	}, "submit work")
}

// --- POST /v1/tasks/{id}/approve ---

func (h *TaskHandler) ApproveWork(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(taskID, callerID uuid.UUID) (models.Task, error) {
		return h.Engine.ApproveWork(taskID, callerID)
	}, "approve work")
}

// --- POST /v1/tasks/{id}/reject ---

type rejectWorkRequest struct {
	Reason string `json:"reason"`
}

func (h *TaskHandler) RejectWork(w http.ResponseWriter, r *http.Request) {
	var req rejectWorkRequest
	if r.Body != nil {
		// Reason is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	h.lifecycle(w, r, func(taskID, callerID uuid.UUID) (models.Task, error) {
		return h.Engine.RejectWork(taskID, callerID, req.Reason)
	}, "reject work")
}

// --- helpers ---

// lifecycle factors the shared shape of the state-transition endpoints:
// resolve caller and task id, run the operation, map the error.
func (h *TaskHandler) lifecycle(w http.ResponseWriter, r *http.Request, op func(taskID, callerID uuid.UUID) (models.Task, error), what string) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	taskID, ok := taskIDFromPath(r)
	if !ok {
		http.Error(w, `{"error":"invalid task id"}`, http.StatusBadRequest)
		return
	}
	task, err := op(taskID, acc.ID)
	if err != nil {
		h.writeEngineError(w, err, what)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// writeEngineError maps the engine's error kinds onto HTTP statuses.
func (h *TaskHandler) writeEngineError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, services.ErrInsufficientFunds):
		http.Error(w, `{"error":"insufficient funds"}`, http.StatusPaymentRequired)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	case errors.Is(err, services.ErrTaskNotOpen):
		http.Error(w, `{"error":"task is not open"}`, http.StatusConflict)
	case errors.Is(err, services.ErrNotClaimant):
		http.Error(w, `{"error":"caller is not the claimant"}`, http.StatusForbidden)
	case errors.Is(err, services.ErrNotAuthorized):
		http.Error(w, `{"error":"not authorized"}`, http.StatusForbidden)
	case errors.Is(err, services.ErrInvalidAmount):
		http.Error(w, `{"error":"amount must be positive"}`, http.StatusBadRequest)
	default:
		h.Logger.Error(what, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
	}
}

func taskIDFromPath(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

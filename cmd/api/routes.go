package main

import (
	"log/slog"
	"net/http"

	"github.com/coinboard/backend/internal/auth"
	"github.com/coinboard/backend/internal/config"
	"github.com/coinboard/backend/internal/handlers"
	"github.com/coinboard/backend/internal/middleware"
	"github.com/coinboard/backend/internal/services"
)

// RegisterV1Routes adds the /v1 task and account endpoints to the given mux.
// Middleware chain: SessionAuth -> (BountyCheck on POST /v1/tasks only) -> handler.
func RegisterV1Routes(
	mux *http.ServeMux,
	engine *services.Engine,
	authSvc auth.Service,
	cfg *config.Config,
	logger *slog.Logger,
) {
	th := &handlers.TaskHandler{
		Engine: engine,
		Logger: logger,
	}
	ah := &handlers.AccountHandler{
		Engine: engine,
		Logger: logger,
	}

	sessionAuth := middleware.SessionAuth(authSvc, engine)
	bountyCheck := middleware.BountyCheck(cfg.Market.MaxBountyPerTask)

	// POST /v1/tasks — Auth -> Bounty -> CreateTask
	mux.Handle("POST /v1/tasks", sessionAuth(bountyCheck(http.HandlerFunc(th.CreateTask))))

	// GET /v1/tasks — Auth -> list, optional ?q= fuzzy filter
	mux.Handle("GET /v1/tasks", sessionAuth(http.HandlerFunc(th.ListTasks)))

	// GET /v1/tasks/{id} — Auth -> GetTask
	mux.Handle("GET /v1/tasks/{id}", sessionAuth(http.HandlerFunc(th.GetTask)))

	// Lifecycle transitions. Claim and submit come from the worker; approve
	// and reject from the original poster.
	mux.Handle("POST /v1/tasks/{id}/claim", sessionAuth(http.HandlerFunc(th.ClaimTask)))
	mux.Handle("POST /v1/tasks/{id}/submit", sessionAuth(http.HandlerFunc(th.SubmitWork)))
	mux.Handle("POST /v1/tasks/{id}/approve", sessionAuth(http.HandlerFunc(th.ApproveWork)))
	mux.Handle("POST /v1/tasks/{id}/reject", sessionAuth(http.HandlerFunc(th.RejectWork)))

	// GET /v1/accounts/{id} — Auth -> public account view
	mux.Handle("GET /v1/accounts/{id}", sessionAuth(http.HandlerFunc(ah.GetAccount)))
}

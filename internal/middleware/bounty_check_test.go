package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/coinboard/backend/internal/models"
)

// injectAccount wraps a handler to pre-set the account in context,
// simulating what SessionAuth would do upstream.
func injectAccount(acc *models.Account, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ctxAccountKey, acc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bounty200 proves the middleware let the request through, and echoes the
// body so tests can verify it was restored.
var bounty200 = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
})

func postJSON(body string) *httptest.ResponseRecorder {
	acc := &models.Account{ID: uuid.New()}
	handler := injectAccount(acc, BountyCheck(50)(bounty200))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestBountyCheck_WithinLimit(t *testing.T) {
	body := `{"title":"t","bounty":30}`
	rec := postJSON(body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	// Body must be restored for the handler.
	if rec.Body.String() != body {
		t.Errorf("handler saw body %q, want %q", rec.Body.String(), body)
	}
}

func TestBountyCheck_NonPositive(t *testing.T) {
	for _, body := range []string{`{"bounty":0}`, `{"bounty":-5}`, `{}`} {
		rec := postJSON(body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestBountyCheck_ExceedsCap(t *testing.T) {
	rec := postJSON(`{"bounty":51}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestBountyCheck_NoCap(t *testing.T) {
	acc := &models.Account{ID: uuid.New()}
	handler := injectAccount(acc, BountyCheck(0)(bounty200))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"bounty":99999}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("cap 0 should not limit: got %d", rec.Code)
	}
}

func TestBountyCheck_Unauthenticated(t *testing.T) {
	handler := BountyCheck(50)(bounty200)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"bounty":10}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestBountyCheck_InvalidJSON(t *testing.T) {
	rec := postJSON(`{"bounty":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

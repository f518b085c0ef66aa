package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/coinboard/backend/internal/ledger"
	"github.com/coinboard/backend/internal/registry"
	"github.com/coinboard/backend/internal/services"
)

func newTestService(t *testing.T, grant int) (*service, *services.Engine) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := services.NewEngine(registry.NewAccounts(), registry.NewTasks(), ledger.New(), log)
	return NewService(engine, "test-secret", grant), engine
}

func TestRegisterLoginRoundtrip(t *testing.T) {
	svc, engine := newTestService(t, 100)

	acc, err := svc.Register("alice", "hunter2", "Alice")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if acc.Coins != 100 {
		t.Errorf("signup grant: got %d, want 100", acc.Coins)
	}
	if acc.AvatarRef == "" {
		t.Error("avatar ref not set")
	}

	token, err := svc.Login("alice", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	id, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if id != acc.ID {
		t.Errorf("token subject: got %s, want %s", id, acc.ID)
	}

	// The grant is visible through the engine as well.
	got, err := engine.GetAccount(acc.ID)
	if err != nil || got.Coins != 100 {
		t.Errorf("engine account: %+v err %v", got, err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newTestService(t, 0)
	if _, err := svc.Register("bob", "secret", "Bob"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login("bob", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("nobody", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown handle: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDuplicateHandle(t *testing.T) {
	svc, _ := newTestService(t, 0)
	if _, err := svc.Register("carol", "pw", "Carol"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register("carol", "pw2", "Carol II"); !errors.Is(err, ErrDuplicateHandle) {
		t.Errorf("expected ErrDuplicateHandle, got %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc, _ := newTestService(t, 0)
	if _, err := svc.ValidateToken("not-a-jwt"); err == nil {
		t.Error("expected error for garbage token")
	}
}

package registry

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/coinboard/backend/internal/models"
)

func newAccount(handle string, coins int) *models.Account {
	return &models.Account{ID: uuid.New(), Handle: handle, Coins: coins}
}

func TestAccountsPutAndGet(t *testing.T) {
	r := NewAccounts()
	acc := newAccount("alice", 50)

	if err := r.Put(acc); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := r.Get(acc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Handle != "alice" || got.Coins != 50 {
		t.Errorf("got %+v", got)
	}

	byHandle, err := r.GetByHandle("alice")
	if err != nil {
		t.Fatalf("GetByHandle: %v", err)
	}
	if byHandle.ID != acc.ID {
		t.Errorf("GetByHandle returned wrong account")
	}

	if _, err := r.Get(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}
	if _, err := r.GetByHandle("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown handle: expected ErrNotFound, got %v", err)
	}
}

func TestAccountsDuplicateHandle(t *testing.T) {
	r := NewAccounts()
	if err := r.Put(newAccount("alice", 0)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := r.Put(newAccount("alice", 0)); !errors.Is(err, ErrDuplicateHandle) {
		t.Errorf("expected ErrDuplicateHandle, got %v", err)
	}
}

func TestCreditAndDebit(t *testing.T) {
	r := NewAccounts()
	acc := newAccount("bob", 30)
	r.Put(acc)

	if balance, err := r.Credit(acc.ID, 20); err != nil || balance != 50 {
		t.Errorf("Credit: balance %d err %v, want 50 nil", balance, err)
	}
	if balance, err := r.Debit(acc.ID, 15); err != nil || balance != 35 {
		t.Errorf("Debit: balance %d err %v, want 35 nil", balance, err)
	}

	// Overdraft fails without mutating.
	if _, err := r.Debit(acc.ID, 36); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("overdraft: expected ErrInsufficientFunds, got %v", err)
	}
	if acc.Coins != 35 {
		t.Errorf("balance after failed debit: got %d, want 35", acc.Coins)
	}

	if _, err := r.Credit(uuid.New(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("credit unknown: expected ErrNotFound, got %v", err)
	}
	if _, err := r.Debit(uuid.New(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("debit unknown: expected ErrNotFound, got %v", err)
	}
}

func TestAccountsTotal(t *testing.T) {
	r := NewAccounts()
	r.Put(newAccount("a", 10))
	r.Put(newAccount("b", 25))
	if got := r.Total(); got != 35 {
		t.Errorf("Total: got %d, want 35", got)
	}
}

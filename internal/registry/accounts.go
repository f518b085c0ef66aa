// Package registry provides the in-memory account and task stores backing
// the marketplace engine. The stores carry no business logic and no locking
// of their own: the engine serializes every access behind its lock.
package registry

import (
	"errors"

	"github.com/google/uuid"

	"github.com/coinboard/backend/internal/models"
)

// ErrNotFound is returned for unknown account or task ids.
var ErrNotFound = errors.New("not found")

// ErrInsufficientFunds is returned when a debit exceeds the spendable balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrDuplicateHandle is returned when creating an account with a handle that
// is already taken.
var ErrDuplicateHandle = errors.New("handle already registered")

type Accounts struct {
	byID     map[uuid.UUID]*models.Account
	byHandle map[string]uuid.UUID
}

func NewAccounts() *Accounts {
	return &Accounts{
		byID:     make(map[uuid.UUID]*models.Account),
		byHandle: make(map[string]uuid.UUID),
	}
}

// Put inserts a new account. Accounts are never deleted during a session.
func (a *Accounts) Put(acc *models.Account) error {
	if _, taken := a.byHandle[acc.Handle]; taken {
		return ErrDuplicateHandle
	}
	a.byID[acc.ID] = acc
	a.byHandle[acc.Handle] = acc.ID
	return nil
}

// Get returns the live account record for id.
func (a *Accounts) Get(id uuid.UUID) (*models.Account, error) {
	acc, ok := a.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return acc, nil
}

// GetByHandle returns the live account record for a handle.
func (a *Accounts) GetByHandle(handle string) (*models.Account, error) {
	id, ok := a.byHandle[handle]
	if !ok {
		return nil, ErrNotFound
	}
	return a.byID[id], nil
}

// Credit adds amount to the spendable balance and returns the new balance.
// Lifetime counters are adjusted by the caller per call site.
func (a *Accounts) Credit(id uuid.UUID, amount int) (int, error) {
	acc, ok := a.byID[id]
	if !ok {
		return 0, ErrNotFound
	}
	acc.Coins += amount
	return acc.Coins, nil
}

// Debit removes amount from the spendable balance and returns the new
// balance. Fails without mutating if the balance is too low.
func (a *Accounts) Debit(id uuid.UUID, amount int) (int, error) {
	acc, ok := a.byID[id]
	if !ok {
		return 0, ErrNotFound
	}
	if acc.Coins < amount {
		return 0, ErrInsufficientFunds
	}
	acc.Coins -= amount
	return acc.Coins, nil
}

// Total sums the spendable coins of every registered account. Used by the
// engine's conservation accounting.
func (a *Accounts) Total() int {
	total := 0
	for _, acc := range a.byID {
		total += acc.Coins
	}
	return total
}

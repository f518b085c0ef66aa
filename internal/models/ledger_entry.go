package models

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntry records a single coin movement. Entries are append-only and
// never mutated. AccountRef is either a real account id or PlatformAccountID.
// Field order is the stable serialization order: id, account_ref, delta,
// note, at.
type LedgerEntry struct {
	ID         uuid.UUID `json:"id"`
	AccountRef uuid.UUID `json:"account_ref"`
	Delta      int       `json:"delta"`
	Note       string    `json:"note"`
	At         time.Time `json:"at"`
}

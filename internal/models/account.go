package models

import (
	"time"

	"github.com/google/uuid"
)

// PlatformAccountID is the sentinel ledger party for coins the platform
// retains (posting fees). It is not a real account and never appears in the
// account registry.
var PlatformAccountID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type Account struct {
	ID             uuid.UUID `json:"id"`
	Handle         string    `json:"handle"`
	DisplayName    string    `json:"display_name"`
	AvatarRef      string    `json:"avatar_ref"`
	PasswordHash   string    `json:"-"`
	Coins          int       `json:"coins"`
	LifetimeEarned int       `json:"lifetime_earned"`
	LifetimeSpent  int       `json:"lifetime_spent"`
	IsPrivileged   bool      `json:"is_privileged"`
	CreatedAt      time.Time `json:"created_at"`
}

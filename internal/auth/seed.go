package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/coinboard/backend/internal/config"
	"github.com/coinboard/backend/internal/services"
)

// Seed creates the configured bootstrap accounts, including the platform
// operator (privileged) account. Seed balances flow through the engine so
// they appear in the ledger and count toward the coins ever introduced.
func Seed(engine *services.Engine, accounts []config.SeedAccount) error {
	for _, sa := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(sa.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed %q: %w", sa.Handle, err)
		}
		if _, err := engine.CreateAccount(sa.Handle, sa.DisplayName, string(hash), avatarRef(sa.Handle), sa.Coins, sa.Privileged); err != nil {
			return fmt.Errorf("seed %q: %w", sa.Handle, err)
		}
	}
	return nil
}

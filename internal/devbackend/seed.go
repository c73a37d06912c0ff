package devbackend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	accountDomain "canteen/internal/domain/account"
	profileDomain "canteen/internal/domain/profile"
)

// DefaultMenu is the canteen's reference menu, seeded in display order.
var DefaultMenu = []string{
	"Dosa",
	"Idli",
	"Puttu",
	"Appam",
	"Meals",
	"Biryani",
	"Chapati",
	"Parotta",
	"Fried Rice",
	"Tea",
	"Coffee",
}

// Seed populates the menu reference and, when staffEmail is non-empty,
// a staff account for the canteen operators. Safe to run on every start.
func (s *Server) Seed(ctx context.Context, staffEmail, staffPassword string) error {
	if err := s.stores.MenuItemStore.Seed(ctx, DefaultMenu); err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}
	if staffEmail == "" {
		return nil
	}

	if _, err := s.stores.AccountStore.GetByEmail(ctx, staffEmail); err == nil {
		return nil // already provisioned
	}

	acct := accountDomain.Account{
		ID:        uuid.New().String(),
		Email:     staffEmail,
		CreatedAt: time.Now().UTC(),
	}
	if err := acct.Validate(); err != nil {
		return fmt.Errorf("seed staff account: %w", err)
	}
	if err := acct.SetPassword(staffPassword); err != nil {
		return fmt.Errorf("seed staff account: %w", err)
	}
	if err := s.stores.AccountStore.Save(ctx, acct); err != nil {
		return fmt.Errorf("seed staff account: %w", err)
	}

	prof := profileDomain.Profile{
		ID:   acct.ID,
		Name: "Canteen Staff",
		Role: profileDomain.RoleStaff,
	}
	if err := s.stores.ProfileStore.Save(ctx, prof); err != nil {
		return fmt.Errorf("seed staff profile: %w", err)
	}
	slog.Info("staff_account_seeded", "email", staffEmail)
	return nil
}

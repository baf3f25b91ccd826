package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dubeyRahul26/flexcart/models"
	"github.com/dubeyRahul26/flexcart/store"
)

// SeedAdminUser creates the admin account on first startup. It is a no-op
// when the account already exists or when no admin credentials are
// configured.
func SeedAdminUser(ctx context.Context, users store.UserStore, email, password string) error {
	if email == "" || password == "" {
		log.Warn().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	_, err := users.Create(ctx, "Admin", email, password, models.RoleAdmin)
	if errors.Is(err, store.ErrDuplicateEmail) {
		log.Info().Str("email", store.NormalizeEmail(email)).Msg("Admin user already exists")
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	log.Info().Str("email", store.NormalizeEmail(email)).Msg("Admin user seeded")
	return nil
}

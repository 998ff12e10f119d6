package store

import (
	"context"

	"github.com/icetlab/assettrack/auth"
)

// BootstrapAdmin creates the initial admin account when no active admin
// exists. Idempotent: with an admin already present it does nothing.
func BootstrapAdmin(ctx context.Context, users *Users, username, password string, logger auth.Logger) error {
	if username == "" || password == "" {
		return nil
	}

	has, err := users.HasAdmin(ctx)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if _, err := users.Create(ctx, &User{
		Username:     username,
		PasswordHash: hash,
		FullName:     "Administrator",
		Role:         auth.RoleAdmin,
		Active:       true,
	}); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("bootstrap admin account created for %s", username)
	}
	return nil
}

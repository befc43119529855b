// Package bootstrap seeds the initial admin account at startup.
package bootstrap

import (
	"context"
	"log/slog"

	"github.com/BasanLidzhiev/bank-rest/internal/config"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	repo "github.com/BasanLidzhiev/bank-rest/internal/repository"
	"github.com/BasanLidzhiev/bank-rest/internal/services"
)

// EnsureAdmin creates the configured admin user unless it already
// exists. Without ADMIN_PASSWORD the step is skipped so a dev instance
// still boots.
func EnsureAdmin(ctx context.Context, users repo.Users, svc *services.UserService, cfg config.Config, log *slog.Logger) error {
	exists, err := users.ExistsByUsername(ctx, cfg.AdminUsername)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}
	_, err = svc.CreateWithRole(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword, models.RoleAdmin)
	if err != nil {
		return err
	}
	log.Info("admin account created", "username", cfg.AdminUsername)
	return nil
}

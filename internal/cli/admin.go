package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-booking/internal/config"
	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/persistence"
	"github.com/spec-kit/campus-booking/internal/repository"
	"github.com/spec-kit/campus-booking/internal/service"
)

var adminFlags struct {
	name     string
	email    string
	password string
	phone    string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an ADMIN account unless the email is already registered",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withUsers(cmd.Context(), func(cfg *config.Config, logger *zap.Logger, users repository.UserRepository) error {
			ctx := cmd.Context()
			if _, err := users.GetByEmail(ctx, adminFlags.email); err == nil {
				cmd.Printf("Admin user with email %s already exists\n", adminFlags.email)
				return nil
			} else if !errors.Is(err, repository.ErrNotFound) {
				return err
			}

			svc := service.NewUserService(*cfg, service.UserDependencies{UserRepo: users, Logger: logger})
			user, err := svc.Create(ctx, service.CreateUserInput{
				Name:     adminFlags.name,
				Email:    adminFlags.email,
				Password: adminFlags.password,
				Phone:    adminFlags.phone,
				Role:     domain.UserRoleAdmin,
			})
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			cmd.Printf("Admin user created: %s (%s)\n", user.Email, user.ID)
			return nil
		})
	},
}

var resetStatusCmd = &cobra.Command{
	Use:   "reset-status",
	Short: "Set every user INACTIVE",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withUsers(cmd.Context(), func(cfg *config.Config, logger *zap.Logger, users repository.UserRepository) error {
			svc := service.NewAuthService(*cfg, service.AuthDependencies{UserRepo: users, Logger: logger})
			n, err := svc.ResetSessions(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Reset %d user(s) to INACTIVE\n", n)
			return nil
		})
	},
}

func init() {
	flags := createAdminCmd.Flags()
	flags.StringVar(&adminFlags.name, "name", "Admin", "admin display name")
	flags.StringVar(&adminFlags.email, "email", "admin@campus.edu", "admin email")
	flags.StringVar(&adminFlags.password, "password", "Admin@123", "admin password")
	flags.StringVar(&adminFlags.phone, "phone", "+1234567890", "admin phone")
}

type usersFunc func(*config.Config, *zap.Logger, repository.UserRepository) error

// withUsers runs fn against the configured database. Replaced in tests.
var withUsers = openUsers

// openUsers opens the database for a one-off command.
func openUsers(ctx context.Context, fn usersFunc) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	return fn(cfg, logger, repository.NewUserRepository(pg.PoolHandle()))
}

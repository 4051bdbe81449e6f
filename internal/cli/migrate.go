package cli

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/ridgecrew/trainhub/internal/config"
	"github.com/ridgecrew/trainhub/internal/db"
	"github.com/ridgecrew/trainhub/internal/identity"
	"github.com/ridgecrew/trainhub/internal/logging"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and seed the primary admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), *configPath)
		},
	}
}

func runMigrate(ctx context.Context, configPath string) error {
	cfg := config.FromEnv()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath, cfg); err != nil {
			return err
		}
	}
	log := logging.New("trainhub", cfg.LogLevel)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return err
	}
	defer dbh.Close()
	log.Info("schema ensured")

	// Seed the primary admin when credentials are provided so a fresh
	// install always has a protected account to log in with.
	email := cfg.PrimaryAdminEmail
	password := os.Getenv("PRIMARY_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	id := cfg.PrimaryAdminID
	if id == "" {
		id = uuid.NewString()
	}
	store := identity.NewSQLStore(dbh)
	if err := store.Upsert(ctx, identity.Principal{
		ID:          id,
		Email:       email,
		DisplayName: "Primary Admin",
		Role:        identity.RoleAdmin,
		SignedUpAt:  time.Now(),
	}, string(hash)); err != nil {
		return err
	}
	log.WithField("email", email).Info("primary admin seeded")
	return nil
}

// Command seed provisions the fixed role set and optionally checks database
// connectivity.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"classroom/config"
	"classroom/internal/domain/entity"
	"classroom/internal/infra/persistence/postgres"
	logs "classroom/internal/infra/log"

	pgLib "github.com/slighter12/go-lib/database/postgres"
)

const seedTimeout = 30 * time.Second

func main() {
	healthOnly := flag.Bool("health", false, "only ping the database and exit")
	flag.Parse()

	if err := run(*healthOnly); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(healthOnly bool) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if healthOnly {
		logger.Info("Database reachable")

		return nil
	}

	roleRepo := postgres.NewRoleRepository(db)
	roles := []*entity.Role{
		{ID: cfg.Roles.AdminID, Name: "admin", Description: "Full administrative access"},
		{ID: cfg.Roles.InstructorID, Name: "instructor", Description: "Teaches courses and reviews submissions"},
		{ID: cfg.Roles.LearnerID, Name: "learner", Description: "Enrolls in courses and submits assignments"},
	}

	for _, role := range roles {
		if err := roleRepo.Upsert(ctx, role); err != nil {
			return fmt.Errorf("failed to seed role %q: %w", role.Name, err)
		}
		logger.Info("Role seeded",
			slog.Int64("id", role.ID),
			slog.String("name", role.Name),
		)
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/sop-assistant/internal/config"
	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/Rrens/sop-assistant/internal/logging"
	"github.com/Rrens/sop-assistant/internal/repository/postgres"
	"github.com/Rrens/sop-assistant/internal/security"
	"github.com/Rrens/sop-assistant/internal/service"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logFile, err := logging.Setup(cfg.Logging, cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log.Info().Str("host", cfg.Database.Host).Int("port", cfg.Database.Port).Msg("Migrating database")

	if err := postgres.RunMigrations(cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx := context.Background()

	// Connect to database
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	categoryService := service.NewCategoryService(postgres.NewCategoryRepository(db), nil)
	if err := categoryService.SeedDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed categories")
	}
	log.Info().Msg("Default categories seeded")

	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		log.Info().Msg("No seed admin configured, skipping")
		return
	}

	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userRepo := postgres.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, jwtManager)

	created, err := authService.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminName, cfg.Seed.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin user")
	}
	if created {
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("Admin user created")
	} else {
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("Admin user already exists")
	}

	if !cfg.Seed.SampleSops {
		return
	}

	admin, err := userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(cfg.Seed.AdminEmail)))
	if err != nil || admin == nil {
		log.Fatal().Err(err).Msg("Failed to load seed admin")
	}

	categories, err := categoryService.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list categories")
	}

	sopService := service.NewSopService(postgres.NewSopRepository(db), nil)
	count, err := sopService.SeedSamples(ctx, admin.ID, categories, domain.SampleSops)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed sample SOPs")
	}
	log.Info().Int("created", count).Msg("Sample SOPs seeded")
}

// Package main implements the entry point for the task board API server.
// Besides serving HTTP it can run database migrations and seed demo users.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/platform/redisstore"
	"github.com/spf13/pflag"
)

// cliOptions holds the parsed command-line flags.
type cliOptions struct {
	configPath    string
	migrate       string
	migrationName string
	verbose       bool
	seed          bool
}

// parseFlags reads command-line flags from args (without the program name).
func parseFlags(args []string) (*cliOptions, error) {
	opts := &cliOptions{}

	flags := pflag.NewFlagSet("taskboard-api", pflag.ContinueOnError)
	flags.StringVar(&opts.configPath, "config", "", "path to a config file (default ./config.yaml if present)")
	flags.StringVar(&opts.migrate, "migrate", "",
		"run a migration command (up, down, status, version, reset, redo, create) and exit")
	flags.StringVar(&opts.migrationName, "migration-name", "", "name of the migration to create with --migrate=create")
	flags.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	flags.BoolVar(&opts.seed, "seed", false, "insert the demo users and exit")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if opts.migrate == "create" && opts.migrationName == "" {
		return nil, errors.New("--migration-name is required with --migrate=create")
	}
	if opts.migrate != "" && opts.seed {
		return nil, errors.New("--migrate and --seed cannot be combined")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("Server exited with error", "error", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration and performs the requested operation: a migration
// command, seeding, or serving until ctx is cancelled.
func run(ctx context.Context, opts *cliOptions) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := loadAppConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.verbose {
		cfg.Server.LogLevel = "debug"
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	if opts.migrate == "create" {
		if err := postgres.CreateMigration(postgres.MigrationsDir, opts.migrationName); err != nil {
			return err
		}
		l.Info("Migration created", "name", opts.migrationName, "dir", postgres.MigrationsDir)
		return nil
	}

	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("Error closing database connection", "error", err)
		}
	}()

	switch {
	case opts.migrate != "":
		return handleMigrations(ctx, db, opts.migrate, l)
	case opts.seed:
		return seedDemoUsers(ctx, newUserService(cfg, db, l), l)
	}

	rdb, err := redisstore.Connect(ctx, cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	l.Info("Redis connection established")

	app, err := newApplication(cfg, l, db, rdb)
	if err != nil {
		_ = rdb.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	return cfg, nil
}

// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/carterperez-dev/storefront-api/internal/config"
	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/seed"
	"github.com/carterperez-dev/storefront-api/migrations"
)

const usage = `usage: migrate [flags] <up|down|version|seed>

  up       apply all pending migrations
  down     roll back the given number of migrations (-steps, default 1)
  version  print the current schema version
  seed     replace all data with the demo catalog
`

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	steps := flag.Int("steps", 1, "migrations to roll back with down")
	password := flag.String("password", "password123", "password for seeded users")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Arg(0), *steps, *password); err != nil {
		slog.Error("migrate failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func run(configPath, command string, steps int, password string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if command == "seed" {
		return runSeed(ctx, cfg, logger, password)
	}

	m, err := newMigrator(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("close migrator", "source_error", srcErr, "database_error", dbErr)
		}
	}()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		if steps < 1 {
			return fmt.Errorf("steps must be positive, got %d", steps)
		}
		err = m.Steps(-steps)
	case "version":
		return printVersion(m, logger)
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}

	return printVersion(m, logger)
}

func newMigrator(cfg config.DatabaseConfig) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.MigrateURL())
	if err != nil {
		return nil, fmt.Errorf("connect migrator: %w", err)
	}

	return m, nil
}

func printVersion(m *migrate.Migrate, logger *slog.Logger) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		logger.Info("no migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}

	logger.Info("schema version", "version", version, "dirty", dirty)
	return nil
}

func runSeed(ctx context.Context, cfg *config.Config, logger *slog.Logger, password string) error {
	pool := core.NewPool(cfg.Database, logger)
	if err := pool.Initialize(ctx); err != nil {
		return err
	}
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("close database", "error", err)
		}
	}()

	hasher, err := core.NewPasswordHasher(cfg.Password.Pepper, cfg.Password.SaltRounds)
	if err != nil {
		return err
	}

	summary, err := seed.Run(ctx, pool, hasher, password)
	if err != nil {
		return err
	}

	logger.Info("database seeded",
		"users", summary.Users,
		"products", summary.Products,
		"accessories", summary.Accessories,
		"orders", summary.Orders,
		"order_products", summary.OrderProducts,
	)
	return nil
}

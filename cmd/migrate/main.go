package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/utils"
	"github.com/MuhamadAgungGumelar/sales-ops-be/migrations"
)

func main() {
	var module string
	var command string
	var steps int

	flag.StringVar(&module, "module", "salesops", "Migration set to run")
	flag.StringVar(&command, "cmd", "up", "Migration command (up, down, steps, version, force)")
	flag.IntVar(&steps, "n", 1, "Number of steps for the steps command (negative to roll back)")
	flag.Parse()

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel, !cfg.IsProduction())

	if database.IsSQLite(cfg.DatabaseURL) {
		log.Fatal().Msg("❌ SQL migrations target PostgreSQL; SQLite schemas are created by the API on startup")
	}

	log.Info().
		Str("module", module).
		Str("database", maskDatabaseURL(cfg.DatabaseURL)).
		Str("cmd", command).
		Msg("🔄 Running migrations")

	m, err := newMigrate(module, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create migrate instance")
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("❌ Migration UP failed")
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("❌ Migration DOWN failed")
		}
	case "steps":
		if err := m.Steps(steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Int("steps", steps).Msg("❌ Migration STEPS failed")
		}
	case "version":
	case "force":
		if flag.NArg() < 1 {
			log.Fatal().Msg("❌ Please provide version number for force command")
		}
		forceVersion, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			log.Fatal().Str("version", flag.Arg(0)).Msg("❌ Version must be a number")
		}
		if err := m.Force(forceVersion); err != nil {
			log.Fatal().Err(err).Msg("❌ Force failed")
		}
	default:
		log.Fatal().Str("cmd", command).Msg("❌ Unknown command (use: up, down, steps, version, force)")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Fatal().Err(err).Msg("❌ Failed to get version")
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("✅ Done")
}

// newMigrate opens the database through lib/pq and reads the embedded SQL
// files of module.
func newMigrate(module, databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, module)
	if err != nil {
		return nil, fmt.Errorf("open migration set %q: %w", module, err)
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init postgres driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", source, "postgres", driver)
}

// maskDatabaseURL hides the credentials in database URLs for logging.
func maskDatabaseURL(url string) string {
	if len(url) < 20 {
		return "***"
	}
	return url[:20] + "***" + url[len(url)-10:]
}

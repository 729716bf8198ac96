package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/seed"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/utils"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "configs/seed.yaml", "Seed file with plans and users")
	flag.Parse()

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel, !cfg.IsProduction())

	catalog, err := seed.LoadFile(file)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load seed file")
	}

	db := database.NewDB(cfg.DatabaseURL, database.DefaultOptions())
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := seed.Apply(ctx, repositories.NewPlanRepo(db.GORM), repositories.NewUserRepo(db.GORM), catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Seeding failed")
	}
	log.Info().Int("plans", result.Plans).Int("users", result.Users).Str("file", file).Msg("✅ Seed completed")
}

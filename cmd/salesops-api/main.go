package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/invoicepdf"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/handlers"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/services"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/sales-ops-be/cmd/salesops-api/docs"
)

// @title Sales Ops Admin API
// @version 1.0
// @description Client overview, pricing and invoicing for the sales operations dashboard
// @contact.name API Support
// @contact.email support@example.com
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel, !cfg.IsProduction())
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("🚀 Starting salesops-api")

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			log.Fatal().Msg("❌ JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret"
		log.Warn().Msg("⚠️ JWT_SECRET not set, using development secret")
	}

	// Init database
	db := database.NewDB(cfg.DatabaseURL, database.DefaultOptions())
	defer db.Close()

	// SQLite is for local runs; PostgreSQL is migrated with cmd/migrate.
	if database.IsSQLite(cfg.DatabaseURL) {
		if err := db.GORM.AutoMigrate(append(models.All(), &audit.AuditLog{})...); err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to migrate SQLite schema")
		}
	}

	// Init repositories
	clientRepo := repositories.NewClientRepo(db.GORM)
	planRepo := repositories.NewPlanRepo(db.GORM)
	userRepo := repositories.NewUserRepo(db.GORM)
	licenseRepo := repositories.NewLicenseRepo(db.GORM)
	assignmentRepo := repositories.NewAssignmentRepo(db.GORM)
	invoiceRepo := repositories.NewInvoiceRepo(db.GORM)
	reportRepo := repositories.NewReportRepo(db.GORM)
	activityRepo := repositories.NewActivityRepo(db.GORM)

	// Init invoice archive
	store, err := storage.New(context.Background(), storage.Config{
		Provider:          cfg.Storage.Provider,
		LocalPath:         cfg.Storage.LocalPath,
		S3Bucket:          cfg.Storage.S3Bucket,
		S3Region:          cfg.Storage.S3Region,
		S3Endpoint:        cfg.Storage.S3Endpoint,
		S3AccessKeyID:     cfg.Storage.S3AccessKeyID,
		S3SecretAccessKey: cfg.Storage.S3SecretAccessKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize invoice storage")
	}
	if store != nil {
		log.Info().Str("provider", store.Name()).Msg("🗄️ Invoice archive enabled")
	} else {
		log.Warn().Msg("⚠️ Invoice archive disabled")
	}

	// Init services
	auditService := audit.NewService(db.GORM)
	planService := services.NewPlanService(planRepo, cfg.PlanCacheTTL)
	clientService := services.NewClientService(clientRepo, planService, auditService)
	pricingService := services.NewPricingService(planService)
	licenseService := services.NewLicenseService(licenseRepo, clientRepo, auditService)
	assignmentService := services.NewAssignmentService(assignmentRepo, clientRepo, userRepo, licenseRepo, auditService)
	activityService := services.NewActivityService(reportRepo, activityRepo, clientRepo)
	userService := services.NewUserService(userRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, clientRepo, invoicepdf.NewRenderer(), auditService, services.InvoiceOptions{
		NumberPrefix: cfg.InvoicePrefix,
		Issuer: invoicepdf.Party{
			Name:    cfg.Company.Name,
			Address: cfg.Company.Address,
			Email:   cfg.Company.Email,
		},
		Store: store,
	})
	overviewService := services.NewOverviewService(services.OverviewDeps{
		Clients:     clientRepo,
		Licenses:    licenseRepo,
		Assignments: assignmentRepo,
		Reports:     reportRepo,
		Activity:    activityRepo,
		Invoices:    invoiceRepo,
		Aggregator:  analytics.NewAggregator(db.GORM),
		Exporter:    export.NewService(),
	})
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go planService.RunJanitor(ctx, time.Minute)

	// Maintenance jobs
	jobs := scheduler.New(5 * time.Minute)
	if err := jobs.Add("invoice-overdue-sweep", cfg.OverdueSweepSchedule, func(ctx context.Context) error {
		_, err := invoiceService.SweepOverdue(ctx)
		return err
	}); err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid OVERDUE_SWEEP_SCHEDULE")
	}
	if err := jobs.Add("audit-retention", "0 30 2 * * *", func(ctx context.Context) error {
		deleted, err := auditService.DeleteOldLogs(ctx, cfg.AuditRetentionDays)
		if err == nil && deleted > 0 {
			utils.LogInfo("old audit logs deleted", map[string]interface{}{"deleted": deleted})
		}
		return err
	}); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to schedule audit retention")
	}
	jobs.Start()

	// Catch up on invoices that fell due while the API was down.
	go func() {
		if err := jobs.RunNow("invoice-overdue-sweep"); err != nil {
			log.Warn().Err(err).Msg("⚠️ Startup overdue sweep failed")
		}
	}()

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Sales Ops Admin API",
		ErrorHandler: apperr.ErrorHandler,
		BodyLimit:    4 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(utils.RequestLogger())

	// Swagger
	if !cfg.IsProduction() {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	handlers.RegisterRoutes(app, handlers.Handlers{
		Health:   handlers.NewHealthHandler(db.GORM),
		Client:   handlers.NewClientHandler(clientService, pricingService, planService, userService),
		Account:  handlers.NewAccountHandler(licenseService, assignmentService),
		Activity: handlers.NewActivityHandler(activityService),
		Invoice:  handlers.NewInvoiceHandler(invoiceService),
		Overview: handlers.NewOverviewHandler(overviewService),
		Audit:    handlers.NewAuditHandler(auditService),
	}, jwtService)

	go func() {
		addr := ":" + strings.TrimPrefix(cfg.Port, ":")
		log.Info().Str("addr", addr).Msg("✅ salesops-api listening")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("❌ Server stopped")
		}
	}()

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("🛑 Shutting down salesops-api...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	jobs.Stop(shutdownCtx)
	cancel()
	log.Info().Msg("👋 Bye")
}

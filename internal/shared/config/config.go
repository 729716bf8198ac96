package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL          string
	Port                 string
	Env                  string
	LogLevel             string
	JWTSecret            string
	CORSOrigins          string
	InvoicePrefix        string
	OverdueSweepSchedule string
	AuditRetentionDays   int
	PlanCacheTTL         time.Duration
	Company              CompanyInfo
	Storage              StorageConfig
}

// StorageConfig selects where issued invoice PDFs are archived:
// "local", "s3" or "none".
type StorageConfig struct {
	Provider          string
	LocalPath         string
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// CompanyInfo is printed in the header of generated invoice PDFs.
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		Port:                 os.Getenv("PORT"),
		Env:                  os.Getenv("ENV"),
		LogLevel:             os.Getenv("LOG_LEVEL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		CORSOrigins:          os.Getenv("CORS_ORIGINS"),
		InvoicePrefix:        os.Getenv("INVOICE_PREFIX"),
		OverdueSweepSchedule: os.Getenv("OVERDUE_SWEEP_SCHEDULE"),
		AuditRetentionDays:   envInt("AUDIT_RETENTION_DAYS", 365),
		PlanCacheTTL:         time.Duration(envInt("PLAN_CACHE_TTL_SECONDS", 300)) * time.Second,
		Company: CompanyInfo{
			Name:    os.Getenv("COMPANY_NAME"),
			Address: os.Getenv("COMPANY_ADDRESS"),
			Email:   os.Getenv("COMPANY_EMAIL"),
		},
		Storage: StorageConfig{
			Provider:          os.Getenv("STORAGE_PROVIDER"),
			LocalPath:         os.Getenv("STORAGE_LOCAL_PATH"),
			S3Bucket:          os.Getenv("S3_BUCKET"),
			S3Region:          os.Getenv("S3_REGION"),
			S3Endpoint:        os.Getenv("S3_ENDPOINT"),
			S3AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			S3SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "*"
	}
	if cfg.InvoicePrefix == "" {
		cfg.InvoicePrefix = "INV"
	}
	if cfg.OverdueSweepSchedule == "" {
		// 01:00:00 every day (cron with seconds)
		cfg.OverdueSweepSchedule = "0 0 1 * * *"
	}
	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = "local"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "./data/invoices"
	}
	if cfg.Company.Name == "" {
		cfg.Company.Name = "Sales Ops"
	}

	return cfg
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ invalid %s=%q, using default %d", key, raw, fallback)
		return fallback
	}
	return v
}

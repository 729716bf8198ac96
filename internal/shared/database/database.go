package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Pure-Go SQLite driver registered as "sqlite"; used for local runs and tests.
	_ "modernc.org/sqlite"
)

const sqlitePrefix = "sqlite:"

// DB wraps both GORM and the underlying sql.DB
type DB struct {
	*sql.DB
	GORM *gorm.DB
}

// Options tune the GORM logger and connection pool.
type Options struct {
	LogLevel     logger.LogLevel
	MaxOpenConns int
	MaxIdleConns int
}

func DefaultOptions() Options {
	return Options{
		LogLevel:     logger.Warn,
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	}
}

// NewDB creates a new database connection and exits the process on failure.
// URLs prefixed with "sqlite:" open a SQLite database instead of PostgreSQL.
func NewDB(connStr string, opts Options) *DB {
	if connStr == "" {
		log.Fatal("❌ DATABASE_URL is empty")
	}

	db, err := Open(connStr, opts)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	log.Println("✅ Database connected (GORM)!")
	return db
}

// Open is the non-fatal variant of NewDB.
func Open(connStr string, opts Options) (*DB, error) {
	var dialector gorm.Dialector
	isSQLite := strings.HasPrefix(connStr, sqlitePrefix)
	if isSQLite {
		dialector = sqlite.New(sqlite.Config{
			DriverName: "sqlite",
			DSN:        strings.TrimPrefix(connStr, sqlitePrefix),
		})
	} else {
		dialector = postgres.Open(connStr)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(opts.LogLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Connection pool settings
	if isSQLite {
		// every in-memory connection is its own database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:   sqlDB,
		GORM: gormDB,
	}, nil
}

// IsSQLite reports whether the connection string selects the SQLite backend.
func IsSQLite(connStr string) bool {
	return strings.HasPrefix(connStr, sqlitePrefix)
}

func (db *DB) Close() error {
	log.Println("🔌 Closing database connection...")
	return db.DB.Close()
}

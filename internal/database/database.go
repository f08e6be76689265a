package database

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/socialnet/internal/config"
)

//go:embed migrations/*/*.sql
var embedMigrations embed.FS

// Dialect names as understood by goose.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

const (
	sqliteScheme = "sqlite://"
	memoryPath   = ":memory:"
)

var ErrUnsupportedDatabaseURL = errors.New("unsupported database url")

// Target is a parsed DATABASE_URL.
type Target struct {
	Dialect  string
	DSN      string
	InMemory bool
}

// ParseDatabaseURL accepts postgres://, postgresql:// and sqlite://<path>
// urls. SQLite targets always get foreign key enforcement turned on, and
// their transactions take the write lock at BEGIN so that two read-then-write
// transactions cannot deadlock on lock upgrade.
func ParseDatabaseURL(raw string) (*Target, error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return &Target{Dialect: DialectPostgres, DSN: raw}, nil

	case strings.HasPrefix(raw, sqliteScheme):
		path := strings.TrimPrefix(raw, sqliteScheme)
		if path == "" {
			return nil, fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDatabaseURL)
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return &Target{
			Dialect:  DialectSQLite,
			DSN:      path + sep + "_foreign_keys=1&_busy_timeout=5000&_txlock=immediate",
			InMemory: strings.HasPrefix(path, memoryPath),
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDatabaseURL, raw)
}

// Open opens a gorm connection for target with driver error translation
// enabled, so unique and foreign key violations surface as gorm errors.
func Open(target *Target, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch target.Dialect {
	case DialectPostgres:
		dialector = postgres.Open(target.DSN)
	case DialectSQLite:
		if !target.InMemory {
			dir := filepath.Dir(strings.SplitN(target.DSN, "?", 2)[0])
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		dialector = sqlite.Open(target.DSN)
	default:
		return nil, fmt.Errorf("%w: dialect %q", ErrUnsupportedDatabaseURL, target.Dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if target.InMemory {
		// every pooled connection would otherwise see its own empty database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// ConnectDatabase opens cfg.DatabaseURL, retrying while the server comes up,
// and applies the embedded migrations.
func ConnectDatabase(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	target, err := ParseDatabaseURL(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	logger.Info("🔌 [Database] Connecting...",
		"dialect", target.Dialect,
		"in_memory", target.InMemory,
	)

	var db *gorm.DB
	maxRetries := int(cfg.DatabaseConnectRetries)
	if maxRetries < 1 {
		maxRetries = 1
	}
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = Open(target, logger)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			logger.Warn("⏳ [Database] Connection failed, retrying...",
				"attempt", i+1,
				"max_retries", maxRetries,
				"retry_in", retryDelay,
				"error", err,
			)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	logger.Info("✅ [Database] Database connection established")

	logger.Info("🔄 [Database] Running migrations...")
	if err := RunMigrations(db, target.Dialect, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("✅ [Database] Migrations completed successfully")

	return db, nil
}

// RunMigrations applies the embedded goose migrations for dialect.
func RunMigrations(gormDB *gorm.DB, dialect string, logger *slog.Logger) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	dir := "migrations/postgres"
	if dialect == DialectSQLite {
		dir = "migrations/sqlite"
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&gooseLogger{logger: logger})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(sqlDB, dir); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	return nil
}

// gooseLogger routes goose output into slog
type gooseLogger struct {
	logger *slog.Logger
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug("🔄 [Migrations] " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error("❌ [Migrations] " + strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

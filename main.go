package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/repository"
	svc "github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/services"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

func main() {
	// Setup structured logging with JSON format
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config := svc.LoadConfig()
	if err := config.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := openDatabase(config.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to database")

	repo := repository.NewGORMRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	if config.Database.Seed {
		if err := svc.NewDatabaseSeeder(repo).SeedDatabase(context.Background()); err != nil {
			slog.Error("Failed to seed database", "error", err)
		}
	}

	completion, err := svc.NewCompletionClient(context.Background(), config.AI)
	if err != nil {
		slog.Error("Failed to create completion client", "error", err, "provider", config.AI.Provider)
		os.Exit(1)
	}
	slog.Info("Completion client initialized", "provider", completion.Name())

	svc.NewServer(config, repo, completion).Start()
}

// openDatabase opens PostgreSQL, or SQLite when the URL starts with sqlite://
func openDatabase(cfg svc.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(cfg.URL, sqliteScheme); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = postgres.Open(cfg.URL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormLogLevel(cfg.LogLevel),
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func gormLogLevel(level string) gormLogger.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return gormLogger.Error
	case "warn":
		return gormLogger.Warn
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Silent
	}
}

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/repository"
	svc "github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"
)

func TestGormLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected gormLogger.LogLevel
	}{
		{name: "Error", level: "error", expected: gormLogger.Error},
		{name: "Warn mixed case", level: "WARN", expected: gormLogger.Warn},
		{name: "Info", level: "info", expected: gormLogger.Info},
		{name: "Silent", level: "silent", expected: gormLogger.Silent},
		{name: "Unknown falls back to silent", level: "verbose", expected: gormLogger.Silent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, gormLogLevel(tt.level))
		})
	}
}

func TestOpenDatabaseSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepmatrix.db")

	db, err := openDatabase(svc.DatabaseConfig{
		URL:          "sqlite://" + path,
		LogLevel:     "silent",
		MaxIdleConns: 2,
		MaxOpenConns: 4,
	})
	require.NoError(t, err)

	repo := repository.NewGORMRepository(db)
	require.NoError(t, repo.AutoMigrate())
	assert.NoError(t, repo.Ping(context.Background()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}

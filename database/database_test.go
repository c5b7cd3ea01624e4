package database

import (
	"testing"

	"learnhub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "learn"}

	cfg.DBDriver = "postgres"
	assert.Equal(t, "host=db user=u password=p dbname=learn port=5432 sslmode=disable", BuildDSN(cfg))

	cfg.DBDriver = "mysql"
	cfg.DBPort = "3306"
	assert.Equal(t, "u:p@tcp(db:3306)/learn?charset=utf8mb4&parseTime=True&loc=Local", BuildDSN(cfg))

	cfg.DBDriver = "sqlite"
	assert.Equal(t, "learn.db", BuildDSN(cfg))

	cfg.DBDSN = "file::memory:"
	assert.Equal(t, "file::memory:", BuildDSN(cfg))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.Error(t, err)
}

func TestRunMigrationsOnSQLite(t *testing.T) {
	db, err := Open("sqlite", "file:migrations_test?mode=memory&cache=shared")
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db))

	for _, table := range []string{"users", "courses", "enrollments", "coupons", "payments", "feature_flags", "video_jobs", "webhook_deliveries", "points_entries", "wallet_transactions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

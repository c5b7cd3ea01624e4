// Package testutil wires an in-memory SQLite database and authenticated
// requests for package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestConfig returns a configuration with instant background work
func TestConfig() *config.Config {
	return &config.Config{
		Port:                      "0",
		DBDriver:                  "sqlite",
		JWTKey:                    "test-secret",
		EmailSender:               "no-reply@learnhub.test",
		EmailSenderName:           "LearnHub",
		PlatformCommissionPercent: 30,
		WebhookTimeout:            2 * time.Second,
		WebhookMaxAttempts:        2,
		WebhookRetryDelay:         time.Millisecond,
		VideoWorkers:              1,
		VideoStepDelay:            0,
		VideoCDNBaseURL:           "https://cdn.test/videos",
		VideoStaleAfter:           time.Hour,
		KafkaEventsTopic:          "learnhub.events",
		OpenAIModel:               "gpt-4o-mini",
		AIRequestsPerMinute:       60,
	}
}

// SetupTestDB opens a private in-memory database, migrates it and installs it
// as the global database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = TestConfig()
	config.AppConfig.UploadDir = t.TempDir()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))
	database.Database = database.DbInstance{Db: db}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser inserts a user with the given role and wallet balance
func CreateUser(t *testing.T, db *gorm.DB, name, role string, balance float64) models.User {
	t.Helper()
	user := models.User{
		Name:          name,
		Email:         strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@learnhub.test",
		Role:          role,
		WalletBalance: decimal.NewFromFloat(balance),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// Token mints a bearer token for the user
func Token(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return token
}

// Response is a decoded JSON envelope
type Response struct {
	Code    int
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Decode unmarshals the envelope data into v
func (r Response) Decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v), string(r.Data))
}

// Do sends a request through the app and decodes the response envelope.
// body may be nil, a string or any JSON-marshalable value.
func Do(t *testing.T, app *fiber.App, method, path, token string, body any) Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := Response{Code: resp.StatusCode}
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "" && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return out
}

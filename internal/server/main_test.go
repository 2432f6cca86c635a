package server

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"glimpse/internal/config"
	"glimpse/internal/database"
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-key-for-handler-tests-only"

func testConfig() *config.Config {
	return &config.Config{
		Port:                 "0",
		Env:                  "test",
		JWTSecret:            testJWTSecret,
		JWTIssuer:            "glimpse-identity",
		JWTAudience:          "glimpse-api",
		ImageMaxUploadSizeMB: 5,
	}
}

// setupTestApp builds a full server on an in-memory database with routes
// registered. No redis, no middleware stack beyond what routes need.
func setupTestApp(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	s, err := NewServerWithDeps(testConfig(), db, nil)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, db
}

// authToken mints a token the way the external identity provider would.
func authToken(t *testing.T, subject, username string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"iss":                "glimpse-identity",
		"aud":                "glimpse-api",
		"sub":                subject,
		"preferred_username": username,
		"exp":                time.Now().Add(time.Hour).Unix(),
		"iat":                time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	return body
}

func seedUser(t *testing.T, db *gorm.DB, externalID, username string) *models.User {
	t.Helper()
	user := &models.User{ExternalID: externalID, Username: username}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, userID uint, caption string) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:   userID,
		ImageURL: "/media/i/0000000000000000000000000000000000000000000000000000000000000000/master.webp",
		Caption:  caption,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

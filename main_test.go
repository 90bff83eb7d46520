package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps the global DB for an in-memory SQLite database so the
// full stack runs without Postgres. A single connection keeps the
// in-memory database alive and shared across goroutines.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	DB = db
	t.Cleanup(func() { sqlDB.Close() })
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	setupTestDB(t)

	cfg.JWTSecret = "test-secret"
	gin.SetMode(gin.TestMode)

	r := gin.New()
	SetupRoutes(r)
	return r
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := GenerateToken("test-admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func mustCreateSession(t *testing.T, s *Session) *Session {
	t.Helper()
	if err := DB.Create(s).Error; err != nil {
		t.Fatalf("failed to create session fixture: %v", err)
	}
	return s
}

func countRegistrations(t *testing.T, sessionID string) int64 {
	t.Helper()
	var count int64
	if err := DB.Model(&Registration{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count registrations: %v", err)
	}
	return count
}

func reloadSession(t *testing.T, id string) Session {
	t.Helper()
	var s Session
	if err := DB.First(&s, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload session: %v", err)
	}
	return s
}

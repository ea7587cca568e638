package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"goddit/internal/auth"
	"goddit/internal/config"
	"goddit/internal/db"
	"goddit/internal/middleware"
	"goddit/internal/models"
	"goddit/internal/router"
	"goddit/internal/services"
	"goddit/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-0123456789"

// lastUploadDir records the upload dir of the most recent test server so
// upload tests can inspect the stored files.
var lastUploadDir string

func setupDB(t *testing.T) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(gdb))
	db.DB = gdb
}

// newTestServer wires the real router against a fresh in-memory DB.
func newTestServer(t *testing.T) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	setupDB(t)

	// the cache outlives individual tests, drop anything stale
	utils.GetCache().Delete("subs:top")

	lastUploadDir = t.TempDir()
	cfg := &config.Config{
		CORSOrigin: "*",
		UploadDir:  lastUploadDir,
		SiteURL:    "http://localhost:8080",
	}
	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)
	uploads, err := services.NewUploadService(cfg.UploadDir)
	require.NoError(t, err)

	return router.Setup(cfg, tokens, uploads), tokens
}

func createUser(t *testing.T, username, email, password string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := models.User{Username: username, Email: email, Password: hash}
	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

func createSub(t *testing.T, name string, owner models.User) models.Sub {
	t.Helper()
	sub := models.Sub{Name: name, Title: name, UserID: owner.ID}
	require.NoError(t, db.DB.Create(&sub).Error)
	return sub
}

func createPost(t *testing.T, title string, author models.User, sub models.Sub) models.Post {
	t.Helper()
	post := models.Post{
		Identifier: utils.NewIdentifier(7),
		Slug:       utils.Slugify(title),
		Title:      title,
		UserID:     author.ID,
		SubID:      sub.ID,
	}
	require.NoError(t, db.DB.Create(&post).Error)
	return post
}

func authCookie(t *testing.T, tokens *auth.TokenService, username string) *http.Cookie {
	t.Helper()
	token, err := tokens.Generate(username)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.TokenCookie, Value: token}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

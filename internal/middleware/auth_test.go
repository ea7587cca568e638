package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"goddit/internal/auth"
	"goddit/internal/db"
	"goddit/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func newEngine(t *testing.T) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	setupDB(t)

	tokens, err := auth.NewTokenService("test-secret-0123456789")
	require.NoError(t, err)

	r := gin.New()
	r.Use(LoadUser(tokens))
	r.GET("/open", func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.JSON(http.StatusOK, gin.H{"username": user.Username})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": nil})
	})
	r.GET("/protected", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": CurrentUser(c).Username})
	})
	return r, tokens
}

func get(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnonymousPassesOpenRoute(t *testing.T) {
	r, _ := newEngine(t)

	w := get(r, "/open", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}

func TestAnonymousRejectedOnProtectedRoute(t *testing.T) {
	r, _ := newEngine(t)

	w := get(r, "/protected", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidTokenResolvesUser(t *testing.T) {
	r, tokens := newEngine(t)

	user := models.User{Username: "alice", Email: "alice@x.com", Password: "hash"}
	require.NoError(t, db.DB.Create(&user).Error)

	token, err := tokens.Generate("alice")
	require.NoError(t, err)

	w := get(r, "/protected", &http.Cookie{Name: TokenCookie, Value: token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestInvalidTokenAborts(t *testing.T) {
	r, _ := newEngine(t)

	w := get(r, "/open", &http.Cookie{Name: TokenCookie, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownUsernameAborts(t *testing.T) {
	r, tokens := newEngine(t)

	token, err := tokens.Generate("ghost")
	require.NoError(t, err)

	w := get(r, "/protected", &http.Cookie{Name: TokenCookie, Value: token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

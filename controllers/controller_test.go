package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kommunity/models"
	"kommunity/utils"
)

func TestSessionMiddlewareInjectsSession(t *testing.T) {
	t.Setenv("SECRET", "test-secret")

	token, err := utils.GenerateToken(models.User{ID: "u1", Email: "u1@example.com"}, time.Hour)
	require.NoError(t, err)

	var got models.Session
	handler := Controller{}.SessionMiddleware(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFrom(r)
		require.True(t, ok)
		got = session
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest("GET", "/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", got.UserID)
}

func TestSessionMiddlewareRejectsMissingToken(t *testing.T) {
	t.Setenv("SECRET", "test-secret")

	handler := Controller{}.SessionMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	})

	r := httptest.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddlewareRejectsGarbageToken(t *testing.T) {
	t.Setenv("SECRET", "test-secret")

	handler := Controller{}.SessionMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	})

	r := httptest.NewRequest("GET", "/me", nil)
	r.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddlewareRejectsExpiredToken(t *testing.T) {
	t.Setenv("SECRET", "test-secret")

	token, err := utils.GenerateToken(models.User{ID: "u1", Email: "u1@example.com"}, -time.Hour)
	require.NoError(t, err)

	handler := Controller{}.SessionMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an expired token")
	})

	r := httptest.NewRequest("GET", "/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

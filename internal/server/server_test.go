package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/genfolio/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"},
		Draft:    config.DraftConfig{Backend: config.DraftFile, Dir: t.TempDir()},
		Logging:  config.LoggingConfig{Level: "error"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/home", http.StatusOK},
		{http.MethodGet, "/portfolio/missing", http.StatusNotFound},
		{http.MethodGet, "/static/genfolio.css", http.StatusOK},
		{http.MethodGet, "/static/placeholder.svg", http.StatusOK},
		{http.MethodGet, "/api/templates", http.StatusOK},
		{http.MethodGet, "/api/users/missing", http.StatusNotFound},
		{http.MethodGet, "/api/draft", http.StatusOK},
		{http.MethodDelete, "/api/draft", http.StatusNoContent},
		{http.MethodPut, "/api/users/x", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestDraftRoutesIssueSessionCookie(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/draft", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Result().Cookies(), 1)

	// Public routes do not touch the session.
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/templates", nil))
	assert.Empty(t, rec.Result().Cookies())
}

func TestNew_BadCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.TemplateCatalog = "/does/not/exist.yaml"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New(context.Background(), cfg, logger)
	assert.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

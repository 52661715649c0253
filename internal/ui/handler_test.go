package ui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/cleaner"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/pkg/db"
	"github.com/thep200/github-trending/pkg/log"
)

type failingPinger struct{}

func (failingPinger) Ping() error { return errors.New("down") }

func setupHandler(t *testing.T) (*Handler, *http.ServeMux) {
	t.Helper()
	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)
	config.Database.Path = filepath.Join(t.TempDir(), "trending.db")

	database, err := db.NewDatabase(config)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	repoMd, err := model.NewRepo(config, log.Discard(), database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(repoMd))

	recs := []cleaner.CanonicalRecord{
		{Name: "alpha", FullName: "a/alpha", Owner: "a", Stars: 30, Topics: []string{}, License: map[string]any{}},
		{Name: "beta", FullName: "b/beta", Owner: "b", Stars: 20, Topics: []string{"x"}, License: map[string]any{}},
		{Name: "gamma", FullName: "c/gamma", Owner: "c", Stars: 10, Topics: []string{}, License: map[string]any{}},
	}
	_, err = repoMd.CreateBatch(context.Background(), recs, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	h, err := NewHandler(log.Discard(), config, database)
	require.NoError(t, err)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return h, mux
}

func getRepos(t *testing.T, mux *http.ServeMux, target string) ReposResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ReposResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandler_GetRepos(t *testing.T) {
	_, mux := setupHandler(t)

	resp := getRepos(t, mux, "/api/repos?page=1&pageSize=2")
	assert.Equal(t, Pagination{Page: 1, PageSize: 2, TotalCount: 3, TotalPages: 2}, resp.Pagination)
	require.Len(t, resp.Repositories, 2)
	assert.Equal(t, "a/alpha", resp.Repositories[0].FullName)
	assert.Equal(t, 30, resp.Repositories[0].Stars)
	assert.Equal(t, "2026-05-01T00:00:00Z", resp.Repositories[0].CrawledAt)
	assert.Equal(t, []string{"x"}, resp.Repositories[1].Topics)

	resp = getRepos(t, mux, "/api/repos?page=2&pageSize=2")
	require.Len(t, resp.Repositories, 1)
	assert.Equal(t, "c/gamma", resp.Repositories[0].FullName)
}

func TestHandler_GetReposDefaultsAndSearch(t *testing.T) {
	_, mux := setupHandler(t)

	resp := getRepos(t, mux, "/api/repos?page=-1&pageSize=1000")
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, defaultPageSize, resp.Pagination.PageSize)
	assert.Len(t, resp.Repositories, 3)

	resp = getRepos(t, mux, "/api/repos?search=bet")
	require.Len(t, resp.Repositories, 1)
	assert.Equal(t, "b/beta", resp.Repositories[0].FullName)

	resp = getRepos(t, mux, "/api/repos?search=nothing")
	assert.NotNil(t, resp.Repositories)
	assert.Empty(t, resp.Repositories)
	assert.Zero(t, resp.Pagination.TotalPages)
}

func TestHandler_GetRepo(t *testing.T) {
	_, mux := setupHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/repos/b/beta", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var repo Repository
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &repo))
	assert.Equal(t, "b/beta", repo.FullName)
	assert.Equal(t, 20, repo.Stars)
	assert.Equal(t, []string{"x"}, repo.Topics)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/repos/b/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	_, mux := setupHandler(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/repos", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_Healthz(t *testing.T) {
	h, mux := setupHandler(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	h.health = failingPinger{}
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

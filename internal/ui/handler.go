package ui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/samber/lo"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/cleaner"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/pkg/db"
	"github.com/thep200/github-trending/pkg/log"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

type repoLister interface {
	List(ctx context.Context, q model.ListQuery) ([]model.Repo, int64, error)
	FindByFullName(ctx context.Context, fullName string) (*model.Repo, error)
}

type pinger interface {
	Ping() error
}

// Handler manages HTTP requests for the UI
type Handler struct {
	Logger log.Logger
	Config *cfg.Config
	repos  repoLister
	health pinger
}

func NewHandler(logger log.Logger, config *cfg.Config, database *db.Database) (*Handler, error) {
	repoMd, err := model.NewRepo(config, logger, database)
	if err != nil {
		return nil, err
	}

	return &Handler{
		Logger: logger,
		Config: config,
		repos:  repoMd,
		health: database,
	}, nil
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/repos", h.getRepos)
	mux.HandleFunc("GET /api/repos/{owner}/{name}", h.getRepo)
	mux.HandleFunc("GET /healthz", h.healthz)
}

// Repository is a stored canonical record as served by the API.
type Repository struct {
	ID int `json:"id"`
	cleaner.CanonicalRecord
	CrawledAt string `json:"crawledAt"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int64 `json:"totalPages"`
}

type ReposResponse struct {
	Repositories []Repository `json:"repositories"`
	Pagination   Pagination   `json:"pagination"`
}

func (h *Handler) getRepos(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	repos, totalCount, err := h.repos.List(r.Context(), model.ListQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   r.URL.Query().Get("search"),
	})
	if err != nil {
		h.Logger.Error(r.Context(), "Failed to fetch repositories: %v", err)
		http.Error(w, "Failed to fetch repositories", http.StatusInternalServerError)
		return
	}

	response := ReposResponse{
		Repositories: lo.Map(repos, func(repo model.Repo, _ int) Repository {
			return toRepository(&repo)
		}),
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: totalCount,
			TotalPages: (totalCount + int64(pageSize) - 1) / int64(pageSize),
		},
	}

	h.writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) getRepo(w http.ResponseWriter, r *http.Request) {
	fullName := r.PathValue("owner") + "/" + r.PathValue("name")

	repo, err := h.repos.FindByFullName(r.Context(), fullName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Repository not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error(r.Context(), "Failed to fetch repository %s: %v", fullName, err)
		http.Error(w, "Failed to fetch repository", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, r, http.StatusOK, toRepository(repo))
}

func toRepository(repo *model.Repo) Repository {
	return Repository{
		ID:              int(repo.ID),
		CanonicalRecord: repo.Canonical(),
		CrawledAt:       repo.CrawledAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(); err != nil {
		h.Logger.Error(r.Context(), "Health check failed: %v", err)
		h.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error(r.Context(), "Failed to encode JSON response: %v", err)
	}
}

package model

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/cleaner"
	"github.com/thep200/github-trending/pkg/db"
	"github.com/thep200/github-trending/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 100

// upsertColumns are overwritten when a full_name is crawled again.
var upsertColumns = []string{
	"name", "owner", "description", "url", "stars", "forks", "language",
	"topics", "repo_created_at", "repo_updated_at", "license", "homepage",
	"watchers", "open_issues", "default_branch", "links", "images",
	"crawled_at", "updated_at",
}

type Repo struct {
	Model
	ID            uint           `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	FullName      string         `json:"full_name" gorm:"column:full_name;type:varchar(255);uniqueIndex;not null"`
	Name          string         `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Owner         string         `json:"owner" gorm:"column:owner;type:varchar(255);index"`
	Description   string         `json:"description" gorm:"column:description;type:text"`
	URL           string         `json:"url" gorm:"column:url;type:varchar(512)"`
	Stars         int            `json:"stars" gorm:"column:stars;default:0;index"`
	Forks         int            `json:"forks" gorm:"column:forks;default:0"`
	Language      string         `json:"language" gorm:"column:language;type:varchar(100)"`
	Topics        []string       `json:"topics" gorm:"column:topics;type:text;serializer:json"`
	RepoCreatedAt string         `json:"repo_created_at" gorm:"column:repo_created_at;type:varchar(64)"`
	RepoUpdatedAt string         `json:"repo_updated_at" gorm:"column:repo_updated_at;type:varchar(64)"`
	License       map[string]any `json:"license" gorm:"column:license;type:text;serializer:json"`
	Homepage      string         `json:"homepage" gorm:"column:homepage;type:varchar(512)"`
	Watchers      int            `json:"watchers" gorm:"column:watchers;default:0"`
	OpenIssues    int            `json:"open_issues" gorm:"column:open_issues;default:0"`
	DefaultBranch string         `json:"default_branch" gorm:"column:default_branch;type:varchar(255)"`
	Links         []string       `json:"links" gorm:"column:links;type:text;serializer:json"`
	Images        []string       `json:"images" gorm:"column:images;type:text;serializer:json"`
	CrawledAt     time.Time      `json:"crawled_at" gorm:"column:crawled_at;not null"`
	CreatedAt     time.Time      `json:"created_at" gorm:"column:created_at;not null"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"column:updated_at;not null"`
}

// ListQuery pages through stored repositories, most starred first.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
}

func NewRepo(config *cfg.Config, logger log.Logger, database *db.Database) (*Repo, error) {
	repo := &Repo{
		Model: Model{
			Config:   config,
			Logger:   logger,
			Database: database,
		},
	}
	return repo, nil
}

func (r *Repo) TableName() string {
	return "repositories"
}

// FromCanonical builds a row; string columns are cut to their column size.
func FromCanonical(rec cleaner.CanonicalRecord, crawledAt time.Time) Repo {
	return Repo{
		FullName:      TruncateString(rec.FullName, 255),
		Name:          TruncateString(rec.Name, 255),
		Owner:         TruncateString(rec.Owner, 255),
		Description:   TruncateString(rec.Description, 65000),
		URL:           TruncateString(rec.URL, 512),
		Stars:         rec.Stars,
		Forks:         rec.Forks,
		Language:      TruncateString(rec.Language, 100),
		Topics:        rec.Topics,
		RepoCreatedAt: TruncateString(rec.CreatedAt, 64),
		RepoUpdatedAt: TruncateString(rec.UpdatedAt, 64),
		License:       rec.License,
		Homepage:      TruncateString(rec.Homepage, 512),
		Watchers:      rec.Metadata.Watchers,
		OpenIssues:    rec.Metadata.OpenIssues,
		DefaultBranch: TruncateString(rec.Metadata.DefaultBranch, 255),
		Links:         rec.Links,
		Images:        rec.Images,
		CrawledAt:     crawledAt,
	}
}

// Canonical converts a stored row back into a canonical record.
func (r *Repo) Canonical() cleaner.CanonicalRecord {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	license := r.License
	if license == nil {
		license = map[string]any{}
	}
	return cleaner.CanonicalRecord{
		Name:        r.Name,
		FullName:    r.FullName,
		Description: r.Description,
		URL:         r.URL,
		Stars:       r.Stars,
		Forks:       r.Forks,
		Language:    r.Language,
		Topics:      topics,
		Owner:       r.Owner,
		CreatedAt:   r.RepoCreatedAt,
		UpdatedAt:   r.RepoUpdatedAt,
		License:     license,
		Homepage:    r.Homepage,
		Metadata: cleaner.Metadata{
			Watchers:      r.Watchers,
			OpenIssues:    r.OpenIssues,
			DefaultBranch: r.DefaultBranch,
		},
		Links:  r.Links,
		Images: r.Images,
	}
}

// CreateBatch upserts records keyed by full_name inside one transaction.
func (r *Repo) CreateBatch(ctx context.Context, recs []cleaner.CanonicalRecord, crawledAt time.Time) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	db, err := r.Database.Db()
	if err != nil {
		return 0, fmt.Errorf("failed to get database connection: %w", err)
	}

	rows := lo.Map(recs, func(rec cleaner.CanonicalRecord, _ int) Repo {
		return FromCanonical(rec, crawledAt)
	})

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "full_name"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).CreateInBatches(&rows, batchSize)

		if result.Error != nil {
			return fmt.Errorf("failed to batch upsert repositories: %w", result.Error)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.Logger.Info(ctx, "Upserted %d repositories", len(rows))
	return len(rows), nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]Repo, int64, error) {
	db, err := r.Database.Db()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get database connection: %w", err)
	}

	filter := db.WithContext(ctx).Model(&Repo{})
	if q.Search != "" {
		like := "%" + q.Search + "%"
		filter = filter.Where("name LIKE ? OR full_name LIKE ? OR owner LIKE ?", like, like, like)
	}

	var totalCount int64
	if err := filter.Session(&gorm.Session{}).Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count repositories: %w", err)
	}

	var repos []Repo
	offset := (q.Page - 1) * q.PageSize
	if err := filter.Session(&gorm.Session{}).
		Order("stars DESC").Order("id ASC").
		Offset(offset).Limit(q.PageSize).
		Find(&repos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list repositories: %w", err)
	}
	return repos, totalCount, nil
}

func (r *Repo) FindByFullName(ctx context.Context, fullName string) (*Repo, error) {
	db, err := r.Database.Db()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	var repo Repo
	if err := db.WithContext(ctx).Where("full_name = ?", fullName).First(&repo).Error; err != nil {
		return nil, err
	}
	return &repo, nil
}

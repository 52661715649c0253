package exporter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/cleaner"
	"github.com/thep200/github-trending/pkg/log"
)

const DefaultPattern = "trending_2006-01-02.csv"

var header = []string{
	"name", "full_name", "description", "url", "stars", "forks", "language",
	"topics", "owner", "created_at", "updated_at", "license", "homepage",
	"watchers", "open_issues", "default_branch",
}

var assetHeader = []string{"links", "images"}

// CSVExporter writes canonical records to a dated CSV file.
// Pattern is a time layout, so the date of the export ends up in the name.
type CSVExporter struct {
	Logger     log.Logger
	Dir        string
	Pattern    string
	WithAssets bool
	now        func() time.Time
}

func NewCSVExporter(config *cfg.Config, logger log.Logger) *CSVExporter {
	return &CSVExporter{
		Logger:     logger,
		Dir:        config.Export.Dir,
		Pattern:    config.Export.Pattern,
		WithAssets: config.Cleaner.MineAssets,
		now:        time.Now,
	}
}

// Path is the file the next Export call writes to.
func (e *CSVExporter) Path() string {
	pattern := e.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	return filepath.Join(e.Dir, now().Format(pattern))
}

func (e *CSVExporter) Export(ctx context.Context, recs []cleaner.CanonicalRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := e.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := e.Write(f, recs); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}

	if e.Logger != nil {
		e.Logger.Info(ctx, "Exported %d repositories to %s", len(recs), path)
	}
	return path, nil
}

func (e *CSVExporter) Write(w io.Writer, recs []cleaner.CanonicalRecord) error {
	cw := csv.NewWriter(w)

	columns := header
	if e.WithAssets {
		columns = append(append([]string{}, header...), assetHeader...)
	}
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, rec := range recs {
		row, err := e.row(rec)
		if err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", rec.FullName, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func (e *CSVExporter) row(rec cleaner.CanonicalRecord) ([]string, error) {
	license, err := licenseJSON(rec.License)
	if err != nil {
		return nil, fmt.Errorf("failed to encode license for %s: %w", rec.FullName, err)
	}

	row := []string{
		rec.Name,
		rec.FullName,
		rec.Description,
		rec.URL,
		strconv.Itoa(rec.Stars),
		strconv.Itoa(rec.Forks),
		rec.Language,
		strings.Join(rec.Topics, ";"),
		rec.Owner,
		rec.CreatedAt,
		rec.UpdatedAt,
		license,
		rec.Homepage,
		strconv.Itoa(rec.Metadata.Watchers),
		strconv.Itoa(rec.Metadata.OpenIssues),
		rec.Metadata.DefaultBranch,
	}
	if e.WithAssets {
		row = append(row, strings.Join(rec.Links, ";"), strings.Join(rec.Images, ";"))
	}
	return row, nil
}

func licenseJSON(license map[string]any) (string, error) {
	if len(license) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(license)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package githubapi

import (
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/thep200/github-trending/internal/cleaner"
)

// RawRecordFromRepository maps go-github's optional fields one to one.
// Timestamps are rendered as RFC 3339 strings, the same shape the REST
// API sends them in.
func RawRecordFromRepository(repo *github.Repository) cleaner.RawRecord {
	if repo == nil {
		return cleaner.RawRecord{}
	}

	raw := cleaner.RawRecord{
		Name:            repo.Name,
		FullName:        repo.FullName,
		Description:     repo.Description,
		HTMLURL:         repo.HTMLURL,
		StargazersCount: intPtrToFloat(repo.StargazersCount),
		ForksCount:      intPtrToFloat(repo.ForksCount),
		WatchersCount:   intPtrToFloat(repo.WatchersCount),
		OpenIssuesCount: intPtrToFloat(repo.OpenIssuesCount),
		Language:        repo.Language,
		Topics:          repo.Topics,
		CreatedAt:       timestampString(repo.CreatedAt),
		UpdatedAt:       timestampString(repo.UpdatedAt),
		License:         licenseMap(repo.License),
		Homepage:        repo.Homepage,
		DefaultBranch:   repo.DefaultBranch,
	}
	if repo.Owner != nil {
		raw.Owner = &cleaner.RawOwner{Login: repo.Owner.Login}
	}
	return raw
}

func intPtrToFloat(n *int) *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

func timestampString(ts *github.Timestamp) *string {
	if ts == nil || ts.IsZero() {
		return nil
	}
	s := ts.UTC().Format(time.RFC3339)
	return &s
}

func licenseMap(l *github.License) map[string]any {
	if l == nil {
		return nil
	}
	m := map[string]any{}
	set := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	set("key", l.Key)
	set("name", l.Name)
	set("spdx_id", l.SPDXID)
	set("url", l.URL)
	return m
}

func strPtr(s string) *string {
	return &s
}

// splitFullName splits "owner/name"; anything else yields empty strings.
func splitFullName(fullName string) (string, string) {
	parts := strings.Split(strings.Trim(fullName, "/ "), "/")
	if len(parts) >= 2 && parts[0] != "" && parts[1] != "" {
		return parts[0], parts[1]
	}
	return "", ""
}

// Package cleaner turns untrusted repository payloads into canonical
// records. Every function here is total: no input makes it fail or panic,
// and nothing it returns aliases its input.
package cleaner

import (
	"maps"
	"math"
	"slices"
)

const defaultBranch = "main"

type Cleaner struct {
	mineAssets bool
}

type Option func(*Cleaner)

// WithAssetMining makes Clean also fill Links and Images from the raw
// description markup.
func WithAssetMining() Option {
	return func(c *Cleaner) {
		c.mineAssets = true
	}
}

func New(opts ...Option) *Cleaner {
	c := &Cleaner{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCleaner = New()

// CleanRepositoryData normalizes raw with the default Cleaner. A nil raw
// yields a record made only of defaults.
func CleanRepositoryData(raw *RawRecord) CanonicalRecord {
	return defaultCleaner.Clean(raw)
}

func (c *Cleaner) Clean(raw *RawRecord) CanonicalRecord {
	if raw == nil {
		raw = &RawRecord{}
	}

	rec := CanonicalRecord{
		Name:        stringOr(raw.Name, ""),
		FullName:    stringOr(raw.FullName, ""),
		Description: StripHTML(stringOr(raw.Description, "")),
		URL:         stringOr(raw.HTMLURL, ""),
		Stars:       toCount(raw.StargazersCount),
		Forks:       toCount(raw.ForksCount),
		Language:    stringOr(raw.Language, ""),
		Topics:      cloneTopics(raw.Topics),
		CreatedAt:   stringOr(raw.CreatedAt, ""),
		UpdatedAt:   stringOr(raw.UpdatedAt, ""),
		License:     cloneLicense(raw.License),
		Metadata: Metadata{
			Watchers:      toCount(raw.WatchersCount),
			OpenIssues:    toCount(raw.OpenIssuesCount),
			DefaultBranch: stringOr(raw.DefaultBranch, defaultBranch),
		},
	}

	if raw.Owner != nil {
		rec.Owner = stringOr(raw.Owner.Login, "")
	}
	if homepage := stringOr(raw.Homepage, ""); IsValidURL(homepage) {
		rec.Homepage = homepage
	}

	if c.mineAssets {
		description := stringOr(raw.Description, "")
		rec.Links = ExtractLinks(description)
		rec.Images = ExtractImages(description)
	}
	return rec
}

// CleanAll keeps the input order; the result has one record per input.
func (c *Cleaner) CleanAll(raws []RawRecord) []CanonicalRecord {
	out := make([]CanonicalRecord, 0, len(raws))
	for i := range raws {
		out = append(out, c.Clean(&raws[i]))
	}
	return out
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

// toCount truncates toward zero and clamps into [0, MaxInt].
func toCount(n *float64) int {
	if n == nil || math.IsNaN(*n) || *n <= 0 {
		return 0
	}
	if *n >= math.MaxInt {
		return math.MaxInt
	}
	return int(*n)
}

func cloneTopics(topics []string) []string {
	if topics == nil {
		return []string{}
	}
	return slices.Clone(topics)
}

func cloneLicense(license map[string]any) map[string]any {
	if license == nil {
		return map[string]any{}
	}
	return maps.Clone(license)
}

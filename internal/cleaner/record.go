package cleaner

// Metadata groups the secondary counters of a repository.
type Metadata struct {
	Watchers      int    `json:"watchers"`
	OpenIssues    int    `json:"open_issues"`
	DefaultBranch string `json:"default_branch"`
}

// CanonicalRecord is the fixed-shape output of normalization. Every field
// is always set; Topics and License are never nil.
//
// Links and Images are only filled by a Cleaner built WithAssetMining.
type CanonicalRecord struct {
	Name        string         `json:"name"`
	FullName    string         `json:"full_name"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	Stars       int            `json:"stars"`
	Forks       int            `json:"forks"`
	Language    string         `json:"language"`
	Topics      []string       `json:"topics"`
	Owner       string         `json:"owner"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	License     map[string]any `json:"license"`
	Homepage    string         `json:"homepage"`
	Metadata    Metadata       `json:"metadata"`
	Links       []string       `json:"links,omitempty"`
	Images      []string       `json:"images,omitempty"`
}

package model

import (
	"time"

	"github.com/thep200/github-trending/internal/cleaner"
)

// RepoMessageKey is the Kafka message key for canonical repository records.
const RepoMessageKey = "repo"

// RepoMessage is the Kafka payload carrying one canonical record.
type RepoMessage struct {
	Source    string                  `json:"source"`
	CrawledAt time.Time               `json:"crawled_at"`
	Record    cleaner.CanonicalRecord `json:"record"`
}

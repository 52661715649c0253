package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/thep200/github-trending/internal/cleaner"
	"github.com/thep200/github-trending/internal/exporter"
	"github.com/thep200/github-trending/internal/model"
)

// Batch is the de-duplicated output of one crawl.
type Batch struct {
	Source    string
	CrawledAt time.Time
	Records   []cleaner.CanonicalRecord
}

// Sink receives every batch. Sinks run concurrently and must not modify
// the records.
type Sink interface {
	Name() string
	Write(ctx context.Context, batch Batch) error
}

type CSVSink struct {
	exporter *exporter.CSVExporter
	mu       sync.Mutex
	lastPath string
}

func NewCSVSink(e *exporter.CSVExporter) *CSVSink {
	return &CSVSink{exporter: e}
}

func (s *CSVSink) Name() string {
	return "csv"
}

func (s *CSVSink) Write(ctx context.Context, batch Batch) error {
	path, err := s.exporter.Export(ctx, batch.Records)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lastPath = path
	s.mu.Unlock()
	return nil
}

func (s *CSVSink) LastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPath
}

type repoStore interface {
	CreateBatch(ctx context.Context, recs []cleaner.CanonicalRecord, crawledAt time.Time) (int, error)
}

// StoreSink upserts records into the relational store.
type StoreSink struct {
	store repoStore
}

func NewStoreSink(store repoStore) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Name() string {
	return "store"
}

func (s *StoreSink) Write(ctx context.Context, batch Batch) error {
	_, err := s.store.CreateBatch(ctx, batch.Records, batch.CrawledAt)
	return err
}

type publisher interface {
	PublishBatch(ctx context.Context, key string, values []interface{}) error
	Close() error
}

// KafkaSink publishes one RepoMessage per record.
type KafkaSink struct {
	producer publisher
}

func NewKafkaSink(producer publisher) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Name() string {
	return "kafka"
}

func (s *KafkaSink) Write(ctx context.Context, batch Batch) error {
	msgs := lo.Map(batch.Records, func(rec cleaner.CanonicalRecord, _ int) interface{} {
		return model.RepoMessage{
			Source:    batch.Source,
			CrawledAt: batch.CrawledAt,
			Record:    rec,
		}
	})
	return s.producer.PublishBatch(ctx, model.RepoMessageKey, msgs)
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}

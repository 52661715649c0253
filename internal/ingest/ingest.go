package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/thep200/github-trending/internal/cleaner"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/pkg/log"
)

const flushTimeout = 30 * time.Second

type repoStore interface {
	CreateBatch(ctx context.Context, recs []cleaner.CanonicalRecord, crawledAt time.Time) (int, error)
}

// Ingester collects repo messages from Kafka and writes them to the store
// in batches, flushing when a batch is full or the timeout passes.
type Ingester struct {
	Logger       log.Logger
	store        repoStore
	batchSize    int
	batchTimeout time.Duration
	messages     chan model.RepoMessage
}

func NewIngester(logger log.Logger, store repoStore, batchSize int, batchTimeout time.Duration) *Ingester {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Ingester{
		Logger:       logger,
		store:        store,
		batchSize:    batchSize,
		batchTimeout: batchTimeout,
		messages:     make(chan model.RepoMessage, batchSize*2),
	}
}

// Handle decodes one message and queues it for the next batch.
func (i *Ingester) Handle(ctx context.Context, data []byte) error {
	var msg model.RepoMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal repo message: %w", err)
	}
	if msg.Record.FullName == "" {
		return errors.New("repo message without full_name")
	}

	select {
	case i.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run batches queued messages until ctx is done, then flushes what is left.
func (i *Ingester) Run(ctx context.Context) {
	var batch []model.RepoMessage
	timer := time.NewTimer(i.batchTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			i.drain(&batch)
			if len(batch) > 0 {
				flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
				i.flush(flushCtx, batch)
				cancel()
			}
			return

		case msg := <-i.messages:
			batch = append(batch, msg)
			if len(batch) >= i.batchSize {
				i.flush(ctx, batch)
				batch = nil
				timer.Reset(i.batchTimeout)
			}

		case <-timer.C:
			if len(batch) > 0 {
				i.flush(ctx, batch)
				batch = nil
			}
			timer.Reset(i.batchTimeout)
		}
	}
}

func (i *Ingester) drain(batch *[]model.RepoMessage) {
	for {
		select {
		case msg := <-i.messages:
			*batch = append(*batch, msg)
		default:
			return
		}
	}
}

func (i *Ingester) flush(ctx context.Context, batch []model.RepoMessage) {
	i.Logger.Info(ctx, "Processing batch of %d repositories", len(batch))

	// One upsert per crawl; a full_name seen twice keeps its latest record.
	groups := lo.GroupBy(latestByFullName(batch), func(msg model.RepoMessage) int64 {
		return msg.CrawledAt.UnixNano()
	})
	saved := 0
	for _, group := range groups {
		recs := lo.Map(group, func(msg model.RepoMessage, _ int) cleaner.CanonicalRecord {
			return msg.Record
		})
		n, err := i.store.CreateBatch(ctx, recs, group[0].CrawledAt)
		if err != nil {
			i.Logger.Error(ctx, "Failed to save batch of repositories: %v", err)
			continue
		}
		saved += n
	}
	i.Logger.Info(ctx, "Successfully saved %d repositories", saved)
}

func latestByFullName(batch []model.RepoMessage) []model.RepoMessage {
	index := make(map[string]int, len(batch))
	out := make([]model.RepoMessage, 0, len(batch))
	for _, msg := range batch {
		if at, ok := index[msg.Record.FullName]; ok {
			out[at] = msg
			continue
		}
		index[msg.Record.FullName] = len(out)
		out = append(out, msg)
	}
	return out
}

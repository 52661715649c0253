package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	"github.com/thep200/github-trending/internal/cleaner"
	"github.com/thep200/github-trending/pkg/log"
	"golang.org/x/sync/errgroup"
)

type Crawler interface {
	Crawl(ctx context.Context) (*Stats, error)
}

// Source yields raw repository records.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]cleaner.RawRecord, error)
}

// Stats summarises one crawl.
type Stats struct {
	Source     string
	Fetched    int
	Cleaned    int
	Skipped    int
	Duplicates int
	CSVPath    string
	Duration   time.Duration
}

// Pipeline fetches, normalizes and fans records out to every sink.
type Pipeline struct {
	Logger  log.Logger
	Source  Source
	Cleaner *cleaner.Cleaner
	Sinks   []Sink
	now     func() time.Time
}

func NewPipeline(logger log.Logger, source Source, c *cleaner.Cleaner, sinks ...Sink) *Pipeline {
	return &Pipeline{
		Logger:  logger,
		Source:  source,
		Cleaner: c,
		Sinks:   sinks,
		now:     time.Now,
	}
}

func (p *Pipeline) Crawl(ctx context.Context) (*Stats, error) {
	startTime := p.now()
	stats := &Stats{Source: p.Source.Name()}
	p.Logger.Info(ctx, "Starting %s crawl at %s", stats.Source, startTime.Format(time.RFC3339))

	raws, err := p.Source.Fetch(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch from %s: %w", stats.Source, err)
	}
	stats.Fetched = len(raws)

	cleaned := p.Cleaner.CleanAll(raws)
	valid := lo.Filter(cleaned, func(rec cleaner.CanonicalRecord, _ int) bool {
		return rec.FullName != ""
	})
	stats.Skipped = len(cleaned) - len(valid)

	records := lo.UniqBy(valid, func(rec cleaner.CanonicalRecord) string {
		return rec.FullName
	})
	stats.Duplicates = len(valid) - len(records)
	stats.Cleaned = len(records)

	batch := Batch{
		Source:    stats.Source,
		CrawledAt: startTime,
		Records:   records,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, sink := range p.Sinks {
		sink := sink
		g.Go(func() error {
			if err := sink.Write(gctx, batch); err != nil {
				return fmt.Errorf("sink %s: %w", sink.Name(), err)
			}
			return nil
		})
	}
	err = g.Wait()

	for _, sink := range p.Sinks {
		if csvSink, ok := sink.(*CSVSink); ok {
			stats.CSVPath = csvSink.LastPath()
		}
	}
	stats.Duration = p.now().Sub(startTime)

	if err != nil {
		return stats, err
	}

	p.Logger.Info(ctx, "Finished %s crawl: fetched=%d cleaned=%d skipped=%d duplicates=%d in %s",
		stats.Source, stats.Fetched, stats.Cleaned, stats.Skipped, stats.Duplicates, stats.Duration)
	return stats, nil
}

// Close releases sinks that hold connections.
func (p *Pipeline) Close() error {
	var errs []error
	for _, sink := range p.Sinks {
		if closer, ok := sink.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}

package crawler

import (
	"errors"
	"fmt"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/cleaner"
	"github.com/thep200/github-trending/internal/exporter"
	githubapi "github.com/thep200/github-trending/internal/github_api"
	"github.com/thep200/github-trending/internal/model"
	"github.com/thep200/github-trending/pkg/db"
	"github.com/thep200/github-trending/pkg/kafka"
	"github.com/thep200/github-trending/pkg/log"
)

const (
	SourceSearch   = "search"
	SourceTrending = "trending"
)

var ErrUnknownSource = errors.New("unknown crawl source")

// FactoryCrawler builds a pipeline for source with the sinks enabled in config.
// database may be nil when uploading is disabled.
func FactoryCrawler(source string, logger log.Logger, config *cfg.Config, database *db.Database) (*Pipeline, error) {
	src, err := NewSource(source, logger, config)
	if err != nil {
		return nil, err
	}

	var opts []cleaner.Option
	if config.Cleaner.MineAssets {
		opts = append(opts, cleaner.WithAssetMining())
	}

	var sinks []Sink
	if config.Export.Enabled {
		sinks = append(sinks, NewCSVSink(exporter.NewCSVExporter(config, logger)))
	}
	if config.Upload.Enabled {
		if database == nil {
			return nil, errors.New("[ERROR] upload enabled without a database")
		}
		repoMd, _ := model.NewRepo(config, logger, database)
		sinks = append(sinks, NewStoreSink(repoMd))
	}
	if config.Kafka.Enabled {
		producer, err := kafka.NewProducer(config, logger, config.Kafka.Producer.TopicRepo)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, NewKafkaSink(producer))
	}

	return NewPipeline(logger, src, cleaner.New(opts...), sinks...), nil
}

func NewSource(source string, logger log.Logger, config *cfg.Config) (Source, error) {
	switch source {
	case SourceSearch:
		caller, err := githubapi.NewCaller(logger, config)
		if err != nil {
			return nil, err
		}
		return caller, nil
	case SourceTrending:
		return githubapi.NewTrendingScraper(logger, config), nil
	default:
		return nil, fmt.Errorf("[ERROR] %w: %s", ErrUnknownSource, source)
	}
}

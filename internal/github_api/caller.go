// Package githubapi fetches trending repositories from GitHub, either via
// the REST search API or by scraping the public trending page, and hands
// them over as raw cleaner records.
package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/cleaner"
	"github.com/thep200/github-trending/internal/limiter"
	"github.com/thep200/github-trending/pkg/log"
	"golang.org/x/oauth2"
)

// GitHub search only ever returns the first 1000 results of a query.
const maxSearchResults = 1000

type Caller struct {
	Logger      log.Logger
	Config      *cfg.Config
	client      *github.Client
	rateLimiter *limiter.RateLimiter
	now         func() time.Time
}

func NewCaller(logger log.Logger, config *cfg.Config) (*Caller, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(time.Duration(config.GithubApi.RateLimitResetMin)*time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if config.GithubApi.AccessToken != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.GithubApi.AccessToken}),
		}
	}

	client := github.NewClient(&http.Client{
		Transport: transport,
		Timeout:   time.Duration(config.GithubApi.Timeout) * time.Second,
	})
	if config.GithubApi.ApiUrl != "" {
		apiURL := config.GithubApi.ApiUrl
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		baseURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid api url %q: %w", config.GithubApi.ApiUrl, err)
		}
		client.BaseURL = baseURL
	}

	return &Caller{
		Logger:      logger,
		Config:      config,
		client:      client,
		rateLimiter: limiter.NewRateLimiter(config.GithubApi.RequestsPerSecond),
		now:         time.Now,
	}, nil
}

func (c *Caller) Name() string {
	return "search"
}

// Query builds the search expression for repositories created inside the
// configured trending window.
func (c *Caller) Query() string {
	from := c.now().UTC().AddDate(0, 0, -windowDays(c.Config.GithubApi.Since))
	query := fmt.Sprintf("created:>%s", from.Format("2006-01-02"))
	if lang := strings.TrimSpace(c.Config.GithubApi.Language); lang != "" {
		query += " language:" + lang
	}
	return query
}

func (c *Caller) Fetch(ctx context.Context) ([]cleaner.RawRecord, error) {
	query := c.Query()
	perPage := c.Config.GithubApi.PerPage
	opts := &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: perPage, Page: 1},
	}
	throttle := time.Duration(c.Config.GithubApi.ThrottleDelay) * time.Millisecond

	c.Logger.Info(ctx, "Searching GitHub repositories: %s", query)

	records := make([]cleaner.RawRecord, 0, perPage)
	for page := 1; page <= c.Config.GithubApi.MaxPages; page++ {
		if (page-1)*perPage >= maxSearchResults {
			c.Logger.Warn(ctx, "GitHub API only provides access to the first %d search results", maxSearchResults)
			break
		}

		if err := c.rateLimiter.Wait(ctx, throttle); err != nil {
			return nil, err
		}

		opts.Page = page
		result, resp, err := c.client.Search.Repositories(ctx, query, opts)
		if err != nil {
			var rateErr *github.RateLimitError
			if errors.As(err, &rateErr) {
				return nil, fmt.Errorf("search rate limited until %s: %w", rateErr.Rate.Reset.Time.Format(time.RFC3339), err)
			}
			return nil, fmt.Errorf("failed to search repositories: %w", err)
		}

		c.Logger.Debug(ctx, "Rate limit remaining: %d", resp.Rate.Remaining)
		c.Logger.Info(ctx, "Total repositories found: %d, page: %d, items received: %d",
			result.GetTotal(), page, len(result.Repositories))

		for _, repo := range result.Repositories {
			records = append(records, RawRecordFromRepository(repo))
		}

		if len(result.Repositories) == 0 || resp.NextPage == 0 {
			break
		}
	}

	return records, nil
}

func windowDays(since string) int {
	switch since {
	case "weekly":
		return 7
	case "monthly":
		return 30
	default:
		return 1
	}
}

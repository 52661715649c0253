package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/cleaner"
	"github.com/thep200/github-trending/pkg/log"
)

const userAgent = "github-trending-pipeline/1.0 (+https://github.com/thep200/github-trending)"

// TrendingScraper reads the public github.com/trending page.
type TrendingScraper struct {
	Logger log.Logger
	Config *cfg.Config
	client *http.Client
}

func NewTrendingScraper(logger log.Logger, config *cfg.Config) *TrendingScraper {
	return &TrendingScraper{
		Logger: logger,
		Config: config,
		client: &http.Client{Timeout: time.Duration(config.GithubApi.Timeout) * time.Second},
	}
}

func (s *TrendingScraper) Name() string {
	return "trending"
}

// PageURL is the trending page for the configured language and window.
func (s *TrendingScraper) PageURL() (string, error) {
	u, err := url.Parse(strings.TrimRight(s.Config.GithubApi.TrendingUrl, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid trending url: %w", err)
	}
	if lang := strings.TrimSpace(s.Config.GithubApi.Language); lang != "" {
		u = u.JoinPath(strings.ToLower(lang))
	}
	q := u.Query()
	q.Set("since", s.Config.GithubApi.Since)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *TrendingScraper) Fetch(ctx context.Context) ([]cleaner.RawRecord, error) {
	pageURL, err := s.PageURL()
	if err != nil {
		return nil, err
	}
	s.Logger.Info(ctx, "Scraping trending page: %s", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot received response: %v", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing trending page: %w", err)
	}

	records := ParseTrending(doc, siteRoot(pageURL))
	s.Logger.Info(ctx, "Trending repositories found: %d", len(records))
	return records, nil
}

// ParseTrending turns every article.Box-row of a trending page into a raw
// record. root is the site prefix used to build html_url.
func ParseTrending(doc *goquery.Document, root string) []cleaner.RawRecord {
	records := []cleaner.RawRecord{}
	doc.Find("article.Box-row").Each(func(_ int, row *goquery.Selection) {
		var raw cleaner.RawRecord

		href, _ := row.Find("h2 a").First().Attr("href")
		fullName := strings.Trim(strings.Join(strings.Fields(href), ""), "/")
		if owner, name := splitFullName(fullName); owner != "" {
			raw.FullName = strPtr(owner + "/" + name)
			raw.Name = strPtr(name)
			raw.Owner = &cleaner.RawOwner{Login: strPtr(owner)}
			raw.HTMLURL = strPtr(root + "/" + owner + "/" + name)
		}

		if p := row.Find("p").First(); p.Length() > 0 {
			if inner, err := p.Html(); err == nil {
				raw.Description = strPtr(inner)
			}
		}

		if lang := strings.TrimSpace(row.Find(`[itemprop="programmingLanguage"]`).First().Text()); lang != "" {
			raw.Language = strPtr(lang)
		}

		raw.StargazersCount = parseNumber(row.Find(`a[href$="/stargazers"]`).First().Text())
		raw.ForksCount = parseNumber(row.Find(`a[href$="/forks"]`).First().Text())

		records = append(records, raw)
	})
	return records
}

// parseNumber reads counters like " 12,345 " and returns nil otherwise.
func parseNumber(text string) *float64 {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	f := float64(n)
	return &f
}

func siteRoot(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "https://github.com"
	}
	return u.Scheme + "://" + u.Host
}

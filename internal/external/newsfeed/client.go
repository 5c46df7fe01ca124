package newsfeed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/pkg/httputil"
	"github.com/wonny/capengine/pkg/logger"
	"github.com/wonny/capengine/pkg/redis"
)

// feedSource is one RSS endpoint template, keyed by ticker
type feedSource struct {
	name     string
	template string
}

var defaultSources = []feedSource{
	{name: "yahoo", template: "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"},
	{name: "google", template: "https://news.google.com/rss/search?q=%s+stock&hl=en-US&gl=US&ceid=US:en"},
}

// maxArticlesPerFeed caps how many headlines one feed contributes
const maxArticlesPerFeed = 10

// Client fetches RSS headlines for tickers
// ⭐ SSOT: 뉴스 피드 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	parser     *gofeed.Parser
	logger     *logger.Logger
	cache      *redis.Cache
	sources    []feedSource
	timeout    time.Duration
}

// NewClient creates a new RSS news client. Feed bodies are fetched
// through the shared retrying HTTP client, not gofeed's own.
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		logger:     log,
		sources:    defaultSources,
		timeout:    15 * time.Second,
	}
}

// WithCache enables Redis caching of headline sets
func (c *Client) WithCache(cache *redis.Cache) *Client {
	c.cache = cache
	return c
}

// WithSources overrides the default feed endpoints (used in tests)
func (c *Client) WithSources(sources map[string]string) *Client {
	c.sources = nil
	for name, template := range sources {
		c.sources = append(c.sources, feedSource{name: name, template: template})
	}
	return c
}

// FetchHeadlines collects recent headlines for one ticker across all
// sources. A failed feed is logged and skipped, never fatal.
func (c *Client) FetchHeadlines(ctx context.Context, symbol string) []contracts.NewsArticle {
	if c.cache != nil {
		var cached []contracts.NewsArticle
		hit, err := c.cache.Get(ctx, redis.NewsKey(symbol), &cached)
		if err != nil {
			c.logger.WithError(err).Warn("News cache read failed")
		} else if hit {
			c.logger.WithField("symbol", symbol).Debug("News cache hit")
			return cached
		}
	}

	var articles []contracts.NewsArticle

	for _, src := range c.sources {
		fetched, err := c.fetchFeed(ctx, src, symbol)
		if err != nil {
			c.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"source": src.name,
				"error":  err.Error(),
			}).Warn("Feed fetch failed, skipping source")
			continue
		}
		articles = append(articles, fetched...)
	}

	if c.cache != nil && len(articles) > 0 {
		if err := c.cache.Set(ctx, redis.NewsKey(symbol), articles, redis.TTLShort); err != nil {
			c.logger.WithError(err).Warn("Failed to cache headlines")
		}
	}

	return articles
}

// fetchFeed pulls and converts a single RSS feed
func (c *Client) fetchFeed(ctx context.Context, src feedSource, symbol string) ([]contracts.NewsArticle, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf(src.template, symbol)
	resp, err := c.httpClient.Get(fetchCtx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("fetch feed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	feed, err := c.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var articles []contracts.NewsArticle
	for i, item := range feed.Items {
		if i >= maxArticlesPerFeed {
			break
		}

		published := time.Now().UTC()
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}

		articles = append(articles, contracts.NewsArticle{
			Symbol:    symbol,
			Source:    src.name,
			Title:     item.Title,
			Link:      item.Link,
			Published: published,
			Summary:   item.Description,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"source": src.name,
		"count":  len(articles),
	}).Debug("Fetched headlines")
	return articles, nil
}

package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/capengine/pkg/httputil"
	"github.com/wonny/capengine/pkg/logger"
)

// DividendStats holds the two fields the stats page can backfill
type DividendStats struct {
	DividendYield *float64 // percent points
	PayoutRatio   *float64 // ratio
}

// Scraper pulls dividend statistics from the key-statistics HTML page
// when the JSON endpoint omits them.
type Scraper struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewScraper creates a new stats page scraper
func NewScraper(httpClient *httputil.Client, log *logger.Logger) *Scraper {
	return &Scraper{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://finance.yahoo.com",
	}
}

// ScrapeDividendStats fetches and parses the key-statistics page for a symbol
func (s *Scraper) ScrapeDividendStats(ctx context.Context, symbol string) (*DividendStats, error) {
	url := fmt.Sprintf("%s/quote/%s/key-statistics", s.baseURL, symbol)

	resp, err := s.httpClient.GetWithHeaders(ctx, url, map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	})
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	stats := s.parseStatsDocument(doc)

	s.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"has_yield":  stats.DividendYield != nil,
		"has_payout": stats.PayoutRatio != nil,
	}).Debug("Scraped dividend stats")
	return stats, nil
}

// parseStatsDocument walks the statistics tables looking for the
// dividend rows. Table layout varies, so rows are matched by label.
func (s *Scraper) parseStatsDocument(doc *goquery.Document) *DividendStats {
	stats := &DividendStats{}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		label := strings.TrimSpace(cells.First().Text())
		value := strings.TrimSpace(cells.Eq(1).Text())

		switch {
		case strings.Contains(label, "Forward Annual Dividend Yield"),
			strings.Contains(label, "Trailing Annual Dividend Yield"):
			if stats.DividendYield == nil {
				stats.DividendYield = parsePercentCell(value)
			}
		case strings.Contains(label, "Payout Ratio"):
			if stats.PayoutRatio == nil {
				// Rendered as a percent on the page, stored as a ratio
				if pct := parsePercentCell(value); pct != nil {
					ratio := *pct / 100
					stats.PayoutRatio = &ratio
				}
			}
		}
	})

	return stats
}

// parsePercentCell parses cells like "4.35%" or "N/A"
func parsePercentCell(raw string) *float64 {
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	if raw == "" || raw == "N/A" || raw == "--" {
		return nil
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"

	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/pkg/httputil"
	"github.com/wonny/capengine/pkg/logger"
	"github.com/wonny/capengine/pkg/redis"
)

// quoteSummaryModules are the API modules needed to fill a Financials record
const quoteSummaryModules = "price,summaryDetail,financialData,assetProfile,cashflowStatementHistory,incomeStatementHistory"

// Client handles communication with the market data provider
// ⭐ SSOT: 시세/재무 API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	cache      *redis.Cache
	scraper    *Scraper
}

// NewClient creates a new market data client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		scraper:    NewScraper(httpClient, log),
	}
}

// WithCache enables read-through caching of fundamentals snapshots
func (c *Client) WithCache(cache *redis.Cache) *Client {
	c.cache = cache
	return c
}

// FetchFundamentals fetches the financial snapshot for a single symbol.
// Fields the API omits stay nil; completeness is judged downstream.
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*contracts.Financials, error) {
	if c.cache != nil {
		var cached contracts.Financials
		hit, err := c.cache.Get(ctx, redis.FundamentalsKey(symbol), &cached)
		if err != nil {
			c.logger.WithError(err).Warn("Cache lookup failed, falling through")
		} else if hit {
			c.logger.WithField("symbol", symbol).Debug("Fundamentals cache hit")
			return &cached, nil
		}
	}

	result, err := c.fetchQuoteSummary(ctx, symbol)
	if err != nil {
		return nil, err
	}

	fin := c.toFinancials(result)

	// The summary endpoint occasionally omits dividend fields for
	// symbols that do pay; the stats page still carries them.
	if fin.DividendYield == nil || fin.PayoutRatio == nil {
		c.fillFromScrape(ctx, symbol, fin)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, redis.FundamentalsKey(symbol), fin, redis.TTLMedium); err != nil {
			c.logger.WithError(err).Warn("Failed to cache fundamentals")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":  symbol,
		"missing": len(fin.MissingFields()),
	}).Debug("Fetched fundamentals")
	return fin, nil
}

// fetchQuoteSummary calls the quote-summary endpoint and unwraps the envelope
func (c *Client) fetchQuoteSummary(ctx context.Context, symbol string) (*quoteSummaryResult, error) {
	params := url.Values{}
	params.Set("modules", quoteSummaryModules)
	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope quoteSummaryResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse quote summary: %w", err)
	}

	if envelope.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("provider error for %s: %s", symbol, envelope.QuoteSummary.Error.Description)
	}
	if len(envelope.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("empty result for %s", symbol)
	}

	return &envelope.QuoteSummary.Result[0], nil
}

// toFinancials maps the provider payload onto the pipeline's record.
// Ratios from the provider are converted to the units the record uses:
// dividend_yield and revenue_growth in percent points, payout as a ratio.
func (c *Client) toFinancials(r *quoteSummaryResult) *contracts.Financials {
	fin := &contracts.Financials{}

	if r.Price != nil {
		fin.Price = r.Price.RegularMarketPrice.Raw
	}
	if r.AssetProfile != nil {
		fin.Sector = r.AssetProfile.Sector
	}
	if r.SummaryDetail != nil {
		fin.DividendYield = toPercent(r.SummaryDetail.DividendYield.Raw)
		fin.PayoutRatio = r.SummaryDetail.PayoutRatio.Raw
	}
	if r.FinancialData != nil {
		fin.RevenueGrowth = toPercent(r.FinancialData.RevenueGrowth.Raw)
	}
	if r.IncomeStatementHistory != nil && len(r.IncomeStatementHistory.IncomeStatementHistory) > 0 {
		fin.RDExpense = r.IncomeStatementHistory.IncomeStatementHistory[0].ResearchDevelopment.Raw
	}

	if r.CashflowStatementHistory != nil {
		statements := r.CashflowStatementHistory.CashflowStatements
		if len(statements) > 0 {
			fin.CashFlowFromOps = statements[0].TotalCashFromOperatingActivities.Raw
			fin.Capex = toAbs(statements[0].CapitalExpenditures.Raw)
			fin.FCFCurrentPeriod = freeCashFlow(statements[0])
		}
		if len(statements) > 1 {
			fin.FCFPriorPeriod = freeCashFlow(statements[1])
		}
	}

	return fin
}

// fillFromScrape backfills dividend fields from the stats page
// scraper. The page updates once a day, so scrape results are cached
// far longer than the fundamentals snapshot.
func (c *Client) fillFromScrape(ctx context.Context, symbol string, fin *contracts.Financials) {
	var scraped *DividendStats
	if c.cache != nil {
		var cached DividendStats
		hit, err := c.cache.Get(ctx, redis.DividendStatsKey(symbol), &cached)
		if err != nil {
			c.logger.WithError(err).Warn("Dividend stats cache read failed")
		} else if hit {
			scraped = &cached
		}
	}

	if scraped == nil {
		fetched, err := c.scraper.ScrapeDividendStats(ctx, symbol)
		if err != nil {
			c.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"error":  err.Error(),
			}).Warn("Dividend stats scrape failed")
			return
		}
		scraped = fetched

		if c.cache != nil {
			if err := c.cache.Set(ctx, redis.DividendStatsKey(symbol), scraped, redis.TTLDaily); err != nil {
				c.logger.WithError(err).Warn("Failed to cache dividend stats")
			}
		}
	}

	if fin.DividendYield == nil {
		fin.DividendYield = scraped.DividendYield
	}
	if fin.PayoutRatio == nil {
		fin.PayoutRatio = scraped.PayoutRatio
	}
}

// freeCashFlow computes cfo minus capex for one reported period.
// The provider reports capex as a negative outflow.
func freeCashFlow(s cashflowStatement) *float64 {
	cfo := s.TotalCashFromOperatingActivities.Raw
	capex := s.CapitalExpenditures.Raw
	if cfo == nil || capex == nil {
		return nil
	}
	fcf := *cfo - math.Abs(*capex)
	return &fcf
}

// toPercent converts a provider ratio (0.0153) to percent points (1.53)
func toPercent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	pct := *v * 100
	return &pct
}

// toAbs normalizes capex to a positive magnitude
func toAbs(v *float64) *float64 {
	if v == nil {
		return nil
	}
	abs := math.Abs(*v)
	return &abs
}

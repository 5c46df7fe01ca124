package librarian

import (
	"context"
	"sync"

	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/internal/external/marketdata"
	"github.com/wonny/capengine/internal/external/newsfeed"
	"github.com/wonny/capengine/pkg/logger"
)

// Collector gathers the raw material for one run: a financial snapshot
// and recent headlines per watchlist symbol.
// ⭐ SSOT: 데이터 수집 오케스트레이션은 이 패키지에서만
type Collector struct {
	market   *marketdata.Client
	news     *newsfeed.Client
	scorer   *SentimentScorer
	finRepo  contracts.FinancialRepository
	newsRepo contracts.NewsRepository
	logger   *logger.Logger
}

// Config holds collector configuration
type Config struct {
	Workers  int  // concurrent symbol fetches
	SkipNews bool // fundamentals only
}

// NewCollector creates a new Collector instance. Repositories may be
// nil; persistence is then skipped.
func NewCollector(
	market *marketdata.Client,
	news *newsfeed.Client,
	finRepo contracts.FinancialRepository,
	newsRepo contracts.NewsRepository,
	log *logger.Logger,
) *Collector {
	return &Collector{
		market:   market,
		news:     news,
		scorer:   NewSentimentScorer(),
		finRepo:  finRepo,
		newsRepo: newsRepo,
		logger:   log.WithStage("librarian"),
	}
}

// symbolResult carries one worker's output for one symbol
type symbolResult struct {
	symbol    string
	financial *contracts.Financials
	articles  []contracts.NewsArticle
	err       error
}

// Collect fetches fundamentals and headlines for every symbol.
// A failed symbol is logged and left out of the snapshot; it never
// aborts the batch. The returned set may therefore be smaller than
// the requested list, including empty.
func (c *Collector) Collect(ctx context.Context, runID string, symbols []string, cfg Config) (*contracts.FinancialSet, *contracts.NewsSet, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	c.logger.WithFields(map[string]interface{}{
		"run_id":  runID,
		"symbols": len(symbols),
		"workers": cfg.Workers,
	}).Info("Starting collection")

	symbolCh := make(chan string, len(symbols))
	resultCh := make(chan symbolResult, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker(ctx, symbolCh, resultCh, cfg)
		}()
	}

	for _, symbol := range symbols {
		symbolCh <- symbol
	}
	close(symbolCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	finSet := &contracts.FinancialSet{Records: make(map[string]*contracts.Financials)}
	newsSet := &contracts.NewsSet{}

	failed := 0
	for result := range resultCh {
		if result.err != nil {
			failed++
			c.logger.WithError(result.err).WithField("symbol", result.symbol).Error("Symbol collection failed, skipping")
			continue
		}
		finSet.Records[result.symbol] = result.financial
		newsSet.Articles = append(newsSet.Articles, result.articles...)
	}

	c.logger.WithFields(map[string]interface{}{
		"run_id":    runID,
		"collected": finSet.Count(),
		"failed":    failed,
		"headlines": len(newsSet.Articles),
	}).Info("Collection completed")

	if err := c.persist(ctx, runID, finSet, newsSet); err != nil {
		// Downstream stages can still run off the in-memory snapshot
		c.logger.WithError(err).Error("Failed to persist snapshot")
	}

	return finSet, newsSet, nil
}

// worker processes symbols until the channel drains
func (c *Collector) worker(ctx context.Context, symbolCh <-chan string, resultCh chan<- symbolResult, cfg Config) {
	for symbol := range symbolCh {
		select {
		case <-ctx.Done():
			resultCh <- symbolResult{symbol: symbol, err: ctx.Err()}
			continue
		default:
		}

		fin, err := c.market.FetchFundamentals(ctx, symbol)
		if err != nil {
			resultCh <- symbolResult{symbol: symbol, err: err}
			continue
		}
		fin.Symbol = symbol

		var articles []contracts.NewsArticle
		if !cfg.SkipNews && c.news != nil {
			articles = c.news.FetchHeadlines(ctx, symbol)
			for i := range articles {
				articles[i].Sentiment = c.scorer.ScoreArticle(&articles[i])
			}
		}

		resultCh <- symbolResult{symbol: symbol, financial: fin, articles: articles}
	}
}

// persist saves both sets when repositories are wired
func (c *Collector) persist(ctx context.Context, runID string, finSet *contracts.FinancialSet, newsSet *contracts.NewsSet) error {
	if c.finRepo != nil {
		if err := c.finRepo.SaveSet(ctx, runID, finSet); err != nil {
			return err
		}
	}
	if c.newsRepo != nil && len(newsSet.Articles) > 0 {
		if err := c.newsRepo.SaveSet(ctx, runID, newsSet); err != nil {
			return err
		}
	}
	return nil
}

package commands

import (
	"fmt"

	"github.com/wonny/capengine/internal/architect"
	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/internal/discord"
	"github.com/wonny/capengine/internal/external/marketdata"
	"github.com/wonny/capengine/internal/external/newsfeed"
	"github.com/wonny/capengine/internal/librarian"
	"github.com/wonny/capengine/internal/orchestrator"
	"github.com/wonny/capengine/internal/trader"
	"github.com/wonny/capengine/pkg/config"
	"github.com/wonny/capengine/pkg/database"
	"github.com/wonny/capengine/pkg/httputil"
	"github.com/wonny/capengine/pkg/logger"
	"github.com/wonny/capengine/pkg/redis"
)

// stack holds the wired application components for one command.
// ⭐ SSOT: 컴포넌트 조립은 여기서만
//
// The database and Redis are optional: without DATABASE_URL the
// pipeline runs purely in memory, without REDIS_ENABLED caching and
// shared rate limiting are skipped.
type stack struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *redis.Client

	finRepo    contracts.FinancialRepository
	newsRepo   contracts.NewsRepository
	reportRepo contracts.ReportRepository
	planRepo   contracts.PlanRepository

	collector *librarian.Collector
	architect *architect.Architect
	trader    *trader.Trader
	notifier  *discord.Notifier
	orch      *orchestrator.Orchestrator
}

// buildStack loads configuration and wires every component
func buildStack() (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "console"
	}

	s := &stack{
		cfg: cfg,
		log: logger.New(cfg),
	}

	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("database setup: %w", err)
		}
		s.db = db
		s.finRepo = librarian.NewRepository(db.Pool)
		s.newsRepo = librarian.NewNewsRepository(db.Pool)
		s.reportRepo = architect.NewRepository(db.Pool)
		s.planRepo = trader.NewRepository(db.Pool)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis setup: %w", err)
	}
	s.redis = redisClient

	// Market data client: local pacing always, shared Redis window and
	// read-through cache when Redis is up.
	marketHTTP := httputil.New(s.log).WithLocalRateLimit(cfg.MarketData.RateLimit)
	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient, "ratelimit")
		marketHTTP.WithRateLimiter(limiter, redis.MarketDataRateLimit)
	}
	market := marketdata.NewClient(marketHTTP, s.log, cfg.MarketData.BaseURL)
	if redisClient.Enabled() {
		market.WithCache(redis.NewCache(redisClient, "capengine"))
	}

	newsHTTP := httputil.New(s.log)
	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient, "ratelimit")
		newsHTTP.WithRateLimiter(limiter, redis.NewsRateLimit)
	}
	news := newsfeed.NewClient(newsHTTP, s.log)
	if redisClient.Enabled() {
		news.WithCache(redis.NewCache(redisClient, "capengine"))
	}

	s.collector = librarian.NewCollector(market, news, s.finRepo, s.newsRepo, s.log)
	s.architect = architect.New(s.reportRepo, s.log)
	s.trader = trader.New(s.planRepo, s.log)

	if cfg.Discord.Enabled {
		discordHTTP := httputil.New(s.log)
		if redisClient.Enabled() {
			limiter := redis.NewRateLimiter(redisClient, "ratelimit")
			discordHTTP.WithRateLimiter(limiter, redis.DiscordRateLimit)
		}
		s.notifier = discord.NewNotifier(discordHTTP, cfg.Discord.WebhookURL, s.log)
	}

	s.orch = orchestrator.NewOrchestrator(s.collector, s.architect, s.trader, s.notifier, s.log)
	return s, nil
}

// Close releases held connections
func (s *stack) Close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
}

// scanSet picks the symbols for a collection pass: an explicit
// override wins, then the full universe when requested, otherwise the
// configured watchlist.
func scanSet(cfg *config.Config, universe bool, override []string) []string {
	if len(override) > 0 {
		return override
	}
	if universe {
		return cfg.Strategy.Universe
	}
	return cfg.Strategy.Watchlist
}

// requireDB errors when a command needs persistence but none is wired
func (s *stack) requireDB() error {
	if s.db == nil {
		return fmt.Errorf("this command requires DATABASE_URL to be set")
	}
	return nil
}

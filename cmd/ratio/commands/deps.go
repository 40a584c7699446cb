package commands

import (
	"fmt"
	"time"

	"github.com/ratiohq/ratio/internal/external/coincap"
	"github.com/ratiohq/ratio/internal/external/cryptocompare"
	"github.com/ratiohq/ratio/internal/external/massive"
	"github.com/ratiohq/ratio/internal/namelookup"
	"github.com/ratiohq/ratio/internal/rankings"
	"github.com/ratiohq/ratio/internal/tournament"
	"github.com/ratiohq/ratio/internal/universe"
	"github.com/ratiohq/ratio/pkg/config"
	"github.com/ratiohq/ratio/pkg/httputil"
	"github.com/ratiohq/ratio/pkg/logger"
	"github.com/ratiohq/ratio/pkg/redis"
)

// app holds the wired application dependencies shared by the commands.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	redis   *redis.Client
	service *rankings.Service
}

// buildApp wires config, providers, universes, and the rankings service.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// Equities go through the shared Redis rate limit when available;
	// crypto providers carry their own local limiters.
	massiveHTTP := httputil.New(log).
		WithRateLimiter(redis.NewRateLimiter(redisClient, "ratio"), redis.MassiveRateLimit)
	cryptoHTTP := httputil.New(log)

	massiveClient := massive.NewClient(cfg.Massive, cfg.MAPeriod, massiveHTTP, log)
	coincapClient := coincap.NewClient(cfg.CoinCap, cfg.MAPeriod, cryptoHTTP, log)
	cryptocompareClient := cryptocompare.NewClient(cfg.CryptoCompare, cfg.MAPeriod, cryptoHTTP, log)

	registry, err := universe.New(universe.Config{
		SP500Limit:           cfg.SP500Limit,
		ETFLimit:             cfg.ETFLimit,
		CryptoLimit:          cfg.CryptoLimit,
		CryptoTopForBigBoard: cfg.CryptoTopForBigBoard,
	},
		massive.SP500Symbols(cfg.SP500Limit),
		massive.MajorETFs(cfg.ETFLimit),
		coincap.TopSymbols(cfg.CryptoLimit),
		universe.Providers{
			Equities:      massiveClient,
			CryptoPrimary: coincapClient,
			CryptoFallback: cryptocompareClient,
			CryptoFallbackFor: func(symbol string) bool {
				return !coincap.Supports(symbol) && cryptocompare.Supports(symbol)
			},
		})
	if err != nil {
		return nil, fmt.Errorf("build universes: %w", err)
	}

	resolver := namelookup.NewResolver(redis.NewCache(redisClient, "ratio"), massiveClient, log)
	runner := tournament.NewRunner(cfg.MAPeriod, log)

	service := rankings.NewService(rankings.Options{
		FetchConcurrency: cfg.FetchConcurrency,
		RefreshTimeout:   cfg.RefreshTimeout,
		UpdateInterval:   time.Duration(cfg.UpdateIntervalHours) * time.Hour,
	}, registry, runner, resolver, log)

	return &app{
		cfg:     cfg,
		log:     log,
		redis:   redisClient,
		service: service,
	}, nil
}

// Close releases held connections.
func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

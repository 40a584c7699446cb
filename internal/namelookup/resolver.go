package namelookup

import (
	"context"

	"github.com/ratiohq/ratio/pkg/logger"
	"github.com/ratiohq/ratio/pkg/redis"
)

// NameFetcher resolves a ticker symbol to a display name via an upstream
// reference API.
type NameFetcher interface {
	FetchTickerName(ctx context.Context, symbol string) (string, error)
}

// cryptoNames are well-known coin names not worth an API call.
var cryptoNames = map[string]string{
	"BTC":   "Bitcoin",
	"ETH":   "Ethereum",
	"BNB":   "Binance Coin",
	"SOL":   "Solana",
	"XRP":   "XRP",
	"ADA":   "Cardano",
	"AVAX":  "Avalanche",
	"DOT":   "Polkadot",
	"MATIC": "Polygon",
	"LINK":  "Chainlink",
	"UNI":   "Uniswap",
	"ATOM":  "Cosmos",
	"DOGE":  "Dogecoin",
	"SHIB":  "Shiba Inu",
	"LTC":   "Litecoin",
	"BCH":   "Bitcoin Cash",
	"XLM":   "Stellar",
	"XMR":   "Monero",
	"TRX":   "Tron",
	"TON":   "Toncoin",
	"PEPE":  "Pepe",
	"WIF":   "dogwifhat",
	"BONK":  "Bonk",
}

// Resolver maps symbols to display names: hardcoded crypto names first,
// then the Redis cache, then the reference API. Lookup failures degrade
// to the symbol itself; a missing name never fails a ranking.
type Resolver struct {
	cache   *redis.Cache
	fetcher NameFetcher
	logger  *logger.Logger
}

// NewResolver creates a name resolver.
func NewResolver(cache *redis.Cache, fetcher NameFetcher, log *logger.Logger) *Resolver {
	return &Resolver{
		cache:   cache,
		fetcher: fetcher,
		logger:  log,
	}
}

// Resolve returns the display name for a symbol, falling back to the
// symbol itself when nothing better is known.
func (r *Resolver) Resolve(ctx context.Context, symbol string) string {
	if name, ok := cryptoNames[symbol]; ok {
		return name
	}

	var cached string
	if found, err := r.cache.Get(ctx, redis.AssetNameKey(symbol), &cached); err == nil && found {
		return cached
	}

	if r.fetcher == nil {
		return symbol
	}

	name, err := r.fetcher.FetchTickerName(ctx, symbol)
	if err != nil {
		r.logger.WithError(err).WithField("symbol", symbol).Debug("Name lookup failed")
		return symbol
	}

	if err := r.cache.Set(ctx, redis.AssetNameKey(symbol), name, redis.TTLDaily); err != nil {
		r.logger.WithError(err).WithField("symbol", symbol).Debug("Name cache write failed")
	}

	return name
}

package universe

import (
	"errors"
	"fmt"

	"github.com/ratiohq/ratio/internal/contracts"
)

// Universe identifiers served by the API.
const (
	BigBoard = "big-board" // stocks + ETFs + top crypto
	Crypto   = "crypto"    // full crypto explorer
)

// ErrUnknownUniverse is returned for universe IDs the registry does not
// know about.
var ErrUnknownUniverse = errors.New("unknown universe")

// Member couples a symbol with the provider that serves its price history.
type Member struct {
	Symbol   string
	Provider contracts.PriceProvider
}

// Registry maps universe IDs to their membership. Built once at startup;
// read-only afterwards.
type Registry struct {
	universes map[string][]Member
	order     []string
}

// Config sizes the universes. A zero limit means the full list.
type Config struct {
	SP500Limit           int
	ETFLimit             int
	CryptoLimit          int
	CryptoTopForBigBoard int
}

// Providers are the price-series sources the registry assigns members to.
type Providers struct {
	// Equities serves stocks and ETFs.
	Equities contracts.PriceProvider
	// CryptoPrimary serves most crypto symbols.
	CryptoPrimary contracts.PriceProvider
	// CryptoFallback serves crypto symbols the primary lacks. Optional.
	CryptoFallback contracts.PriceProvider
	// CryptoFallbackFor reports whether a symbol should use the fallback.
	CryptoFallbackFor func(symbol string) bool
}

// New builds the registry from curated symbol lists.
// The big board holds stocks, ETFs, and the top slice of crypto; the
// crypto universe holds the full crypto list.
func New(cfg Config, equitySymbols, etfSymbols, cryptoSymbols []string, p Providers) (*Registry, error) {
	if p.Equities == nil || p.CryptoPrimary == nil {
		return nil, fmt.Errorf("equities and primary crypto providers are required")
	}

	equitySymbols = capped(equitySymbols, cfg.SP500Limit)
	etfSymbols = capped(etfSymbols, cfg.ETFLimit)
	cryptoSymbols = capped(cryptoSymbols, cfg.CryptoLimit)

	cryptoMember := func(symbol string) Member {
		if p.CryptoFallback != nil && p.CryptoFallbackFor != nil && p.CryptoFallbackFor(symbol) {
			return Member{Symbol: symbol, Provider: p.CryptoFallback}
		}
		return Member{Symbol: symbol, Provider: p.CryptoPrimary}
	}

	seen := make(map[string]bool)
	bigBoard := make([]Member, 0, len(equitySymbols)+len(etfSymbols)+cfg.CryptoTopForBigBoard)

	for _, symbol := range equitySymbols {
		if !seen[symbol] {
			seen[symbol] = true
			bigBoard = append(bigBoard, Member{Symbol: symbol, Provider: p.Equities})
		}
	}
	for _, symbol := range etfSymbols {
		if !seen[symbol] {
			seen[symbol] = true
			bigBoard = append(bigBoard, Member{Symbol: symbol, Provider: p.Equities})
		}
	}

	topCrypto := cryptoSymbols
	if cfg.CryptoTopForBigBoard > 0 && cfg.CryptoTopForBigBoard < len(topCrypto) {
		topCrypto = topCrypto[:cfg.CryptoTopForBigBoard]
	}
	for _, symbol := range topCrypto {
		if !seen[symbol] {
			seen[symbol] = true
			bigBoard = append(bigBoard, cryptoMember(symbol))
		}
	}

	crypto := make([]Member, 0, len(cryptoSymbols))
	cryptoSeen := make(map[string]bool)
	for _, symbol := range cryptoSymbols {
		if !cryptoSeen[symbol] {
			cryptoSeen[symbol] = true
			crypto = append(crypto, cryptoMember(symbol))
		}
	}

	return &Registry{
		universes: map[string][]Member{
			BigBoard: bigBoard,
			Crypto:   crypto,
		},
		order: []string{BigBoard, Crypto},
	}, nil
}

// capped trims the list to limit entries; zero or negative keeps all.
func capped(symbols []string, limit int) []string {
	if limit > 0 && limit < len(symbols) {
		return symbols[:limit]
	}
	return symbols
}

// Members returns the membership of a universe.
func (r *Registry) Members(universeID string) ([]Member, error) {
	members, ok := r.universes[universeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUniverse, universeID)
	}
	return members, nil
}

// IDs returns all universe IDs in serving priority order (big board
// first, matching asset-detail lookup order).
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Size returns the member count of a universe.
func (r *Registry) Size(universeID string) int {
	return len(r.universes[universeID])
}

// Probes returns one representative member per distinct provider, used by
// connectivity diagnostics.
func (r *Registry) Probes() []Member {
	seen := make(map[string]bool)
	probes := make([]Member, 0, 3)
	for _, id := range r.order {
		for _, m := range r.universes[id] {
			name := m.Provider.Name()
			if !seen[name] {
				seen[name] = true
				probes = append(probes, m)
			}
		}
	}
	return probes
}

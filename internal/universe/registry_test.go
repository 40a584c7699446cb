package universe

import (
	"context"
	"errors"
	"testing"

	"github.com/ratiohq/ratio/internal/contracts"
)

type stubProvider struct{ name string }

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) FetchWeeklyCloses(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	return contracts.PriceSeries{Symbol: symbol}, nil
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	equities := &stubProvider{name: "equities"}
	primary := &stubProvider{name: "crypto-primary"}
	fallback := &stubProvider{name: "crypto-fallback"}

	reg, err := New(
		Config{CryptoTopForBigBoard: 2},
		[]string{"AAPL", "MSFT"},
		[]string{"SPY", "GLD"},
		[]string{"BTC", "BNB", "ETH", "SOL"},
		Providers{
			Equities:          equities,
			CryptoPrimary:     primary,
			CryptoFallback:    fallback,
			CryptoFallbackFor: func(s string) bool { return s == "BNB" },
		},
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return reg
}

func TestRegistry_BigBoardComposition(t *testing.T) {
	reg := testRegistry(t)

	members, err := reg.Members(BigBoard)
	if err != nil {
		t.Fatalf("Members() failed: %v", err)
	}

	// 2 stocks + 2 ETFs + top 2 crypto
	if len(members) != 6 {
		t.Fatalf("big board has %d members, want 6", len(members))
	}

	bySymbol := make(map[string]Member)
	for _, m := range members {
		bySymbol[m.Symbol] = m
	}

	if _, ok := bySymbol["ETH"]; ok {
		t.Error("ETH is outside the top-2 crypto slice and should not be on the big board")
	}
	if bySymbol["AAPL"].Provider.Name() != "equities" {
		t.Error("stocks should use the equities provider")
	}
	if bySymbol["BNB"].Provider.Name() != "crypto-fallback" {
		t.Error("BNB should route to the fallback provider")
	}
	if bySymbol["BTC"].Provider.Name() != "crypto-primary" {
		t.Error("BTC should route to the primary crypto provider")
	}
}

func TestRegistry_CryptoComposition(t *testing.T) {
	reg := testRegistry(t)

	members, err := reg.Members(Crypto)
	if err != nil {
		t.Fatalf("Members() failed: %v", err)
	}

	if len(members) != 4 {
		t.Errorf("crypto universe has %d members, want all 4", len(members))
	}
}

func TestRegistry_UnknownUniverse(t *testing.T) {
	reg := testRegistry(t)

	if _, err := reg.Members("commodities"); !errors.Is(err, ErrUnknownUniverse) {
		t.Errorf("want ErrUnknownUniverse, got %v", err)
	}
}

func TestRegistry_IDsAndSize(t *testing.T) {
	reg := testRegistry(t)

	ids := reg.IDs()
	if len(ids) != 2 || ids[0] != BigBoard || ids[1] != Crypto {
		t.Errorf("IDs() = %v, want [big-board crypto]", ids)
	}

	if reg.Size(BigBoard) != 6 {
		t.Errorf("Size(big-board) = %d, want 6", reg.Size(BigBoard))
	}
	if reg.Size("nope") != 0 {
		t.Errorf("Size(nope) = %d, want 0", reg.Size("nope"))
	}
}

func TestRegistry_Probes(t *testing.T) {
	reg := testRegistry(t)

	probes := reg.Probes()
	if len(probes) != 3 {
		t.Fatalf("Probes() returned %d members, want one per provider (3)", len(probes))
	}

	seen := make(map[string]bool)
	for _, m := range probes {
		name := m.Provider.Name()
		if seen[name] {
			t.Errorf("provider %s probed twice", name)
		}
		seen[name] = true
	}
}

func TestRegistry_AppliesLimits(t *testing.T) {
	equities := &stubProvider{name: "equities"}
	primary := &stubProvider{name: "crypto-primary"}

	reg, err := New(
		Config{SP500Limit: 1, ETFLimit: 1, CryptoLimit: 3, CryptoTopForBigBoard: 1},
		[]string{"AAPL", "MSFT"},
		[]string{"SPY", "GLD"},
		[]string{"BTC", "ETH", "SOL", "ADA"},
		Providers{Equities: equities, CryptoPrimary: primary},
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// 1 stock + 1 ETF + top 1 crypto
	if reg.Size(BigBoard) != 3 {
		t.Errorf("Size(big-board) = %d, want 3", reg.Size(BigBoard))
	}
	if reg.Size(Crypto) != 3 {
		t.Errorf("Size(crypto) = %d, want 3", reg.Size(Crypto))
	}

	members, err := reg.Members(Crypto)
	if err != nil {
		t.Fatalf("Members() failed: %v", err)
	}
	for _, m := range members {
		if m.Symbol == "ADA" {
			t.Error("ADA is past the crypto limit and should be dropped")
		}
	}
}

func TestRegistry_RequiresProviders(t *testing.T) {
	_, err := New(Config{}, nil, nil, nil, Providers{})
	if err == nil {
		t.Error("New() should fail without providers")
	}
}

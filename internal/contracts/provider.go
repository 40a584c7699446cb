package contracts

import (
	"context"
	"fmt"
)

// PriceProvider fetches weekly closing-price history for a symbol.
// Implementations live in internal/external; the ranking core only
// depends on this interface.
type PriceProvider interface {
	// Name identifies the provider in logs and errors.
	Name() string

	// FetchWeeklyCloses returns the weekly close series for symbol, oldest
	// first. A failure is reported as a *ProviderError.
	FetchWeeklyCloses(ctx context.Context, symbol string) (PriceSeries, error)
}

// ProviderError reports a single symbol's fetch failure. It is recovered
// by excluding the symbol from the refresh, never fatal on its own.
type ProviderError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: fetch %s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err with provider and symbol context.
func NewProviderError(provider, symbol string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Symbol: symbol, Err: err}
}

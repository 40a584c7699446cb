package cryptocompare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ratiohq/ratio/internal/contracts"
	"github.com/ratiohq/ratio/internal/external/coincap"
	"github.com/ratiohq/ratio/pkg/config"
	"github.com/ratiohq/ratio/pkg/httputil"
	"github.com/ratiohq/ratio/pkg/logger"
)

const extraDays = 30

// supported lists the coins this client covers: majors that the primary
// crypto provider tends to miss or misprice.
var supported = map[string]bool{
	"BNB":  true,
	"TRX":  true,
	"TON":  true,
	"HBAR": true,
	"VET":  true,
	"FTM":  true,
	"ARB":  true,
	"OP":   true,
	"PEPE": true,
	"WIF":  true,
	"BONK": true,
}

// Client handles cryptocurrency history from the CryptoCompare API.
// It backs up the primary crypto provider for the symbols it supports.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	weeks      int
	limiter    *rate.Limiter
}

// NewClient creates a new CryptoCompare client. The free tier allows
// roughly 50 calls a minute.
func NewClient(cfg config.CryptoCompareConfig, weeks int, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
		weeks:      weeks,
		limiter:    rate.NewLimiter(rate.Every(1500*time.Millisecond), 1),
	}
}

// Name identifies the provider in logs and errors.
func (c *Client) Name() string {
	return "cryptocompare"
}

// Supports reports whether this client covers the symbol.
func Supports(symbol string) bool {
	return supported[symbol]
}

// histoDayResponse mirrors the histoday endpoint payload.
type histoDayResponse struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
	Data     struct {
		Data []histoDayBar `json:"Data"`
	} `json:"Data"`
}

type histoDayBar struct {
	Time  int64   `json:"time"` // unix seconds
	Close float64 `json:"close"`
}

// FetchWeeklyCloses returns the weekly close series for a supported
// crypto symbol, oldest first.
func (c *Client) FetchWeeklyCloses(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	if !Supports(symbol) {
		return contracts.PriceSeries{}, contracts.NewProviderError(c.Name(), symbol,
			fmt.Errorf("symbol not supported"))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return contracts.PriceSeries{}, contracts.NewProviderError(c.Name(), symbol, err)
	}

	days := c.weeks*7 + extraDays
	url := fmt.Sprintf(
		"%s/histoday?fsym=%s&tsym=USD&limit=%d&toTs=%d",
		c.baseURL, symbol, days, time.Now().Unix(),
	)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return contracts.PriceSeries{}, contracts.NewProviderError(c.Name(), symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.PriceSeries{}, contracts.NewProviderError(c.Name(), symbol,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contracts.PriceSeries{}, contracts.NewProviderError(c.Name(), symbol,
			fmt.Errorf("read response body: %w", err))
	}

	series, err := parseHistoDayResponse(symbol, body, c.weeks)
	if err != nil {
		return contracts.PriceSeries{}, contracts.NewProviderError(c.Name(), symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"weeks":  series.Len(),
	}).Debug("Fetched weekly closes")

	return series, nil
}

// parseHistoDayResponse decodes daily bars, drops non-positive closes,
// and downsamples to weekly points.
func parseHistoDayResponse(symbol string, body []byte, weeks int) (contracts.PriceSeries, error) {
	var data histoDayResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("decode response: %w", err)
	}

	if data.Response == "Error" {
		return contracts.PriceSeries{}, fmt.Errorf("API error: %s", data.Message)
	}

	daily := make([]contracts.PricePoint, 0, len(data.Data.Data))
	for _, bar := range data.Data.Data {
		if bar.Close <= 0 {
			// Leading zeros from before the coin listed
			continue
		}
		daily = append(daily, contracts.PricePoint{
			Date:  time.Unix(bar.Time, 0).UTC(),
			Close: bar.Close,
		})
	}

	if len(daily) == 0 {
		return contracts.PriceSeries{}, fmt.Errorf("no data for %s", symbol)
	}

	return contracts.NewPriceSeries(symbol, coincap.DownsampleWeekly(daily, weeks)), nil
}

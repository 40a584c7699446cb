package coincap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ratiohq/ratio/internal/contracts"
	"github.com/ratiohq/ratio/pkg/config"
	"github.com/ratiohq/ratio/pkg/httputil"
	"github.com/ratiohq/ratio/pkg/logger"
)

// extraDays is the fetch buffer beyond weeks*7; the history endpoint can
// have gaps around listing dates.
const extraDays = 30

// Client handles cryptocurrency history from the CoinCap API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	weeks      int
	limiter    *rate.Limiter
}

// NewClient creates a new CoinCap client with a client-side token bucket
// to stay inside the free-tier rate limit.
func NewClient(cfg config.CoinCapConfig, weeks int, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
		weeks:      weeks,
		limiter:    rate.NewLimiter(rate.Limit(10), 10), // 10 req/s
	}
}

// Name identifies the provider in logs and errors.
func (c *Client) Name() string {
	return "coincap"
}

// historyResponse mirrors the asset history endpoint payload.
type historyResponse struct {
	Data []historyPoint `json:"data"`
}

type historyPoint struct {
	PriceUSD string `json:"priceUsd"`
	Time     int64  `json:"time"` // unix milliseconds
}

// FetchWeeklyCloses returns the weekly close series for a crypto symbol,
// oldest first. Daily history is downsampled to weekly bars anchored at
// the most recent day.
func (c *Client) FetchWeeklyCloses(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return contracts.PriceSeries{}, contracts.NewProviderError(c.Name(), symbol, err)
	}

	assetID := AssetID(symbol)

	end := time.Now()
	start := end.AddDate(0, 0, -(c.weeks*7 + extraDays))

	url := fmt.Sprintf(
		"%s/assets/%s/history?interval=d1&start=%d&end=%d",
		c.baseURL, assetID, start.UnixMilli(), end.UnixMilli(),
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

	series, err := parseHistoryResponse(symbol, body, c.weeks)
	if err != nil {
		return contracts.PriceSeries{}, contracts.NewProviderError(c.Name(), symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"asset":  assetID,
		"weeks":  series.Len(),
	}).Debug("Fetched weekly closes")

	return series, nil
}

// parseHistoryResponse decodes daily history and downsamples it to at most
// weeks weekly points.
func parseHistoryResponse(symbol string, body []byte, weeks int) (contracts.PriceSeries, error) {
	var data historyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("decode response: %w", err)
	}

	if len(data.Data) == 0 {
		return contracts.PriceSeries{}, fmt.Errorf("no data for %s", symbol)
	}

	daily := make([]contracts.PricePoint, 0, len(data.Data))
	for _, p := range data.Data {
		price, err := strconv.ParseFloat(strings.TrimSpace(p.PriceUSD), 64)
		if err != nil {
			continue // tolerate individual malformed points
		}
		daily = append(daily, contracts.PricePoint{
			Date:  time.UnixMilli(p.Time).UTC(),
			Close: price,
		})
	}

	if len(daily) == 0 {
		return contracts.PriceSeries{}, fmt.Errorf("no parseable prices for %s", symbol)
	}

	return contracts.NewPriceSeries(symbol, DownsampleWeekly(daily, weeks)), nil
}

// DownsampleWeekly reduces ascending daily points to weekly points by
// keeping every 7th bar counted back from the most recent one, so the
// latest close always survives. At most weeks points are returned.
func DownsampleWeekly(daily []contracts.PricePoint, weeks int) []contracts.PricePoint {
	if len(daily) == 0 || weeks <= 0 {
		return nil
	}

	picked := make([]contracts.PricePoint, 0, weeks)
	for i := len(daily) - 1; i >= 0 && len(picked) < weeks; i -= 7 {
		picked = append(picked, daily[i])
	}

	// Reverse back to ascending
	for i, j := 0, len(picked)-1; i < j; i, j = i+1, j-1 {
		picked[i], picked[j] = picked[j], picked[i]
	}

	return picked
}

package massive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ratiohq/ratio/internal/contracts"
	"github.com/ratiohq/ratio/pkg/config"
	"github.com/ratiohq/ratio/pkg/httputil"
	"github.com/ratiohq/ratio/pkg/logger"
)

// extraWeeks is the fetch buffer beyond the MA period; holidays and
// half-sessions can thin out the aggregate window.
const extraWeeks = 10

// Client handles communication with the Massive (Polygon-compatible)
// aggregates API for stocks and ETFs.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	weeks      int
}

// NewClient creates a new Massive client. weeks is the number of weekly
// bars a ranking pass needs per symbol.
func NewClient(cfg config.MassiveConfig, weeks int, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		weeks:      weeks,
	}
}

// Name identifies the provider in logs and errors.
func (c *Client) Name() string {
	return "massive"
}

// aggsResponse mirrors the aggregates endpoint payload.
type aggsResponse struct {
	Ticker       string    `json:"ticker"`
	ResultsCount int       `json:"resultsCount"`
	Results      []aggsBar `json:"results"`
	Status       string    `json:"status"`
}

type aggsBar struct {
	Close     float64 `json:"c"`
	Timestamp int64   `json:"t"` // bar start, unix milliseconds
}

// FetchWeeklyCloses returns the adjusted weekly close series for a symbol,
// oldest first.
func (c *Client) FetchWeeklyCloses(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -7*(c.weeks+extraWeeks))

	url := fmt.Sprintf(
		"%s/v2/aggs/ticker/%s/range/1/week/%s/%s?adjusted=true&sort=asc&limit=%d&apiKey=%s",
		c.baseURL, symbol,
		start.Format("2006-01-02"), end.Format("2006-01-02"),
		c.weeks+extraWeeks, c.apiKey,
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

	series, err := parseAggsResponse(symbol, body)
	if err != nil {
		return contracts.PriceSeries{}, contracts.NewProviderError(c.Name(), symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"weeks":  series.Len(),
	}).Debug("Fetched weekly closes")

	return series, nil
}

// parseAggsResponse decodes an aggregates payload into a price series.
func parseAggsResponse(symbol string, body []byte) (contracts.PriceSeries, error) {
	var data aggsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("decode response: %w", err)
	}

	if len(data.Results) == 0 {
		return contracts.PriceSeries{}, fmt.Errorf("no data for %s", symbol)
	}

	points := make([]contracts.PricePoint, 0, len(data.Results))
	for _, bar := range data.Results {
		points = append(points, contracts.PricePoint{
			Date:  time.UnixMilli(bar.Timestamp).UTC(),
			Close: bar.Close,
		})
	}

	return contracts.NewPriceSeries(symbol, points), nil
}

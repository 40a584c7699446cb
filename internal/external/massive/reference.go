package massive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// tickerResponse mirrors the reference tickers endpoint payload.
type tickerResponse struct {
	Results struct {
		Ticker string `json:"ticker"`
		Name   string `json:"name"`
	} `json:"results"`
	Status string `json:"status"`
}

// FetchTickerName returns the display name for a stock or ETF symbol.
func (c *Client) FetchTickerName(ctx context.Context, symbol string) (string, error) {
	url := fmt.Sprintf("%s/v3/reference/tickers/%s?apiKey=%s", c.baseURL, symbol, c.apiKey)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch ticker reference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	var data tickerResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if data.Results.Name == "" {
		return "", fmt.Errorf("no name for %s", symbol)
	}

	return data.Results.Name, nil
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratiohq/ratio/internal/contracts"
	"github.com/ratiohq/ratio/internal/rankings"
	"github.com/ratiohq/ratio/internal/tournament"
	"github.com/ratiohq/ratio/internal/universe"
	"github.com/ratiohq/ratio/pkg/logger"
)

const testPeriod = 5

type fixedProvider struct {
	mu      sync.Mutex
	series  map[string][]float64
	failAll bool
}

func (f *fixedProvider) Name() string { return "fixed" }

func (f *fixedProvider) FetchWeeklyCloses(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return contracts.PriceSeries{}, contracts.NewProviderError("fixed", symbol, errors.New("down"))
	}
	closes, ok := f.series[symbol]
	if !ok {
		return contracts.PriceSeries{}, contracts.NewProviderError("fixed", symbol, errors.New("unknown"))
	}
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	points := make([]contracts.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = contracts.PricePoint{Date: start.AddDate(0, 0, 7*i), Close: c}
	}
	return contracts.NewPriceSeries(symbol, points), nil
}

func trend(base, step float64) []float64 {
	out := make([]float64, testPeriod+2)
	for i := range out {
		out[i] = base + step*float64(i)
	}
	return out
}

func newTestRouter(t *testing.T) (http.Handler, *rankings.Service, *fixedProvider) {
	t.Helper()

	p := &fixedProvider{series: map[string][]float64{
		"AAA": trend(100, 5),
		"BBB": trend(50, -1),
		"BTC": trend(40000, 900),
		"ETH": trend(3000, -40),
	}}

	reg, err := universe.New(universe.Config{
		SP500Limit:           2,
		CryptoLimit:          2,
		CryptoTopForBigBoard: 2,
	}, []string{"AAA", "BBB"}, nil, []string{"BTC", "ETH"}, universe.Providers{
		Equities:      p,
		CryptoPrimary: p,
	})
	require.NoError(t, err)

	svc := rankings.NewService(rankings.Options{
		FetchConcurrency: 4,
		RefreshTimeout:   5 * time.Second,
		UpdateInterval:   time.Hour,
	}, reg, tournament.NewRunner(testPeriod, logger.NewNop()), nil, logger.NewNop())

	router := mux.NewRouter()
	h := NewRankingsHandler(svc, logger.NewNop())
	router.HandleFunc("/health", h.GetHealth).Methods("GET")
	router.HandleFunc("/api/big-board", h.GetBigBoard).Methods("GET")
	router.HandleFunc("/api/crypto-explorer", h.GetCryptoExplorer).Methods("GET")
	router.HandleFunc("/api/asset/{symbol}", h.GetAsset).Methods("GET")
	router.HandleFunc("/api/network-test", h.GetNetworkTest).Methods("GET")
	router.HandleFunc("/api/update", h.TriggerUpdate).Methods("POST")

	return router, svc, p
}

func doRequest(router http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestGetBigBoardBeforeRefresh(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, "GET", "/api/big-board")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
}

func TestGetBigBoard(t *testing.T) {
	router, svc, _ := newTestRouter(t)
	_, err := svc.Refresh(context.Background(), universe.BigBoard)
	require.NoError(t, err)

	rec := doRequest(router, "GET", "/api/big-board")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)

	var body BoardResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, universe.BigBoard, body.Universe)
	assert.Equal(t, 4, body.AssetCount)
	assert.Len(t, body.Entries, 4)
	assert.Equal(t, 1, body.Entries[0].Rank)
}

func TestGetBigBoardLimit(t *testing.T) {
	router, svc, _ := newTestRouter(t)
	_, err := svc.Refresh(context.Background(), universe.BigBoard)
	require.NoError(t, err)

	rec := doRequest(router, "GET", "/api/big-board?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body BoardResponse
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, 2, body.Returned)
	assert.Len(t, body.Entries, 2)
	assert.Equal(t, 4, body.AssetCount)
}

func TestGetBigBoardInvalidLimit(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, "GET", "/api/big-board?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCryptoExplorer(t *testing.T) {
	router, svc, _ := newTestRouter(t)
	_, err := svc.Refresh(context.Background(), universe.Crypto)
	require.NoError(t, err)

	rec := doRequest(router, "GET", "/api/crypto-explorer")
	require.Equal(t, http.StatusOK, rec.Code)

	var body BoardResponse
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, universe.Crypto, body.Universe)
	assert.Len(t, body.Entries, 2)
}

func TestGetAsset(t *testing.T) {
	router, svc, _ := newTestRouter(t)
	require.NoError(t, svc.RefreshAll(context.Background()))

	rec := doRequest(router, "GET", "/api/asset/btc")
	require.Equal(t, http.StatusOK, rec.Code)

	var body AssetResponse
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "BTC", body.Entry.Symbol)
	assert.Equal(t, universe.BigBoard, body.Universe)
}

func TestGetAssetNotFound(t *testing.T) {
	router, svc, _ := newTestRouter(t)
	require.NoError(t, svc.RefreshAll(context.Background()))

	rec := doRequest(router, "GET", "/api/asset/ZZZ")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTriggerUpdateSingleUniverse(t *testing.T) {
	router, svc, _ := newTestRouter(t)

	rec := doRequest(router, "POST", "/api/update?universe=crypto")
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := svc.GetCurrent(universe.Crypto)
	assert.NoError(t, err)
	_, err = svc.GetCurrent(universe.BigBoard)
	assert.ErrorIs(t, err, rankings.ErrNoDataYet)
}

func TestTriggerUpdateUnknownUniverse(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, "POST", "/api/update?universe=bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerUpdateTotalFailure(t *testing.T) {
	router, _, p := newTestRouter(t)

	p.mu.Lock()
	p.failAll = true
	p.mu.Unlock()

	rec := doRequest(router, "POST", "/api/update?universe=big-board")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNetworkTestEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, "GET", "/api/network-test")
	require.Equal(t, http.StatusOK, rec.Code)

	var statuses []rankings.ProviderStatus
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &statuses))

	// One provider serves every universe in the fixture.
	require.Len(t, statuses, 1)
	assert.Equal(t, "fixed", statuses[0].Provider)
	assert.True(t, statuses[0].OK)
	assert.Positive(t, statuses[0].Points)
}

func TestNetworkTestReportsProviderFailure(t *testing.T) {
	router, _, p := newTestRouter(t)

	p.mu.Lock()
	p.failAll = true
	p.mu.Unlock()

	rec := doRequest(router, "GET", "/api/network-test")
	require.Equal(t, http.StatusOK, rec.Code)

	var statuses []rankings.ProviderStatus
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &statuses))

	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].OK)
	assert.NotEmpty(t, statuses[0].Error)
}

func TestHealthEndpoint(t *testing.T) {
	router, svc, _ := newTestRouter(t)

	rec := doRequest(router, "GET", "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health rankings.Health
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "degraded", health.Status)

	require.NoError(t, svc.RefreshAll(context.Background()))

	rec = doRequest(router, "GET", "/health")
	env = decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "ok", health.Status)
}

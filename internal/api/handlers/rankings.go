package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/ratiohq/ratio/internal/contracts"
	"github.com/ratiohq/ratio/internal/rankings"
	"github.com/ratiohq/ratio/internal/universe"
	"github.com/ratiohq/ratio/pkg/logger"
)

// RankingsHandler serves ranking snapshots and refresh triggers.
type RankingsHandler struct {
	service *rankings.Service
	logger  *logger.Logger
}

// NewRankingsHandler creates the handler.
func NewRankingsHandler(svc *rankings.Service, log *logger.Logger) *RankingsHandler {
	return &RankingsHandler{
		service: svc,
		logger:  log,
	}
}

// BoardResponse is the payload for board endpoints.
type BoardResponse struct {
	Universe   string                  `json:"universe"`
	ComputedAt time.Time               `json:"computed_at"`
	AssetCount int                     `json:"asset_count"`
	Returned   int                     `json:"returned"`
	Entries    []contracts.RankedEntry `json:"entries"`
}

// AssetResponse is the payload for the asset detail endpoint.
type AssetResponse struct {
	Universe   string                `json:"universe"`
	ComputedAt time.Time             `json:"computed_at"`
	Entry      contracts.RankedEntry `json:"entry"`
}

// UpdateResponse is the payload for the manual refresh endpoint.
type UpdateResponse struct {
	Universes []string `json:"universes"`
	Message   string   `json:"message"`
}

// GetHealth returns per-universe snapshot state.
// GET /health
func (h *RankingsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Health())
}

// GetBigBoard returns the big board ranking.
// GET /api/big-board?limit=50
func (h *RankingsHandler) GetBigBoard(w http.ResponseWriter, r *http.Request) {
	h.serveBoard(w, r, universe.BigBoard)
}

// GetCryptoExplorer returns the crypto ranking.
// GET /api/crypto-explorer?limit=50
func (h *RankingsHandler) GetCryptoExplorer(w http.ResponseWriter, r *http.Request) {
	h.serveBoard(w, r, universe.Crypto)
}

func (h *RankingsHandler) serveBoard(w http.ResponseWriter, r *http.Request, universeID string) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
		return
	}

	snap, entries, err := h.service.GetRankings(universeID, limit)
	if err != nil {
		if errors.Is(err, rankings.ErrNoDataYet) {
			respondError(w, http.StatusServiceUnavailable, "Rankings not computed yet, try again shortly")
			return
		}
		h.logger.WithError(err).WithField("universe", universeID).Error("Failed to serve rankings")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve rankings")
		return
	}

	respondJSON(w, http.StatusOK, BoardResponse{
		Universe:   snap.UniverseID,
		ComputedAt: snap.ComputedAt,
		AssetCount: snap.AssetCount,
		Returned:   len(entries),
		Entries:    entries,
	})
}

// GetAsset returns one asset's standing, big board taking priority when
// the symbol appears in both universes.
// GET /api/asset/{symbol}
func (h *RankingsHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	entry, snap, err := h.service.GetAssetDetail(symbol)
	if err != nil {
		if errors.Is(err, rankings.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Asset not found in current rankings")
			return
		}
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to serve asset detail")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve asset")
		return
	}

	respondJSON(w, http.StatusOK, AssetResponse{
		Universe:   snap.UniverseID,
		ComputedAt: snap.ComputedAt,
		Entry:      entry,
	})
}

// GetNetworkTest probes every provider with one live fetch.
// GET /api/network-test
func (h *RankingsHandler) GetNetworkTest(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.NetworkTest(r.Context()))
}

// TriggerUpdate refreshes one universe, or all of them when none is named.
// POST /api/update?universe=big-board
func (h *RankingsHandler) TriggerUpdate(w http.ResponseWriter, r *http.Request) {
	universeID := r.URL.Query().Get("universe")

	if universeID != "" {
		if _, err := h.service.Refresh(r.Context(), universeID); err != nil {
			h.refreshError(w, universeID, err)
			return
		}
		respondJSON(w, http.StatusOK, UpdateResponse{
			Universes: []string{universeID},
			Message:   "Rankings refreshed",
		})
		return
	}

	if err := h.service.RefreshAll(r.Context()); err != nil {
		h.refreshError(w, "all", err)
		return
	}
	respondJSON(w, http.StatusOK, UpdateResponse{
		Universes: h.service.UniverseIDs(),
		Message:   "Rankings refreshed",
	})
}

func (h *RankingsHandler) refreshError(w http.ResponseWriter, universeID string, err error) {
	switch {
	case errors.Is(err, universe.ErrUnknownUniverse):
		respondError(w, http.StatusBadRequest, "Unknown universe")
	case errors.Is(err, rankings.ErrRefreshFailed):
		h.logger.WithError(err).WithField("universe", universeID).Error("Manual refresh failed")
		respondError(w, http.StatusBadGateway, "Refresh failed, previous rankings retained")
	default:
		h.logger.WithError(err).WithField("universe", universeID).Error("Manual refresh failed")
		respondError(w, http.StatusInternalServerError, "Refresh failed")
	}
}

// parseLimit parses the limit query value. Empty means no limit.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.New("invalid limit")
	}
	return limit, nil
}

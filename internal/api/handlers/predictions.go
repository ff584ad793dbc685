package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/stockcast/backend/internal/store"
	"github.com/wonny/stockcast/backend/pkg/logger"
)

// PredictionReader reads stored batch forecasts.
type PredictionReader interface {
	GetLatest(ctx context.Context, limit int) ([]*store.Prediction, error)
	GetByTicker(ctx context.Context, ticker string) ([]*store.Prediction, error)
}

// PredictionsHandler serves stored batch predictions.
type PredictionsHandler struct {
	repo   PredictionReader
	logger *logger.Logger
}

// NewPredictionsHandler creates a new predictions handler
func NewPredictionsHandler(repo PredictionReader, log *logger.Logger) *PredictionsHandler {
	return &PredictionsHandler{
		repo:   repo,
		logger: log,
	}
}

const defaultLimit = 100

// GetLatest handles GET /api/predictions?limit=N
func (h *PredictionsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	preds, err := h.repo.GetLatest(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest predictions")
		respondError(w, http.StatusInternalServerError, "failed to load predictions")
		return
	}

	if preds == nil {
		preds = []*store.Prediction{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(preds),
		"predictions": preds,
	})
}

// GetByTicker handles GET /api/predictions/{ticker}
func (h *PredictionsHandler) GetByTicker(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	preds, err := h.repo.GetByTicker(r.Context(), ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to load predictions")
		respondError(w, http.StatusInternalServerError, "failed to load predictions")
		return
	}

	if len(preds) == 0 {
		respondError(w, http.StatusNotFound, "no predictions for ticker")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":      ticker,
		"count":       len(preds),
		"predictions": preds,
	})
}

package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/wonny/stockcast/backend/internal/regress"
	"github.com/wonny/stockcast/backend/pkg/logger"
)

// PredictHandler serves ad-hoc train-and-predict requests on caller-supplied
// observations.
type PredictHandler struct {
	predictor *regress.Predictor
	logger    *logger.Logger
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(predictor *regress.Predictor, log *logger.Logger) *PredictHandler {
	return &PredictHandler{
		predictor: predictor,
		logger:    log,
	}
}

// observationPayload is one training row. All fields are required; pointers
// distinguish a missing field from a zero value.
type observationPayload struct {
	Date       *string  `json:"date"`
	Close      *float64 `json:"close"`
	Volume     *float64 `json:"volume"`
	SMA20      *float64 `json:"sma_20"`
	Volatility *float64 `json:"volatility"`
	MacroRate  *float64 `json:"macro_rate"`
	MacroIndex *float64 `json:"macro_index"`
}

// featuresPayload carries the six canonical features for the row being
// predicted.
type featuresPayload struct {
	Close      *float64 `json:"close"`
	Volume     *float64 `json:"volume"`
	SMA20      *float64 `json:"sma_20"`
	Volatility *float64 `json:"volatility"`
	MacroRate  *float64 `json:"macro_rate"`
	MacroIndex *float64 `json:"macro_index"`
}

type predictRequest struct {
	TrainingData    []observationPayload `json:"training_data"`
	CurrentFeatures *featuresPayload     `json:"current_features"`
	DaysAhead       *int                 `json:"days_ahead"`
}

// TrainAndPredict handles POST /api/predict. The request shape is strict:
// unknown fields, missing fields and non-finite numbers are all rejected
// before any fitting starts.
func (h *PredictHandler) TrainAndPredict(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req predictRequest
	if err := decoder.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	series, current, horizon, err := validatePredictRequest(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.predictor.Predict(series, horizon, current)
	if err != nil {
		if regress.IsInsufficientData(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		h.logger.WithError(err).Error("Prediction failed")
		respondError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// validatePredictRequest converts the payload into an observation series and
// a current feature vector, enforcing the fixed request shape.
func validatePredictRequest(req *predictRequest) ([]regress.Observation, []float64, int, error) {
	if req.DaysAhead == nil {
		return nil, nil, 0, fmt.Errorf("days_ahead is required")
	}
	if *req.DaysAhead < 1 {
		return nil, nil, 0, fmt.Errorf("days_ahead must be at least 1")
	}
	if len(req.TrainingData) == 0 {
		return nil, nil, 0, fmt.Errorf("training_data is required")
	}
	if req.CurrentFeatures == nil {
		return nil, nil, 0, fmt.Errorf("current_features is required")
	}

	series := make([]regress.Observation, len(req.TrainingData))
	var prev time.Time
	for i, row := range req.TrainingData {
		obs, err := row.toObservation()
		if err != nil {
			return nil, nil, 0, fmt.Errorf("training_data[%d]: %w", i, err)
		}

		if i > 0 && !obs.Date.After(prev) {
			return nil, nil, 0, fmt.Errorf("training_data[%d]: dates must be strictly increasing", i)
		}
		prev = obs.Date
		series[i] = obs
	}

	current, err := req.CurrentFeatures.toVector()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("current_features: %w", err)
	}

	return series, current, *req.DaysAhead, nil
}

func (p *observationPayload) toObservation() (regress.Observation, error) {
	if p.Date == nil {
		return regress.Observation{}, fmt.Errorf("date is required")
	}

	date, err := time.Parse("2006-01-02", *p.Date)
	if err != nil {
		return regress.Observation{}, fmt.Errorf("invalid date %q", *p.Date)
	}

	values := map[string]*float64{
		"close":       p.Close,
		"volume":      p.Volume,
		"sma_20":      p.SMA20,
		"volatility":  p.Volatility,
		"macro_rate":  p.MacroRate,
		"macro_index": p.MacroIndex,
	}
	for name, v := range values {
		if v == nil {
			return regress.Observation{}, fmt.Errorf("%s is required", name)
		}
		if !isFinite(*v) {
			return regress.Observation{}, fmt.Errorf("%s must be finite", name)
		}
	}

	return regress.Observation{
		Date:       date,
		Close:      *p.Close,
		Volume:     *p.Volume,
		SMA20:      *p.SMA20,
		Volatility: *p.Volatility,
		MacroRate:  *p.MacroRate,
		MacroIndex: *p.MacroIndex,
	}, nil
}

func (f *featuresPayload) toVector() ([]float64, error) {
	values := []struct {
		name string
		v    *float64
	}{
		{"close", f.Close},
		{"volume", f.Volume},
		{"sma_20", f.SMA20},
		{"volatility", f.Volatility},
		{"macro_rate", f.MacroRate},
		{"macro_index", f.MacroIndex},
	}

	vector := make([]float64, len(values))
	for i, entry := range values {
		if entry.v == nil {
			return nil, fmt.Errorf("%s is required", entry.name)
		}
		if !isFinite(*entry.v) {
			return nil, fmt.Errorf("%s must be finite", entry.name)
		}
		vector[i] = *entry.v
	}

	return vector, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AsipreVerse/decisivis-engine/internal/features"
	"github.com/AsipreVerse/decisivis-engine/internal/logic"
	"github.com/AsipreVerse/decisivis-engine/internal/models"
	"github.com/AsipreVerse/decisivis-engine/internal/store"
	"github.com/AsipreVerse/decisivis-engine/internal/training"
)

// PredictMatch forecasts a single fixture with the latest trained model
// @Summary Predict Match Outcome
// @Tags Predictions
// @Accept json
// @Produce json
// @Param request body models.PredictionRequest true "Fixture to forecast"
// @Success 200 {object} models.MatchPrediction
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "No Trained Model"
// @Router /predict [post]
func (h *Handler) PredictMatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	pred, err := h.prediction.Predict(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNoArtifact):
			h.errorResponse(w, http.StatusServiceUnavailable, "No trained model available, run training first")
		case errors.Is(err, training.ErrInsufficientData):
			h.errorResponse(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, features.ErrFeatureMismatch):
			h.logger.Errorw("Stored model incompatible with binary", "error", err)
			h.errorResponse(w, http.StatusInternalServerError, "Stored model is incompatible with this server version")
		case errors.Is(err, logic.ErrInvalidDate):
			h.errorResponse(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Errorw("Prediction failed",
				"home_team", req.HomeTeam,
				"away_team", req.AwayTeam,
				"error", err,
			)
			h.errorResponse(w, http.StatusInternalServerError, "Prediction failed")
		}
		return
	}

	h.jsonResponse(w, http.StatusOK, pred)
}

package handlers

import (
	"net/http"
	"strconv"
)

// ModelStats reports model metadata and a dataset summary
// @Summary Get Model Stats
// @Tags Stats
// @Produce json
// @Success 200 {object} models.ModelStats
// @Router /stats [get]
func (h *Handler) ModelStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to build stats", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to build stats")
		return
	}
	h.jsonResponse(w, http.StatusOK, stats)
}

// RecentMatches returns the latest stored matches
// @Summary Get Recent Matches
// @Tags Stats
// @Produce json
// @Param limit query int false "Max rows (default 20, cap 100)"
// @Success 200 {object} map[string]interface{}
// @Router /matches/recent [get]
func (h *Handler) RecentMatches(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	matches, err := h.stats.RecentMatches(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("Failed to load recent matches", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load recent matches")
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

// Ratings returns the stored Elo table, strongest team first
// @Summary Get Team Ratings
// @Tags Stats
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ratings [get]
func (h *Handler) Ratings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.stats.Ratings(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to load ratings", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to load ratings")
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"ratings": ratings,
		"count":   len(ratings),
	})
}

package handlers

import "net/http"

// TrainModel queues an async training run
// @Summary Trigger Model Training
// @Tags Training
// @Produce json
// @Success 202 {object} map[string]string "Queued"
// @Failure 409 {object} map[string]string "Run In Progress"
// @Router /train [post]
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	if !h.trainer.Enqueue() {
		h.errorResponse(w, http.StatusConflict, "A training run is already in progress")
		return
	}

	h.logger.Infow("Training run queued", "remote_addr", r.RemoteAddr)
	h.jsonResponse(w, http.StatusAccepted, map[string]string{
		"status": "queued",
	})
}

// TrainStatus reports the state of the last or current training run
// @Summary Get Training Status
// @Tags Training
// @Produce json
// @Success 200 {object} models.TrainStatus
// @Router /train/status [get]
func (h *Handler) TrainStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.trainer.Status(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to read training status", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to read training status")
		return
	}
	h.jsonResponse(w, http.StatusOK, status)
}

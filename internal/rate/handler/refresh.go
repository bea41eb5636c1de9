package handler

import (
	"context"
	"net/http"
)

type RefreshStartedResponse struct {
	Status string `json:"status" example:"started"`
}

type RefreshStatusResponse struct {
	Refreshing bool `json:"refreshing" example:"false"`
}

// StartRefresh godoc
// @Summary Reload rate history
// @Description Start a background reload of the full rate history from the bulk feed
// @Tags Refresh
// @Produce json
// @Success 202 {object} RefreshStartedResponse
// @Failure 409 {object} errorResponse "refresh already running"
// @Router /refresh [post]
func (h *Handler) StartRefresh(w http.ResponseWriter, r *http.Request) {
	// the reload outlives the request
	if !h.refresher.StartRefresh(context.WithoutCancel(r.Context())) {
		writeError(w, http.StatusConflict, "refresh already in progress")
		return
	}
	writeJSON(w, http.StatusAccepted, RefreshStartedResponse{Status: "started"})
}

// GetRefreshStatus godoc
// @Summary Refresh status
// @Description Report whether a reload is running
// @Tags Refresh
// @Produce json
// @Success 200 {object} RefreshStatusResponse
// @Router /refresh/status [get]
func (h *Handler) GetRefreshStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RefreshStatusResponse{Refreshing: h.refresher.IsRefreshing()})
}

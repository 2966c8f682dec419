package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"eventsearch/internal/delivery/http/helpers"
	"eventsearch/internal/domain"
)

// NotifyResponse reports how many filter owners were notified.
type NotifyResponse struct {
	EventID int64 `json:"event_id"`
	Sent    int   `json:"sent"`
}

// NotifySuccessResponse is the success response envelope for POST /events/{eventID}/notify (200).
type NotifySuccessResponse struct {
	Data  NotifyResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type NotifyController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

func NewNotifyController(logger *slog.Logger, svc domain.NotificationService) *NotifyController {
	return &NotifyController{
		Logger:  logger,
		Service: svc,
	}
}

// NotifyEventMatches godoc
// @Summary Notify users whose saved filters match an event
// @Description Runs every saved filter with email notifications enabled and mails the owners of the filters whose results contain the event.
// @Tags notifications
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.NotifySuccessResponse "data.sent is the number of emails sent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/notify [post]
func (c *NotifyController) NotifyEventMatches(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(r.PathValue("eventID"), 10, 64)
	if err != nil || eventID < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	sent, err := c.Service.NotifyEventMatches(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "notification failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, NotifyResponse{EventID: eventID, Sent: sent})
}

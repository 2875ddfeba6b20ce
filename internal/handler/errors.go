package handler

import (
	"errors"
	"net/http"

	"videorelay/internal/model"

	"github.com/gin-gonic/gin"
)

// Generic messages for failures whose cause is not shown to clients.
const (
	msgFetchFailed    = "Could not fetch video details. Please check the URL and try again."
	msgDownloadFailed = "An error occurred during the download process. Please try again."
)

// errorResponse classifies err into a status and client-facing body.
// fallback is the message used for upstream failures.
func errorResponse(err error, fallback string) (int, model.ErrorResponse) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, model.ErrorResponse{
			Error:   "invalid_request",
			Message: model.ErrorMessage(err, "Invalid request."),
			Code:    http.StatusBadRequest,
		}
	case errors.Is(err, model.ErrSelection):
		return http.StatusBadRequest, model.ErrorResponse{
			Error:   "format_unavailable",
			Message: model.ErrorMessage(err, "Requested quality is not available."),
			Code:    http.StatusBadRequest,
		}
	default:
		return http.StatusInternalServerError, model.ErrorResponse{
			Error:   "upstream_failed",
			Message: fallback,
			Code:    http.StatusInternalServerError,
		}
	}
}

func abortWithError(c *gin.Context, err error, fallback string) {
	status, body := errorResponse(err, fallback)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

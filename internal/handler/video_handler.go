package handler

import (
	"net/http"

	"videorelay/internal/model"
	"videorelay/internal/service"
	"videorelay/pkg/logger"
	"videorelay/pkg/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoHandler handles video-related requests
type VideoHandler struct {
	videoService *service.VideoService
	validator    *validator.Validator
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(vs *service.VideoService, v *validator.Validator) *VideoHandler {
	return &VideoHandler{
		videoService: vs,
		validator:    v,
	}
}

// GetVideoInfo handles POST /api/youtube
func (h *VideoHandler) GetVideoInfo(c *gin.Context) {
	log := logger.FromContext(c)

	var req model.VideoInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid video info request", zap.Error(err))
		abortWithError(c, model.InvalidInput(validator.MsgInvalidURL, err), msgFetchFailed)
		return
	}

	videoURL, err := h.validator.VideoRef(req.URL)
	if err != nil {
		log.Warn("Invalid video URL", zap.String("url", req.URL))
		abortWithError(c, err, msgFetchFailed)
		return
	}

	summary, err := h.videoService.GetVideoInfo(c.Request.Context(), videoURL)
	if err != nil {
		log.Error("Failed to get video info", zap.Error(err), zap.String("url", videoURL))
		abortWithError(c, err, msgFetchFailed)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// HealthCheck handles GET /api/health
func (h *VideoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "video-relay",
	})
}

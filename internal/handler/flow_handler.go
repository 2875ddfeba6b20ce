package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"videorelay/internal/flow"
	"videorelay/internal/model"
	"videorelay/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type flowRequest struct {
	Data json.RawMessage `json:"data"`
}

type flowResponse struct {
	Result any `json:"result"`
}

// FlowHandler serves the callable flows
type FlowHandler struct {
	flows *flow.Flows
}

// NewFlowHandler creates a new flow handler
func NewFlowHandler(f *flow.Flows) *FlowHandler {
	return &FlowHandler{flows: f}
}

// Run handles POST /api/flows/:name
func (h *FlowHandler) Run(c *gin.Context) {
	log := logger.FromContext(c)
	name := c.Param("name")

	var req flowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid flow request", zap.String("flow", name), zap.Error(err))
		abortWithError(c, model.InvalidInput("Request body must be {\"data\": ...}.", err), msgFetchFailed)
		return
	}

	result, err := h.flows.Run(c.Request.Context(), name, req.Data)
	if err != nil {
		if errors.Is(err, flow.ErrUnknownFlow) {
			c.AbortWithStatusJSON(http.StatusNotFound, model.ErrorResponse{
				Error:   "not_found",
				Message: "Unknown flow",
				Code:    http.StatusNotFound,
			})
			return
		}
		log.Error("Flow failed", zap.String("flow", name), zap.Error(err))
		fallback := msgFetchFailed
		if name == flow.DownloadVideoFlow {
			fallback = msgDownloadFailed
		}
		abortWithError(c, err, fallback)
		return
	}

	c.JSON(http.StatusOK, flowResponse{Result: result})
}

// List handles GET /api/flows
func (h *FlowHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"flows": h.flows.Names()})
}

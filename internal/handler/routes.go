package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every endpoint on r. The unprefixed /youtube and
// /download paths are kept for older clients.
func RegisterRoutes(r gin.IRouter, vh *VideoHandler, dh *DownloadHandler, fh *FlowHandler) {
	api := r.Group("/api")
	{
		// Video info
		api.POST("/youtube", vh.GetVideoInfo)

		// Downloads
		api.GET("/youtube", dh.Download)

		// Callable flows
		api.GET("/flows", fh.List)
		api.POST("/flows/:name", fh.Run)

		// Health check
		api.GET("/health", vh.HealthCheck)
	}

	r.POST("/youtube", vh.GetVideoInfo)
	r.GET("/download", dh.Download)
}

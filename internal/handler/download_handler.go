package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"videorelay/internal/service"
	"videorelay/pkg/logger"
	"videorelay/pkg/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DownloadHandler handles download-related requests
type DownloadHandler struct {
	downloadService *service.DownloadService
	validator       *validator.Validator
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(ds *service.DownloadService, v *validator.Validator) *DownloadHandler {
	return &DownloadHandler{
		downloadService: ds,
		validator:       v,
	}
}

// Download handles GET /api/youtube?url=&format=&quality=
//
// Every check runs before the first byte is written, so failures still get a
// JSON error body. Once streaming starts a provider error can only cut the
// response short.
func (h *DownloadHandler) Download(c *gin.Context) {
	log := logger.FromContext(c)

	req, err := h.validator.Download(c.Query("url"), c.Query("format"), c.Query("quality"))
	if err != nil {
		log.Warn("Invalid download request",
			zap.Error(err),
			zap.String("url", c.Query("url")),
			zap.String("format", c.Query("format")),
			zap.String("quality", c.Query("quality")))
		abortWithError(c, err, msgDownloadFailed)
		return
	}

	st, err := h.downloadService.Stream(c.Request.Context(), req)
	if err != nil {
		log.Error("Download failed", zap.Error(err), zap.String("url", req.URL))
		abortWithError(c, err, msgDownloadFailed)
		return
	}
	defer st.Body.Close()

	c.Header("Content-Disposition", buildContentDispositionHeader(st.Filename))
	c.Header("Content-Type", st.ContentType)
	if st.ContentLength >= 0 {
		c.Header("Content-Length", strconv.FormatInt(st.ContentLength, 10))
	}
	c.Status(http.StatusOK)

	n, err := io.Copy(c.Writer, st.Body)
	if err != nil {
		_ = c.Error(err)
		log.Error("Stream interrupted",
			zap.Error(err),
			zap.String("url", req.URL),
			zap.Int("itag", st.Encoding.Itag),
			zap.Int64("bytes_sent", n))
		return
	}

	log.Info("Download completed",
		zap.String("filename", st.Filename),
		zap.Int("itag", st.Encoding.Itag),
		zap.Int64("bytes_sent", n))
}

// buildContentDispositionHeader builds an attachment header. Filenames that
// are plain ASCII are quoted as-is; anything else also gets an RFC 5987
// filename* parameter next to an ASCII fallback.
func buildContentDispositionHeader(filename string) string {
	needsEncoding := false
	for _, r := range filename {
		if r > 127 || r < 32 || r == '"' || r == '\\' {
			needsEncoding = true
			break
		}
	}

	if !needsEncoding {
		return fmt.Sprintf(`attachment; filename="%s"`, filename)
	}

	fallback := strings.Map(func(r rune) rune {
		if r > 127 || r < 32 || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, url.PathEscape(filename))
}

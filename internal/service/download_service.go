package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"videorelay/internal/model"
	"videorelay/internal/provider"
	"videorelay/pkg/logger"
	"videorelay/pkg/validator"

	"go.uber.org/zap"
)

// RelayMode names how a download reaches the caller.
type RelayMode string

const (
	// StreamingRelay copies provider bytes to the caller as they arrive.
	StreamingRelay RelayMode = "streaming"
	// BufferedRelay reads the whole file into memory and returns it as a
	// base64 data URI. Memory use grows with the file size.
	BufferedRelay RelayMode = "buffered"
)

var errBufferLimit = errors.New("media exceeds buffered relay limit")

// Stream is an opened download ready to be copied to the caller.
type Stream struct {
	Filename      string
	ContentType   string
	ContentLength int64 // -1 when unknown
	Encoding      provider.Encoding
	Body          io.ReadCloser
}

// DownloadService relays the bytes of a chosen encoding
type DownloadService struct {
	provider    provider.Provider
	bufferLimit int64 // bytes, 0 = unlimited
}

// NewDownloadService creates a new download service
func NewDownloadService(p provider.Provider, cfg *model.RelayConfig) *DownloadService {
	s := &DownloadService{provider: p}
	if cfg != nil && cfg.BufferMaxMB > 0 {
		s.bufferLimit = cfg.BufferMaxMB * 1024 * 1024
	}
	return s
}

// Stream resolves req and opens the provider stream without reading it.
// The caller must close Stream.Body.
func (s *DownloadService) Stream(ctx context.Context, req model.DownloadRequest) (*Stream, error) {
	return s.open(ctx, req, StreamingRelay)
}

// Buffer resolves req, reads the whole stream and encodes it as a data URI.
func (s *DownloadService) Buffer(ctx context.Context, req model.DownloadRequest) (*model.DataURIDownload, error) {
	st, err := s.open(ctx, req, BufferedRelay)
	if err != nil {
		return nil, err
	}
	defer st.Body.Close()

	var buf bytes.Buffer
	if st.ContentLength > 0 && (s.bufferLimit == 0 || st.ContentLength <= s.bufferLimit) {
		buf.Grow(int(st.ContentLength))
	}

	var src io.Reader = st.Body
	if s.bufferLimit > 0 {
		src = io.LimitReader(st.Body, s.bufferLimit+1)
	}

	n, err := io.Copy(&buf, src)
	if err != nil {
		logger.Logger.Error("Failed to buffer stream", zap.Error(err), zap.String("url", req.URL))
		return nil, model.UpstreamFetch("read stream", err)
	}
	if s.bufferLimit > 0 && n > s.bufferLimit {
		logger.Logger.Warn("Buffered relay limit exceeded",
			zap.String("url", req.URL),
			zap.Int64("limit_bytes", s.bufferLimit))
		return nil, model.UpstreamFetch("read stream", errBufferLimit)
	}

	logger.Logger.Info("Download buffered",
		zap.String("filename", st.Filename),
		zap.Int("itag", st.Encoding.Itag),
		zap.Int64("bytes", n))

	return &model.DataURIDownload{
		DataURI:  fmt.Sprintf("data:%s;base64,%s", st.ContentType, base64.StdEncoding.EncodeToString(buf.Bytes())),
		Filename: st.Filename,
	}, nil
}

// open re-fetches video info, checks the quality selector against the
// resolved formats and only then opens the byte stream, so an unknown
// selector fails before any header is written.
func (s *DownloadService) open(ctx context.Context, req model.DownloadRequest, mode RelayMode) (*Stream, error) {
	info, err := s.provider.GetInfo(ctx, req.URL)
	if err != nil {
		logger.Logger.Error("Failed to fetch video info for download", zap.Error(err), zap.String("url", req.URL))
		return nil, model.UpstreamFetch("get video info", err)
	}

	filter := provider.Filter(req.Format.Filter())
	enc, err := provider.ChooseFormat(info.Formats, filter, req.Quality)
	if err != nil {
		logger.Logger.Warn("Requested quality not available",
			zap.Error(err),
			zap.String("url", req.URL),
			zap.String("format", string(req.Format)),
			zap.String("quality", req.Quality))
		return nil, model.Selection(req.Quality, err)
	}

	body, size, err := s.provider.Stream(ctx, info, enc)
	if err != nil {
		logger.Logger.Error("Failed to open stream", zap.Error(err), zap.String("url", req.URL), zap.Int("itag", enc.Itag))
		if errors.Is(err, provider.ErrNoSuchFormat) {
			return nil, model.Selection(req.Quality, err)
		}
		return nil, model.UpstreamFetch("open stream", err)
	}
	if size <= 0 {
		size = -1
	}

	st := &Stream{
		Filename:      validator.Filename(info.Title, req.Format),
		ContentType:   req.Format.ContentType(),
		ContentLength: size,
		Encoding:      enc,
		Body:          body,
	}

	logger.Logger.Info("Download started",
		zap.String("mode", string(mode)),
		zap.String("video_id", info.ID),
		zap.String("filename", st.Filename),
		zap.Int("itag", enc.Itag),
		zap.Int64("content_length", size))
	return st, nil
}

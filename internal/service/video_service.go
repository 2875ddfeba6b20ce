package service

import (
	"context"
	"errors"
	"time"

	"videorelay/internal/model"
	"videorelay/internal/provider"
	"videorelay/pkg/logger"

	"go.uber.org/zap"
)

// TargetContainer is the only container offered for combined video+audio
// renditions.
const TargetContainer = "mp4"

var errNoThumbnails = errors.New("provider returned no thumbnails")

// VideoService resolves a video URL into its selectable formats
type VideoService struct {
	provider provider.Provider
}

// NewVideoService creates a new video service
func NewVideoService(p provider.Provider) *VideoService {
	return &VideoService{provider: p}
}

// GetVideoInfo fetches video info and classifies its formats. Resolution is
// all-or-nothing: any provider failure is returned as ErrUpstreamFetch.
func (s *VideoService) GetVideoInfo(ctx context.Context, videoURL string) (*model.VideoSummary, error) {
	info, err := s.provider.GetInfo(ctx, videoURL)
	if err != nil {
		logger.Logger.Error("Failed to fetch video info", zap.Error(err), zap.String("url", videoURL))
		return nil, model.UpstreamFetch("get video info", err)
	}

	summary, err := Summarize(info)
	if err != nil {
		logger.Logger.Error("Failed to summarize video info", zap.Error(err), zap.String("url", videoURL))
		return nil, model.UpstreamFetch("summarize video info", err)
	}

	logger.Logger.Info("Video info retrieved",
		zap.String("video_id", info.ID),
		zap.String("title", summary.Title),
		zap.Int("mp4_formats", len(summary.Formats.MP4)),
		zap.Int("mp3_formats", len(summary.Formats.MP3)),
	)
	return summary, nil
}

// Summarize converts provider info into the client schema.
func Summarize(info *provider.VideoInfo) (*model.VideoSummary, error) {
	if len(info.Thumbnails) == 0 {
		return nil, errNoThumbnails
	}

	return &model.VideoSummary{
		Title:     info.Title,
		Thumbnail: info.Thumbnails[len(info.Thumbnails)-1].URL,
		Duration:  FormatDuration(info.LengthSeconds),
		Formats: model.FormatSet{
			MP4: videoFormats(info.Formats),
			MP3: audioFormats(info.Formats),
		},
	}, nil
}

// videoFormats keeps combined renditions in the target container that carry
// a quality label, in provider order.
func videoFormats(formats []provider.Encoding) []model.VideoFormat {
	out := []model.VideoFormat{}
	for _, f := range provider.FilterFormats(formats, provider.FilterVideoAndAudio) {
		if f.Container != TargetContainer || f.QualityLabel == "" {
			continue
		}
		out = append(out, model.VideoFormat{Itag: f.Itag, QualityLabel: f.QualityLabel})
	}
	return out
}

// audioFormats maps every audio-only rendition; a missing bitrate becomes 0.
func audioFormats(formats []provider.Encoding) []model.AudioFormat {
	out := []model.AudioFormat{}
	for _, f := range provider.FilterFormats(formats, provider.FilterAudioOnly) {
		bitrate := 0
		if f.AudioBitrate != nil {
			bitrate = *f.AudioBitrate
		}
		out = append(out, model.AudioFormat{Itag: f.Itag, AudioBitrate: bitrate})
	}
	return out
}

// FormatDuration renders seconds as HH:MM:SS measured from the Unix epoch,
// so lengths of 24 hours or more wrap around.
func FormatDuration(seconds int) string {
	return time.Unix(int64(seconds), 0).UTC().Format("15:04:05")
}

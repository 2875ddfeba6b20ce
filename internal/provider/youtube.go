package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
)

// audioBitrates maps well-known itags to their nominal audio bitrate in kbps.
// The player response only reports overall bitrates.
var audioBitrates = map[int]int{
	17:  24,
	18:  96,
	22:  192,
	43:  128,
	139: 48,
	140: 128,
	141: 256,
	171: 128,
	172: 192,
	249: 48,
	250: 64,
	251: 160,
}

// YouTubeProvider extracts video info in-process with kkdai/youtube.
type YouTubeProvider struct {
	client  *youtube.Client
	timeout time.Duration
}

// NewYouTubeProvider creates a provider using httpClient for every upstream
// request. timeout bounds info lookups only; streams are never cut short.
func NewYouTubeProvider(httpClient *http.Client, timeout time.Duration) *YouTubeProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &YouTubeProvider{
		client:  &youtube.Client{HTTPClient: httpClient},
		timeout: timeout,
	}
}

// GetInfo fetches the player response for videoURL.
func (p *YouTubeProvider) GetInfo(ctx context.Context, videoURL string) (*VideoInfo, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	video, err := p.client.GetVideoContext(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("youtube get video: %w", err)
	}

	info := convertVideo(video)
	info.URL = videoURL
	return info, nil
}

// Stream opens the byte stream of enc. info must come from GetInfo of the
// same provider.
func (p *YouTubeProvider) Stream(ctx context.Context, info *VideoInfo, enc Encoding) (io.ReadCloser, int64, error) {
	if info == nil {
		return nil, 0, errors.New("youtube stream: nil video info")
	}
	video, ok := info.Handle.(*youtube.Video)
	if !ok || video == nil {
		return nil, 0, fmt.Errorf("youtube stream: video info for %q was not produced by this provider", info.ID)
	}

	var format *youtube.Format
	for i := range video.Formats {
		if video.Formats[i].ItagNo == enc.Itag {
			format = &video.Formats[i]
			break
		}
	}
	if format == nil {
		return nil, 0, fmt.Errorf("youtube stream: %w: itag %d", ErrNoSuchFormat, enc.Itag)
	}

	body, size, err := p.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, 0, fmt.Errorf("youtube stream: %w", err)
	}
	return body, size, nil
}

func convertVideo(v *youtube.Video) *VideoInfo {
	info := &VideoInfo{
		ID:            v.ID,
		Title:         v.Title,
		LengthSeconds: int(v.Duration / time.Second),
		Thumbnails:    make([]Thumbnail, 0, len(v.Thumbnails)),
		Formats:       make([]Encoding, 0, len(v.Formats)),
		Handle:        v,
	}
	for _, t := range v.Thumbnails {
		info.Thumbnails = append(info.Thumbnails, Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height})
	}
	for _, f := range v.Formats {
		info.Formats = append(info.Formats, convertFormat(f))
	}
	return info
}

func convertFormat(f youtube.Format) Encoding {
	isAudioMime := strings.HasPrefix(f.MimeType, "audio/")
	enc := Encoding{
		Itag:          f.ItagNo,
		MimeType:      f.MimeType,
		Container:     ParseContainer(f.MimeType),
		Bitrate:       f.Bitrate,
		HasVideo:      strings.HasPrefix(f.MimeType, "video/"),
		HasAudio:      isAudioMime || f.AudioChannels > 0,
		ContentLength: f.ContentLength,
	}
	if enc.HasVideo {
		enc.QualityLabel = f.QualityLabel
	}
	if enc.HasAudio {
		if kbps, ok := audioBitrates[f.ItagNo]; ok {
			enc.AudioBitrate = &kbps
		} else if isAudioMime && f.AverageBitrate > 0 {
			kbps := (f.AverageBitrate + 500) / 1000
			enc.AudioBitrate = &kbps
		}
	}
	return enc
}

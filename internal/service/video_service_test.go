package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"videorelay/internal/model"
	"videorelay/internal/provider"
	"videorelay/internal/provider/providertest"
	"videorelay/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

func sampleInfo() *provider.VideoInfo {
	return &provider.VideoInfo{
		ID:            "abc123",
		Title:         "Lo-Fi Beats #1 (Live)!",
		LengthSeconds: 9252,
		Thumbnails: []provider.Thumbnail{
			{URL: "https://i.ytimg.com/vi/abc123/default.jpg", Width: 120, Height: 90},
			{URL: "https://i.ytimg.com/vi/abc123/hqdefault.jpg", Width: 480, Height: 360},
			{URL: "https://i.ytimg.com/vi/abc123/maxresdefault.jpg", Width: 1280, Height: 720},
		},
		Formats: []provider.Encoding{
			{Itag: 1, Container: "mp4", QualityLabel: "720p", HasVideo: true, HasAudio: true},
			{Itag: 2, Container: "webm", QualityLabel: "480p", HasVideo: true, HasAudio: true},
			{Itag: 3, Container: "mp4", HasVideo: true, HasAudio: true},
			{Itag: 4, Container: "mp4", QualityLabel: "1080p", HasVideo: true},
			{Itag: 10, Container: "mp4", HasAudio: true, AudioBitrate: providertest.Kbps(128)},
			{Itag: 11, Container: "webm", HasAudio: true},
		},
	}
}

// captureLogs swaps the global logger for an observer until the test ends.
func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core)
	t.Cleanup(func() { logger.Logger = prev })
	return logs
}

func TestSummarizeClassifiesFormats(t *testing.T) {
	summary, err := Summarize(sampleInfo())
	require.NoError(t, err)

	assert.Equal(t, []model.VideoFormat{{Itag: 1, QualityLabel: "720p"}}, summary.Formats.MP4)
	assert.Equal(t, []model.AudioFormat{{Itag: 10, AudioBitrate: 128}, {Itag: 11, AudioBitrate: 0}}, summary.Formats.MP3)
	assert.Equal(t, "Lo-Fi Beats #1 (Live)!", summary.Title)
	assert.Equal(t, "02:34:12", summary.Duration)
	assert.Equal(t, "https://i.ytimg.com/vi/abc123/maxresdefault.jpg", summary.Thumbnail)
}

func TestSummarizePreservesProviderOrder(t *testing.T) {
	info := sampleInfo()
	info.Formats = []provider.Encoding{
		{Itag: 18, Container: "mp4", QualityLabel: "360p", HasVideo: true, HasAudio: true},
		{Itag: 22, Container: "mp4", QualityLabel: "720p", HasVideo: true, HasAudio: true},
	}

	summary, err := Summarize(info)
	require.NoError(t, err)
	assert.Equal(t, []model.VideoFormat{{Itag: 18, QualityLabel: "360p"}, {Itag: 22, QualityLabel: "720p"}}, summary.Formats.MP4)
}

func TestSummarizeEncodesEmptyListsAsArrays(t *testing.T) {
	info := sampleInfo()
	info.Formats = nil

	summary, err := Summarize(info)
	require.NoError(t, err)

	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title": "Lo-Fi Beats #1 (Live)!",
		"thumbnail": "https://i.ytimg.com/vi/abc123/maxresdefault.jpg",
		"duration": "02:34:12",
		"formats": {"mp4": [], "mp3": []}
	}`, string(raw))
}

func TestSummarizeWithoutThumbnails(t *testing.T) {
	info := sampleInfo()
	info.Thumbnails = nil

	_, err := Summarize(info)
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		0:     "00:00:00",
		59:    "00:00:59",
		61:    "00:01:01",
		3600:  "01:00:00",
		9252:  "02:34:12",
		86399: "23:59:59",
		86405: "00:00:05",
	}
	for secs, want := range cases {
		assert.Equal(t, want, FormatDuration(secs), "%d seconds", secs)
	}
}

func TestGetVideoInfo(t *testing.T) {
	fake := &providertest.Fake{Info: sampleInfo()}
	svc := NewVideoService(fake)

	summary, err := svc.GetVideoInfo(context.Background(), "https://youtu.be/abc123")
	require.NoError(t, err)
	assert.Equal(t, "02:34:12", summary.Duration)
	assert.Equal(t, []string{"https://youtu.be/abc123"}, fake.InfoCalls())
}

func TestGetVideoInfoUpstreamFailure(t *testing.T) {
	logs := captureLogs(t)
	cause := errors.New("video is private")
	svc := NewVideoService(&providertest.Fake{InfoErr: cause})

	summary, err := svc.GetVideoInfo(context.Background(), "https://youtu.be/abc123")
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, model.ErrUpstreamFetch)
	assert.ErrorIs(t, err, cause)

	entries := logs.FilterMessage("Failed to fetch video info").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "https://youtu.be/abc123", entries[0].ContextMap()["url"])
}

func TestGetVideoInfoMissingThumbnailsIsUpstreamFailure(t *testing.T) {
	info := sampleInfo()
	info.Thumbnails = nil
	svc := NewVideoService(&providertest.Fake{Info: info})

	_, err := svc.GetVideoInfo(context.Background(), "https://youtu.be/abc123")
	assert.ErrorIs(t, err, model.ErrUpstreamFetch)
}

func TestGetVideoInfoConcurrentResolutionsAreIndependent(t *testing.T) {
	// Each GetInfo call waits for the other, so both lookups are in flight
	// at the same time.
	var inFlight sync.WaitGroup
	inFlight.Add(2)
	fake := &providertest.Fake{
		Info: sampleInfo(),
		Hook: func(ctx context.Context, _ string) {
			inFlight.Done()
			inFlight.Wait()
		},
	}
	svc := NewVideoService(fake)

	results := make([]*model.VideoSummary, 2)
	var g errgroup.Group
	for i := range results {
		i := i
		g.Go(func() error {
			summary, err := svc.GetVideoInfo(context.Background(), "https://youtu.be/abc123")
			results[i] = summary
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, fake.InfoCalls(), 2)
	assert.Equal(t, results[0], results[1])
	assert.NotSame(t, results[0], results[1])

	results[0].Formats.MP3[0].AudioBitrate = 999
	assert.Equal(t, 128, results[1].Formats.MP3[0].AudioBitrate)
}

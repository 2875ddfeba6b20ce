package provider

import (
	"context"
	"errors"
	"io"
)

// Filter selects a class of encodings the way the upstream extractor
// classifies them.
type Filter string

const (
	FilterVideoAndAudio Filter = "videoandaudio"
	FilterAudioOnly     Filter = "audioonly"
	FilterVideoOnly     Filter = "videoonly"
	FilterVideo         Filter = "video"
	FilterAudio         Filter = "audio"
)

var (
	// ErrNoSuchFormat is returned when a quality selector matches nothing.
	ErrNoSuchFormat = errors.New("no such format found")
	// ErrUnknownFilter is returned for filter values outside the set above.
	ErrUnknownFilter = errors.New("unknown format filter")
)

// Encoding describes one retrievable rendition of a video.
type Encoding struct {
	Itag          int
	MimeType      string
	Container     string // media subtype of MimeType, e.g. "mp4"
	QualityLabel  string // e.g. "720p"; empty for audio-only renditions
	AudioBitrate  *int   // kbps, nil when the provider does not report it
	Bitrate       int    // bits per second
	HasVideo      bool
	HasAudio      bool
	ContentLength int64 // 0 when unknown
}

// Thumbnail is one entry of the provider's thumbnail list.
type Thumbnail struct {
	URL    string
	Width  uint
	Height uint
}

// VideoInfo is everything a provider reports about a video.
//
// Thumbnails are ordered by the provider; the last entry is expected to be
// the highest resolution.
type VideoInfo struct {
	ID            string
	URL           string
	Title         string
	LengthSeconds int
	Thumbnails    []Thumbnail
	Formats       []Encoding

	// Handle is provider-private state needed to open a stream later.
	Handle any
}

// Provider resolves video info and opens byte streams for a chosen encoding.
type Provider interface {
	GetInfo(ctx context.Context, videoURL string) (*VideoInfo, error)
	Stream(ctx context.Context, info *VideoInfo, enc Encoding) (io.ReadCloser, int64, error)
}

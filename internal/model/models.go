package model

// FormatKind is one of the two supported output kinds
type FormatKind string

const (
	// FormatMP4 is the combined video+audio container kind
	FormatMP4 FormatKind = "mp4"
	// FormatMP3 is the audio-only kind
	FormatMP3 FormatKind = "mp3"
)

// Valid reports whether k is one of the enumerated kinds
func (k FormatKind) Valid() bool {
	return k == FormatMP4 || k == FormatMP3
}

// Extension returns the conventional file extension
func (k FormatKind) Extension() string {
	return string(k)
}

// ContentType returns the MIME type sent with the relayed bytes
func (k FormatKind) ContentType() string {
	if k == FormatMP4 {
		return "video/mp4"
	}
	return "audio/mpeg"
}

// Filter returns the provider-side filter mode for this kind
func (k FormatKind) Filter() string {
	if k == FormatMP3 {
		return "audioonly"
	}
	return "videoandaudio"
}

// DefaultQuality returns the provider default selector used when a caller
// does not pick a concrete itag
func (k FormatKind) DefaultQuality() string {
	if k == FormatMP3 {
		return "highestaudio"
	}
	return "highestvideo"
}

// VideoSummary is the metadata returned for a video URL
type VideoSummary struct {
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	Duration  string    `json:"duration"`
	Formats   FormatSet `json:"formats"`
}

// FormatSet groups the selectable formats by output kind
type FormatSet struct {
	MP4 []VideoFormat `json:"mp4"`
	MP3 []AudioFormat `json:"mp3"`
}

// VideoFormat is a combined video+audio rendition
type VideoFormat struct {
	Itag         int    `json:"itag"`
	QualityLabel string `json:"qualityLabel"`
}

// AudioFormat is an audio-only rendition
type AudioFormat struct {
	Itag         int `json:"itag"`
	AudioBitrate int `json:"audioBitrate"` // kbps, 0 when unknown
}

// VideoInfoRequest is the body of the metadata endpoint
type VideoInfoRequest struct {
	URL string `json:"url"`
}

// DownloadRequest is a validated download request
type DownloadRequest struct {
	URL     string
	Format  FormatKind
	Quality string // itag or provider default token
}

// DataURIDownload is the buffered download result
type DataURIDownload struct {
	DataURI  string `json:"dataUri"`
	Filename string `json:"filename"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

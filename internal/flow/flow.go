// Package flow exposes the resolver and the buffered relay as named,
// JSON-in/JSON-out callables.
package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"videorelay/internal/model"
	"videorelay/internal/service"
	"videorelay/pkg/validator"
)

// Flow names as exposed under /api/flows/:name.
const (
	GetVideoInfoFlow  = "getYoutubeVideoInfoFlow"
	DownloadVideoFlow = "downloadYoutubeVideoFlow"
)

// ErrUnknownFlow is returned by Run for a name that is not registered.
var ErrUnknownFlow = errors.New("unknown flow")

// VideoInfoInput is the input of GetVideoInfoFlow.
type VideoInfoInput struct {
	URL string `json:"url"`
}

// DownloadInput is the input of DownloadVideoFlow. A nil or empty Quality
// selects the best encoding of the requested kind.
type DownloadInput struct {
	URL     string  `json:"url"`
	Format  string  `json:"format"`
	Quality *string `json:"quality,omitempty"`
}

// DownloadOutput is the output of DownloadVideoFlow.
type DownloadOutput = model.DataURIDownload

// Flows binds the callables to their services.
type Flows struct {
	validator *validator.Validator
	videos    *service.VideoService
	downloads *service.DownloadService
}

// New creates the flow set
func New(v *validator.Validator, vs *service.VideoService, ds *service.DownloadService) *Flows {
	return &Flows{validator: v, videos: vs, downloads: ds}
}

// GetVideoInfo validates the URL and resolves its formats.
func (f *Flows) GetVideoInfo(ctx context.Context, in VideoInfoInput) (*model.VideoSummary, error) {
	videoURL, err := f.validator.VideoRef(in.URL)
	if err != nil {
		return nil, err
	}
	return f.videos.GetVideoInfo(ctx, videoURL)
}

// DownloadVideo buffers the selected encoding and returns it as a data URI.
func (f *Flows) DownloadVideo(ctx context.Context, in DownloadInput) (*DownloadOutput, error) {
	quality := ""
	if in.Quality != nil {
		quality = *in.Quality
	}
	if kind := model.FormatKind(in.Format); quality == "" && kind.Valid() {
		quality = kind.DefaultQuality()
	}

	req, err := f.validator.Download(in.URL, in.Format, quality)
	if err != nil {
		return nil, err
	}
	return f.downloads.Buffer(ctx, req)
}

// Run decodes data into the named flow's input and invokes it.
func (f *Flows) Run(ctx context.Context, name string, data json.RawMessage) (any, error) {
	switch name {
	case GetVideoInfoFlow:
		var in VideoInfoInput
		if err := decode(data, &in); err != nil {
			return nil, model.InvalidInput(validator.MsgInvalidURL, err)
		}
		return f.GetVideoInfo(ctx, in)
	case DownloadVideoFlow:
		var in DownloadInput
		if err := decode(data, &in); err != nil {
			return nil, model.InvalidInput(validator.MsgInvalidDownload, err)
		}
		return f.DownloadVideo(ctx, in)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFlow, name)
	}
}

// Names lists the registered flows.
func (f *Flows) Names() []string {
	return []string{GetVideoInfoFlow, DownloadVideoFlow}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errors.New("missing data")
	}
	return json.Unmarshal(data, v)
}

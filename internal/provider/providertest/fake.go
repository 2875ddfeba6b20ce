// Package providertest provides an in-memory provider.Provider for tests.
package providertest

import (
	"bytes"
	"context"
	"io"
	"sync"

	"videorelay/internal/provider"
)

// Fake serves a fixed VideoInfo and body and records every call.
type Fake struct {
	Info      *provider.VideoInfo
	InfoErr   error
	Body      []byte
	StreamErr error

	// Hook, when set, runs at the start of every GetInfo call.
	Hook func(ctx context.Context, videoURL string)

	mu        sync.Mutex
	infoCalls []string
	streamed  []provider.Encoding
}

// GetInfo returns a copy of f.Info so callers never share slices.
func (f *Fake) GetInfo(ctx context.Context, videoURL string) (*provider.VideoInfo, error) {
	if f.Hook != nil {
		f.Hook(ctx, videoURL)
	}

	f.mu.Lock()
	f.infoCalls = append(f.infoCalls, videoURL)
	f.mu.Unlock()

	if f.InfoErr != nil {
		return nil, f.InfoErr
	}
	if f.Info == nil {
		return &provider.VideoInfo{URL: videoURL}, nil
	}

	info := *f.Info
	info.URL = videoURL
	info.Formats = append([]provider.Encoding(nil), f.Info.Formats...)
	info.Thumbnails = append([]provider.Thumbnail(nil), f.Info.Thumbnails...)
	return &info, nil
}

// Stream returns f.Body for any encoding.
func (f *Fake) Stream(ctx context.Context, info *provider.VideoInfo, enc provider.Encoding) (io.ReadCloser, int64, error) {
	f.mu.Lock()
	f.streamed = append(f.streamed, enc)
	f.mu.Unlock()

	if f.StreamErr != nil {
		return nil, 0, f.StreamErr
	}
	return io.NopCloser(bytes.NewReader(f.Body)), int64(len(f.Body)), nil
}

// InfoCalls returns the URLs passed to GetInfo so far.
func (f *Fake) InfoCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.infoCalls...)
}

// Streamed returns the encodings passed to Stream so far.
func (f *Fake) Streamed() []provider.Encoding {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]provider.Encoding(nil), f.streamed...)
}

// Kbps returns a pointer for Encoding.AudioBitrate literals.
func Kbps(v int) *int { return &v }

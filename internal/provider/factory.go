package provider

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"videorelay/internal/model"
)

const (
	NameYouTube = "youtube"
	NameYTDLP   = "ytdlp"
)

// New builds the provider selected by cfg.Name.
func New(cfg *model.ProviderConfig) (Provider, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second

	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", NameYouTube:
		client, err := NewHTTPClient(cfg.ProxyURL)
		if err != nil {
			return nil, err
		}
		return NewYouTubeProvider(client, timeout), nil
	case NameYTDLP:
		return NewYTDLPProvider(cfg.YTDLPPath, timeout), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
}

// NewHTTPClient returns the client used for upstream requests. It carries no
// overall timeout because media streams may legitimately run for a long time;
// only connection setup and response headers are bounded.
func NewHTTPClient(proxyURL string) (*http.Client, error) {
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   8,
	}

	if proxyURL = strings.TrimSpace(proxyURL); proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		base.Proxy = http.ProxyURL(u)
	}

	return &http.Client{Transport: base}, nil
}

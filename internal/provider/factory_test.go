package provider

import (
	"net/http"
	"testing"

	"videorelay/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p, err := New(&model.ProviderConfig{Name: "youtube", Timeout: 30})
	require.NoError(t, err)
	assert.IsType(t, &YouTubeProvider{}, p)

	p, err = New(&model.ProviderConfig{})
	require.NoError(t, err)
	assert.IsType(t, &YouTubeProvider{}, p)

	p, err = New(&model.ProviderConfig{Name: " YTDLP ", YTDLPPath: "/opt/yt-dlp"})
	require.NoError(t, err)
	require.IsType(t, &YTDLPProvider{}, p)
	assert.Equal(t, "/opt/yt-dlp", p.(*YTDLPProvider).Binary)

	_, err = New(&model.ProviderConfig{Name: "vimeo"})
	assert.Error(t, err)

	_, err = New(&model.ProviderConfig{Name: "youtube", ProxyURL: "http://[::1"})
	assert.Error(t, err)
}

func TestNewHTTPClient(t *testing.T) {
	client, err := NewHTTPClient("http://proxy.internal:3128")
	require.NoError(t, err)
	assert.Zero(t, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	req, err := http.NewRequest(http.MethodGet, "https://www.youtube.com/", nil)
	require.NoError(t, err)
	proxy, err := transport.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy.internal:3128", proxy.Host)
}

package validator

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"videorelay/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/kkdai/youtube/v2"
)

// Client-facing messages for rejected input.
const (
	MsgInvalidURL      = "Invalid or missing YouTube URL."
	MsgInvalidDownload = "Invalid download parameters."
)

var errNoVideoID = errors.New("url does not identify a video")

// Path prefixes under which youtube.com carries the video ID as the next
// segment.
var videoPathPrefixes = map[string]bool{
	"embed":  true,
	"v":      true,
	"shorts": true,
	"live":   true,
}

var (
	videoIDPattern       = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	disallowedTitleChars = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	controlWhitespace    = strings.NewReplacer("\t", " ", "\n", " ", "\v", " ", "\f", " ", "\r", " ")
)

// Validator turns raw request parameters into typed requests. It never
// talks to the video provider.
type Validator struct {
	allowedDomains []string
	validate       *validator.Validate
}

type videoRefParams struct {
	URL string `validate:"required,url"`
}

type downloadParams struct {
	URL     string `validate:"required,url"`
	Format  string `validate:"required,oneof=mp4 mp3"`
	Quality string `validate:"required,max=64"`
}

// New creates a validator restricted to allowedDomains. An empty list
// accepts any host.
func New(allowedDomains []string) *Validator {
	return &Validator{
		allowedDomains: allowedDomains,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

// VideoRef validates the URL of a metadata request.
func (v *Validator) VideoRef(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if err := v.validate.Struct(videoRefParams{URL: raw}); err != nil {
		return "", model.InvalidInput(MsgInvalidURL, err)
	}
	if !ValidateURL(raw, v.allowedDomains) {
		return "", model.InvalidInput(MsgInvalidURL, nil)
	}
	return raw, nil
}

// Download validates the parameters of a download request. quality is only
// checked for presence; the provider decides whether it resolves.
func (v *Validator) Download(rawURL, format, quality string) (model.DownloadRequest, error) {
	params := downloadParams{
		URL:     strings.TrimSpace(rawURL),
		Format:  strings.TrimSpace(format),
		Quality: strings.TrimSpace(quality),
	}
	if err := v.validate.Struct(params); err != nil {
		return model.DownloadRequest{}, model.InvalidInput(MsgInvalidDownload, err)
	}
	if !ValidateURL(params.URL, v.allowedDomains) {
		return model.DownloadRequest{}, model.InvalidInput(MsgInvalidDownload, nil)
	}
	return model.DownloadRequest{
		URL:     params.URL,
		Format:  model.FormatKind(params.Format),
		Quality: params.Quality,
	}, nil
}

// ValidateURL reports whether videoURL is an absolute http(s) URL whose host
// is one of allowedDomains or a subdomain of one. URLs on YouTube hosts must
// also name a video; other hosts are left to the provider.
func ValidateURL(videoURL string, allowedDomains []string) bool {
	u, err := url.Parse(videoURL)
	if err != nil || !u.IsAbs() {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	host = strings.TrimPrefix(host, "www.")

	if !hostAllowed(host, allowedDomains) {
		return false
	}

	if isYouTubeHost(host) {
		if _, err := VideoID(videoURL); err != nil {
			return false
		}
	}
	return true
}

func hostAllowed(host string, allowedDomains []string) bool {
	if len(allowedDomains) == 0 {
		return true
	}

	for _, domain := range allowedDomains {
		cleanDomain := strings.ToLower(strings.TrimSpace(domain))
		if len(cleanDomain) == 0 {
			continue
		}
		if host == cleanDomain || strings.HasSuffix(host, "."+cleanDomain) {
			return true
		}
	}

	return false
}

func isYouTubeHost(host string) bool {
	host = strings.TrimPrefix(host, "www.")
	return host == "youtu.be" ||
		host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") ||
		host == "youtube-nocookie.com"
}

// VideoID returns the 11-character video ID a YouTube URL points at: the
// first path segment on youtu.be, otherwise the v query parameter or the
// segment after /embed/, /v/, /shorts/ or /live/.
func VideoID(videoURL string) (string, error) {
	u, err := url.Parse(videoURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errNoVideoID, err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	var candidate string
	switch {
	case host == "youtu.be":
		candidate, _, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	case isYouTubeHost(host):
		candidate = u.Query().Get("v")
		if candidate == "" {
			segments := strings.Split(strings.Trim(u.Path, "/"), "/")
			if len(segments) >= 2 && videoPathPrefixes[segments[0]] {
				candidate = segments[1]
			}
		}
	default:
		return "", fmt.Errorf("%w: %q is not a YouTube host", errNoVideoID, host)
	}

	if !videoIDPattern.MatchString(candidate) {
		return "", fmt.Errorf("%w: %q", errNoVideoID, videoURL)
	}
	// kkdai's extractor scans arbitrary text and would accept the host name
	// of a bare URL, so it only sees the isolated candidate.
	id, err := youtube.ExtractVideoID(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errNoVideoID, err)
	}
	return id, nil
}

// SanitizeTitle keeps only ASCII letters, digits and whitespace so the title
// is safe inside a quoted Content-Disposition filename.
func SanitizeTitle(title string) string {
	return controlWhitespace.Replace(disallowedTitleChars.ReplaceAllString(title, ""))
}

// Filename builds "<sanitized title>.<ext>", falling back to "download" when
// nothing of the title survives sanitizing.
func Filename(title string, format model.FormatKind) string {
	name := SanitizeTitle(title)
	if strings.TrimSpace(name) == "" {
		name = "download"
	}
	return name + "." + format.Extension()
}

package provider

import (
	"cmp"
	"fmt"
	"mime"
	"strconv"
	"strings"
)

// FilterFormats returns the encodings of list accepted by filter, in their
// original order. Unknown filters yield an empty result.
func FilterFormats(list []Encoding, filter Filter) []Encoding {
	out := make([]Encoding, 0, len(list))
	for _, f := range list {
		if matches(f, filter) {
			out = append(out, f)
		}
	}
	return out
}

func matches(f Encoding, filter Filter) bool {
	switch filter {
	case FilterVideoAndAudio:
		return f.HasVideo && f.HasAudio
	case FilterAudioOnly:
		return f.HasAudio && !f.HasVideo
	case FilterVideoOnly:
		return f.HasVideo && !f.HasAudio
	case FilterVideo:
		return f.HasVideo
	case FilterAudio:
		return f.HasAudio
	default:
		return false
	}
}

// ChooseFormat picks the encoding a quality selector refers to within the
// pool accepted by filter.
//
// quality is either a numeric itag or one of highest, lowest, highestvideo,
// lowestvideo, highestaudio, lowestaudio.
func ChooseFormat(list []Encoding, filter Filter, quality string) (Encoding, error) {
	switch filter {
	case FilterVideoAndAudio, FilterAudioOnly, FilterVideoOnly, FilterVideo, FilterAudio:
	default:
		return Encoding{}, fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
	}

	pool := FilterFormats(list, filter)
	quality = strings.TrimSpace(quality)

	if itag, err := strconv.Atoi(quality); err == nil {
		for _, f := range pool {
			if f.Itag == itag {
				return f, nil
			}
		}
		return Encoding{}, fmt.Errorf("%w: itag %d with filter %s", ErrNoSuchFormat, itag, filter)
	}

	var (
		candidates []Encoding
		compare    func(a, b Encoding) int
		lowest     bool
	)
	switch quality {
	case "highest", "lowest":
		candidates, compare = pool, compareOverall
	case "highestvideo", "lowestvideo":
		candidates, compare = FilterFormats(pool, FilterVideo), compareVideo
	case "highestaudio", "lowestaudio":
		candidates, compare = FilterFormats(pool, FilterAudio), compareAudio
	default:
		return Encoding{}, fmt.Errorf("%w: unknown quality %q", ErrNoSuchFormat, quality)
	}
	lowest = strings.HasPrefix(quality, "lowest")

	if len(candidates) == 0 {
		return Encoding{}, fmt.Errorf("%w: %s with filter %s", ErrNoSuchFormat, quality, filter)
	}

	best := candidates[0]
	for _, f := range candidates[1:] {
		c := compare(f, best)
		if (lowest && c < 0) || (!lowest && c > 0) {
			best = f
		}
	}
	return best, nil
}

func compareVideo(a, b Encoding) int {
	if c := cmp.Compare(QualityHeight(a.QualityLabel), QualityHeight(b.QualityLabel)); c != 0 {
		return c
	}
	return cmp.Compare(a.Bitrate, b.Bitrate)
}

func compareAudio(a, b Encoding) int {
	if c := cmp.Compare(kbps(a.AudioBitrate), kbps(b.AudioBitrate)); c != 0 {
		return c
	}
	return cmp.Compare(a.Bitrate, b.Bitrate)
}

func compareOverall(a, b Encoding) int {
	if c := compareVideo(a, b); c != 0 {
		return c
	}
	return compareAudio(a, b)
}

func kbps(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// QualityHeight extracts the vertical resolution from a label such as
// "1080p60" or "720p HDR". It returns 0 when the label has no leading number.
func QualityHeight(label string) int {
	end := 0
	for end < len(label) && label[end] >= '0' && label[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	h, err := strconv.Atoi(label[:end])
	if err != nil {
		return 0
	}
	return h
}

// ParseContainer returns the media subtype of a MIME type, so
// `video/mp4; codecs="avc1.42001E, mp4a.40.2"` yields "mp4".
func ParseContainer(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	}
	_, sub, ok := strings.Cut(mediaType, "/")
	if !ok {
		return ""
	}
	return strings.ToLower(sub)
}

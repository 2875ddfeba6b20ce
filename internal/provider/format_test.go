package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kbpsPtr(v int) *int { return &v }

func sampleFormats() []Encoding {
	return []Encoding{
		{Itag: 22, Container: "mp4", QualityLabel: "720p", HasVideo: true, HasAudio: true, AudioBitrate: kbpsPtr(192), Bitrate: 1_500_000},
		{Itag: 18, Container: "mp4", QualityLabel: "360p", HasVideo: true, HasAudio: true, AudioBitrate: kbpsPtr(96), Bitrate: 500_000},
		{Itag: 137, Container: "mp4", QualityLabel: "1080p", HasVideo: true, Bitrate: 4_000_000},
		{Itag: 140, Container: "mp4", HasAudio: true, AudioBitrate: kbpsPtr(128), Bitrate: 130_000},
		{Itag: 251, Container: "webm", HasAudio: true, AudioBitrate: kbpsPtr(160), Bitrate: 150_000},
		{Itag: 249, Container: "webm", HasAudio: true, Bitrate: 50_000},
	}
}

func itags(list []Encoding) []int {
	out := make([]int, 0, len(list))
	for _, f := range list {
		out = append(out, f.Itag)
	}
	return out
}

func TestFilterFormats(t *testing.T) {
	formats := sampleFormats()

	cases := []struct {
		filter Filter
		want   []int
	}{
		{FilterVideoAndAudio, []int{22, 18}},
		{FilterAudioOnly, []int{140, 251, 249}},
		{FilterVideoOnly, []int{137}},
		{FilterVideo, []int{22, 18, 137}},
		{FilterAudio, []int{22, 18, 140, 251, 249}},
		{Filter("bogus"), []int{}},
	}
	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			assert.Equal(t, tc.want, itags(FilterFormats(formats, tc.filter)))
		})
	}
}

func TestChooseFormat(t *testing.T) {
	formats := sampleFormats()

	cases := []struct {
		name    string
		filter  Filter
		quality string
		want    int
	}{
		{"itag in pool", FilterVideoAndAudio, "18", 18},
		{"itag padded", FilterAudioOnly, " 140 ", 140},
		{"highest combined", FilterVideoAndAudio, "highest", 22},
		{"lowest combined", FilterVideoAndAudio, "lowest", 18},
		{"highestvideo", FilterVideoAndAudio, "highestvideo", 22},
		{"highestaudio", FilterAudioOnly, "highestaudio", 251},
		{"lowestaudio", FilterAudioOnly, "lowestaudio", 249},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ChooseFormat(formats, tc.filter, tc.quality)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Itag)
		})
	}
}

func TestChooseFormatNoMatch(t *testing.T) {
	formats := sampleFormats()

	for _, quality := range []string{"140", "9999", "best", ""} {
		_, err := ChooseFormat(formats, FilterVideoAndAudio, quality)
		assert.ErrorIs(t, err, ErrNoSuchFormat, "quality %q", quality)
	}

	_, err := ChooseFormat(nil, FilterAudioOnly, "highestaudio")
	assert.ErrorIs(t, err, ErrNoSuchFormat)

	_, err = ChooseFormat(formats, Filter("bogus"), "18")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestQualityHeight(t *testing.T) {
	assert.Equal(t, 1080, QualityHeight("1080p60"))
	assert.Equal(t, 720, QualityHeight("720p HDR"))
	assert.Equal(t, 144, QualityHeight("144p"))
	assert.Equal(t, 0, QualityHeight(""))
	assert.Equal(t, 0, QualityHeight("medium"))
}

func TestParseContainer(t *testing.T) {
	assert.Equal(t, "mp4", ParseContainer(`video/mp4; codecs="avc1.42001E, mp4a.40.2"`))
	assert.Equal(t, "webm", ParseContainer(`audio/webm; codecs="opus"`))
	assert.Equal(t, "mp4", ParseContainer("audio/mp4"))
	assert.Equal(t, "3gpp", ParseContainer(`video/3gpp; codecs="mp4v.20.3, mp4a.40.2"`))
	assert.Equal(t, "", ParseContainer("garbage"))
}

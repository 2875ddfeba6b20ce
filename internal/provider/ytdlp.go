package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CommandRunner executes external commands and returns stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// CommandFactory builds a command whose stdout is streamed to the caller.
type CommandFactory func(ctx context.Context, binary string, args ...string) *exec.Cmd

// YTDLPProvider fetches info and media by shelling out to the yt-dlp CLI.
type YTDLPProvider struct {
	Binary  string
	Args    []string
	Run     CommandRunner
	Command CommandFactory
	Timeout time.Duration
}

var heightLabel = regexp.MustCompile(`^\d+p`)

// NewYTDLPProvider constructs a Provider that shells out to yt-dlp.
func NewYTDLPProvider(binary string, timeout time.Duration) *YTDLPProvider {
	if strings.TrimSpace(binary) == "" {
		binary = "yt-dlp"
	}
	return &YTDLPProvider{
		Binary:  binary,
		Args:    []string{"--dump-single-json", "--no-warnings", "--no-playlist", "--skip-download"},
		Run:     defaultCommandRunner,
		Command: exec.CommandContext,
		Timeout: timeout,
	}
}

type ytdlpPayload struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	Thumbnail  string  `json:"thumbnail"`
	Thumbnails []struct {
		URL    string `json:"url"`
		Width  uint   `json:"width"`
		Height uint   `json:"height"`
	} `json:"thumbnails"`
	Formats []ytdlpFormat `json:"formats"`
}

type ytdlpFormat struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	FormatNote string  `json:"format_note"`
	Height     int     `json:"height"`
	ABR        float64 `json:"abr"`
	TBR        float64 `json:"tbr"`
	Filesize   int64   `json:"filesize"`
}

// GetInfo executes yt-dlp for videoURL and parses its JSON dump.
func (p *YTDLPProvider) GetInfo(ctx context.Context, videoURL string) (*VideoInfo, error) {
	run := p.Run
	if run == nil {
		run = defaultCommandRunner
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	args := append([]string{}, p.Args...)
	args = append(args, videoURL)

	out, err := run(ctx, p.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp fetch: %w", err)
	}

	var payload ytdlpPayload
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, fmt.Errorf("parse yt-dlp response: %w", err)
	}
	if payload.ID == "" && payload.Title == "" {
		return nil, errors.New("yt-dlp returned empty metadata")
	}

	info := &VideoInfo{
		ID:            payload.ID,
		URL:           videoURL,
		Title:         payload.Title,
		LengthSeconds: int(payload.Duration),
		Formats:       make([]Encoding, 0, len(payload.Formats)),
	}
	for _, t := range payload.Thumbnails {
		info.Thumbnails = append(info.Thumbnails, Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height})
	}
	if len(info.Thumbnails) == 0 && payload.Thumbnail != "" {
		info.Thumbnails = []Thumbnail{{URL: payload.Thumbnail}}
	}
	for _, f := range payload.Formats {
		if enc, ok := convertYTDLPFormat(f); ok {
			info.Formats = append(info.Formats, enc)
		}
	}
	return info, nil
}

// convertYTDLPFormat maps one yt-dlp format entry. Entries whose format_id
// is not a numeric itag are skipped.
func convertYTDLPFormat(f ytdlpFormat) (Encoding, bool) {
	itag, err := strconv.Atoi(f.FormatID)
	if err != nil {
		return Encoding{}, false
	}

	hasVideo := f.VCodec != "" && f.VCodec != "none"
	hasAudio := f.ACodec != "" && f.ACodec != "none"
	kind := "audio"
	if hasVideo {
		kind = "video"
	}

	enc := Encoding{
		Itag:          itag,
		MimeType:      kind + "/" + f.Ext,
		Container:     strings.ToLower(f.Ext),
		Bitrate:       int(math.Round(f.TBR * 1000)),
		HasVideo:      hasVideo,
		HasAudio:      hasAudio,
		ContentLength: f.Filesize,
	}
	if hasVideo {
		switch {
		case heightLabel.MatchString(f.FormatNote):
			enc.QualityLabel = f.FormatNote
		case f.Height > 0:
			enc.QualityLabel = strconv.Itoa(f.Height) + "p"
		}
	}
	if hasAudio && f.ABR > 0 {
		kbps := int(math.Round(f.ABR))
		enc.AudioBitrate = &kbps
	}
	return enc, true
}

// Stream runs yt-dlp with stdout as the output file and hands the pipe to
// the caller. The process is bound to ctx and reaped on Close.
func (p *YTDLPProvider) Stream(ctx context.Context, info *VideoInfo, enc Encoding) (io.ReadCloser, int64, error) {
	if info == nil || info.URL == "" {
		return nil, 0, errors.New("yt-dlp stream: missing video url")
	}
	command := p.Command
	if command == nil {
		command = exec.CommandContext
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := command(ctx, p.Binary,
		"--no-warnings", "--no-playlist", "--quiet",
		"-f", strconv.Itoa(enc.Itag),
		"-o", "-",
		info.URL,
	)

	s := &commandStream{cmd: cmd, cancel: cancel}
	cmd.Stderr = &s.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, 0, fmt.Errorf("yt-dlp stream: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, 0, fmt.Errorf("yt-dlp stream: %w", err)
	}
	s.stdout = stdout

	// yt-dlp filesizes are not guaranteed to match the piped bytes.
	return s, -1, nil
}

type commandStream struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stdout io.ReadCloser
	stderr bytes.Buffer

	once    sync.Once
	waitErr error
}

func (s *commandStream) Read(b []byte) (int, error) {
	n, err := s.stdout.Read(b)
	if errors.Is(err, io.EOF) {
		if werr := s.wait(); werr != nil {
			return n, fmt.Errorf("yt-dlp exited: %w: %s", werr, strings.TrimSpace(s.stderr.String()))
		}
	}
	return n, err
}

func (s *commandStream) Close() error {
	s.cancel()
	s.wait()
	return nil
}

func (s *commandStream) wait() error {
	s.once.Do(func() {
		s.waitErr = s.cmd.Wait()
		s.cancel()
	})
	return s.waitErr
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.Output()
}

// Package media wraps yt-dlp for video/audio downloads and keeps a small
// download history.
package media

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/funnyzak/dk/internal/execx"
)

// ErrYtDlpNotFound indicates yt-dlp is not installed or not in PATH.
var ErrYtDlpNotFound = fmt.Errorf("yt-dlp not found: please install it (https://github.com/yt-dlp/yt-dlp)")

// Check verifies that yt-dlp is available in PATH.
func Check() error {
	if _, err := exec.LookPath("yt-dlp"); err != nil {
		return ErrYtDlpNotFound
	}
	return nil
}

// GrabParams describes one download.
type GrabParams struct {
	URL         string
	OutputDir   string // "" = current directory
	Format      string // yt-dlp -f selector
	AudioOnly   bool
	AudioFormat string // used with AudioOnly
	Playlist    bool   // allow full-playlist downloads
}

// ValidateURL checks for an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid URL: %s", raw)
	}
	return nil
}

// GrabArgs builds the yt-dlp command line.
func GrabArgs(p GrabParams) []string {
	args := []string{"--no-warnings"}

	template := "%(title)s.%(ext)s"
	if p.OutputDir != "" {
		template = filepath.Join(p.OutputDir, template)
	}
	args = append(args, "-o", template)

	if p.AudioOnly {
		format := p.AudioFormat
		if format == "" {
			format = "mp3"
		}
		args = append(args, "-x", "--audio-format", format)
	} else if p.Format != "" {
		args = append(args, "-f", p.Format)
	}

	if !p.Playlist {
		args = append(args, "--no-playlist")
	}

	return append(args, p.URL)
}

// Grab downloads with yt-dlp, leaving yt-dlp's own progress output
// attached to the terminal.
func Grab(ctx context.Context, p GrabParams) error {
	if err := Check(); err != nil {
		return err
	}
	if err := ValidateURL(p.URL); err != nil {
		return err
	}
	if p.OutputDir != "" {
		if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return execx.RunAttached(ctx, "", "yt-dlp", GrabArgs(p)...)
}

// Mode returns the history label for the download kind.
func (p GrabParams) Mode() string {
	if p.AudioOnly {
		return "audio"
	}
	return "video"
}

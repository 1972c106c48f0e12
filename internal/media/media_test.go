package media

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	valid := []string{
		"https://www.youtube.com/watch?v=abc123",
		"http://example.com/video",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{"", "notaurl", "ftp://example.com/x", "youtube.com/watch"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}

func TestGrabArgs(t *testing.T) {
	t.Parallel()

	t.Run("video defaults", func(t *testing.T) {
		t.Parallel()
		args := GrabArgs(GrabParams{URL: "https://example.com/v"})
		want := []string{
			"--no-warnings",
			"-o", "%(title)s.%(ext)s",
			"--no-playlist",
			"https://example.com/v",
		}
		if !reflect.DeepEqual(args, want) {
			t.Errorf("GrabArgs = %v, want %v", args, want)
		}
	})

	t.Run("output dir prefixes template", func(t *testing.T) {
		t.Parallel()
		args := GrabArgs(GrabParams{URL: "u", OutputDir: "/tmp/vids"})
		found := false
		for _, a := range args {
			if a == filepath.Join("/tmp/vids", "%(title)s.%(ext)s") {
				found = true
			}
		}
		if !found {
			t.Errorf("GrabArgs = %v, want output template under /tmp/vids", args)
		}
	})

	t.Run("audio mode", func(t *testing.T) {
		t.Parallel()
		args := GrabArgs(GrabParams{URL: "u", AudioOnly: true, AudioFormat: "m4a"})
		joined := ""
		for _, a := range args {
			joined += a + " "
		}
		if !contains(args, "-x") || !contains(args, "m4a") {
			t.Errorf("GrabArgs = %v, want -x --audio-format m4a", args)
		}
		if contains(args, "-f") {
			t.Errorf("GrabArgs = %v, -f must not be set in audio mode", args)
		}
		_ = joined
	})

	t.Run("audio format defaults to mp3", func(t *testing.T) {
		t.Parallel()
		args := GrabArgs(GrabParams{URL: "u", AudioOnly: true})
		if !contains(args, "mp3") {
			t.Errorf("GrabArgs = %v, want default mp3", args)
		}
	})

	t.Run("format selector", func(t *testing.T) {
		t.Parallel()
		args := GrabArgs(GrabParams{URL: "u", Format: "bestvideo+bestaudio"})
		if !contains(args, "-f") || !contains(args, "bestvideo+bestaudio") {
			t.Errorf("GrabArgs = %v, want -f selector", args)
		}
	})

	t.Run("playlist drops no-playlist", func(t *testing.T) {
		t.Parallel()
		args := GrabArgs(GrabParams{URL: "u", Playlist: true})
		if contains(args, "--no-playlist") {
			t.Errorf("GrabArgs = %v, --no-playlist must be absent", args)
		}
	})
}

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func TestMode(t *testing.T) {
	t.Parallel()

	if got := (GrabParams{AudioOnly: true}).Mode(); got != "audio" {
		t.Errorf("Mode(audio) = %q, want audio", got)
	}
	if got := (GrabParams{}).Mode(); got != "video" {
		t.Errorf("Mode(video) = %q, want video", got)
	}
}

func TestExtractPlaylistID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/playlist?list=PL123abc", "PL123abc"},
		{"https://www.youtube.com/watch?v=x&list=PL456&index=2", "PL456"},
		{"https://www.youtube.com/watch?v=x", ""},
	}
	for _, tt := range tests {
		if got := ExtractPlaylistID(tt.url); got != tt.want {
			t.Errorf("ExtractPlaylistID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

package magick

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOverlayOutputName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		background string
		outputDir  string
		want       string
	}{
		{"shots/wall.jpg", "", "shots/wall_overlay.jpg"},
		{"shots/wall.jpg", "out", "out/wall_overlay.jpg"},
		{"wall.png", "", "wall_overlay.png"},
	}
	for _, tt := range tests {
		if got := OverlayOutputName(tt.background, tt.outputDir); got != tt.want {
			t.Errorf("OverlayOutputName(%q, %q) = %q, want %q",
				tt.background, tt.outputDir, got, tt.want)
		}
	}
}

func TestCollectBackgrounds(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.png", "done_overlay.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	images, err := CollectBackgrounds(dir)
	if err != nil {
		t.Fatalf("CollectBackgrounds = %v", err)
	}

	want := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.jpg")}
	if len(images) != len(want) {
		t.Fatalf("got %d images %v, want %v", len(images), images, want)
	}
	for i := range want {
		if images[i] != want[i] {
			t.Errorf("images[%d] = %q, want %q", i, images[i], want[i])
		}
	}
}

func TestValidateIO(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	if err := os.WriteFile(src, []byte("img"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateIO(src, filepath.Join(dir, "new.png"), false); err != nil {
		t.Errorf("ValidateIO(fresh output) = %v, want nil", err)
	}

	if err := ValidateIO(filepath.Join(dir, "missing.png"), "", false); err == nil {
		t.Error("ValidateIO(missing source) = nil, want error")
	}

	if err := ValidateIO(dir, "", false); err == nil {
		t.Error("ValidateIO(directory source) = nil, want error")
	}

	existing := filepath.Join(dir, "taken.png")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateIO(src, existing, false); err == nil {
		t.Error("ValidateIO(existing output) = nil, want error")
	}
	if err := ValidateIO(src, existing, true); err != nil {
		t.Errorf("ValidateIO(existing output, force) = %v, want nil", err)
	}
}

func TestCollectBackgrounds_MissingDir(t *testing.T) {
	t.Parallel()

	if _, err := CollectBackgrounds(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("CollectBackgrounds on missing dir = nil, want error")
	}
}

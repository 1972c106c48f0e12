package magick

import (
	"reflect"
	"testing"
)

func TestParseDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"1920 1080\n", 1920, 1080, false},
		{"  640 480  ", 640, 480, false},
		{"1920", 0, 0, true},
		{"a b", 0, 0, true},
		{"0 100", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		w, h, err := ParseDimensions(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDimensions(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && (w != tt.w || h != tt.h) {
			t.Errorf("ParseDimensions(%q) = %dx%d, want %dx%d", tt.in, w, h, tt.w, tt.h)
		}
	}
}

func TestValidateResizeSpec(t *testing.T) {
	t.Parallel()

	valid := []string{"800x600", "800x", "x600", "50%", "1080"}
	for _, spec := range valid {
		if err := ValidateResizeSpec(spec); err != nil {
			t.Errorf("ValidateResizeSpec(%q) = %v, want nil", spec, err)
		}
	}

	invalid := []string{"", "abc", "800x600x400%%", "x"}
	for _, spec := range invalid {
		if err := ValidateResizeSpec(spec); err == nil {
			t.Errorf("ValidateResizeSpec(%q) = nil, want error", spec)
		}
	}
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	w, h, err := ParseSize("1200x630")
	if err != nil {
		t.Fatalf("ParseSize = %v, want nil", err)
	}
	if w != 1200 || h != 630 {
		t.Errorf("ParseSize = %dx%d, want 1200x630", w, h)
	}

	for _, bad := range []string{"", "1200", "x630", "0x100", "-1x5", "axb"} {
		if _, _, err := ParseSize(bad); err == nil {
			t.Errorf("ParseSize(%q) = nil, want error", bad)
		}
	}
}

func TestContentBox(t *testing.T) {
	t.Parallel()

	t.Run("no padding", func(t *testing.T) {
		t.Parallel()
		w, h, err := ContentBox(1000, 800, "")
		if err != nil {
			t.Fatalf("ContentBox = %v, want nil", err)
		}
		if w != 1000 || h != 800 {
			t.Errorf("ContentBox = %dx%d, want 1000x800", w, h)
		}
	})

	t.Run("percent of smaller dimension", func(t *testing.T) {
		t.Parallel()
		// 5% of 800 = 40 per side
		w, h, err := ContentBox(1000, 800, "5%")
		if err != nil {
			t.Fatalf("ContentBox = %v, want nil", err)
		}
		if w != 920 || h != 720 {
			t.Errorf("ContentBox = %dx%d, want 920x720", w, h)
		}
	})

	t.Run("pixel padding", func(t *testing.T) {
		t.Parallel()
		w, h, err := ContentBox(1000, 800, "100")
		if err != nil {
			t.Fatalf("ContentBox = %v, want nil", err)
		}
		if w != 800 || h != 600 {
			t.Errorf("ContentBox = %dx%d, want 800x600", w, h)
		}
	})

	t.Run("padding swallows output", func(t *testing.T) {
		t.Parallel()
		if _, _, err := ContentBox(100, 100, "50"); err == nil {
			t.Error("ContentBox(100x100, 50px) = nil, want error")
		}
	})

	t.Run("invalid padding", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{"abc", "-5", "-5%"} {
			if _, _, err := ContentBox(1000, 800, bad); err == nil {
				t.Errorf("ContentBox(padding=%q) = nil, want error", bad)
			}
		}
	})
}

func TestOverlayArgs(t *testing.T) {
	t.Parallel()

	t.Run("fit keeps aspect", func(t *testing.T) {
		t.Parallel()
		args, err := OverlayArgs(OverlayParams{
			Foreground: "fg.png",
			Background: "bg.jpg",
			Output:     "out.jpg",
			Padding:    "10%",
		}, 1000, 1000)
		if err != nil {
			t.Fatalf("OverlayArgs = %v, want nil", err)
		}
		want := []string{
			"bg.jpg",
			"-resize", "1000x1000^",
			"-gravity", "center",
			"-extent", "1000x1000",
			"(", "fg.png", "-resize", "800x800", ")",
			"-gravity", "center",
			"-composite",
			"out.jpg",
		}
		if !reflect.DeepEqual(args, want) {
			t.Errorf("OverlayArgs = %v, want %v", args, want)
		}
	})

	t.Run("stretch appends bang", func(t *testing.T) {
		t.Parallel()
		args, err := OverlayArgs(OverlayParams{
			Foreground: "fg.png",
			Background: "bg.jpg",
			Output:     "out.jpg",
			Stretch:    true,
		}, 640, 480)
		if err != nil {
			t.Fatalf("OverlayArgs = %v, want nil", err)
		}
		found := false
		for _, a := range args {
			if a == "640x480!" {
				found = true
			}
		}
		if !found {
			t.Errorf("OverlayArgs = %v, want stretch geometry 640x480!", args)
		}
	})
}

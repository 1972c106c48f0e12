package magick

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// OverlayParams describes a foreground-on-background composite.
type OverlayParams struct {
	Foreground string
	Background string
	Output     string
	Size       string // output "WxH"; empty = background's own size
	Padding    string // margin around the foreground: "5%" or pixels
	Stretch    bool   // fill the content box exactly, ignoring aspect ratio
}

// Overlay scales the background to the output size, fits (or stretches)
// the foreground into the padded content box, and composites it centered.
func (r *Runner) Overlay(ctx context.Context, p OverlayParams) error {
	w, h, err := r.overlaySize(ctx, p)
	if err != nil {
		return err
	}
	args, err := OverlayArgs(p, w, h)
	if err != nil {
		return err
	}
	return r.run(ctx, args)
}

func (r *Runner) overlaySize(ctx context.Context, p OverlayParams) (int, int, error) {
	if p.Size != "" {
		return ParseSize(p.Size)
	}
	return r.Dimensions(ctx, p.Background)
}

// OverlayArgs builds the composite command line for a w x h output.
func OverlayArgs(p OverlayParams, w, h int) ([]string, error) {
	cw, ch, err := ContentBox(w, h, p.Padding)
	if err != nil {
		return nil, err
	}

	fgResize := fmt.Sprintf("%dx%d", cw, ch)
	if p.Stretch {
		fgResize += "!"
	}

	size := fmt.Sprintf("%dx%d", w, h)
	return []string{
		p.Background,
		"-resize", size + "^",
		"-gravity", "center",
		"-extent", size,
		"(", p.Foreground, "-resize", fgResize, ")",
		"-gravity", "center",
		"-composite",
		p.Output,
	}, nil
}

// ParseSize parses "WxH" into positive pixel dimensions.
func ParseSize(size string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(size), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", size)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", size)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", size)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: dimensions must be positive", size)
	}
	return w, h, nil
}

// ContentBox returns the foreground box after subtracting the padding
// from each side. Padding is either a pixel count or a percentage of
// the smaller output dimension.
func ContentBox(w, h int, padding string) (int, int, error) {
	px, err := paddingPixels(w, h, padding)
	if err != nil {
		return 0, 0, err
	}
	cw, ch := w-2*px, h-2*px
	if cw <= 0 || ch <= 0 {
		return 0, 0, fmt.Errorf("padding %q leaves no room in %dx%d output", padding, w, h)
	}
	return cw, ch, nil
}

func paddingPixels(w, h int, padding string) (int, error) {
	if padding == "" {
		return 0, nil
	}
	if strings.HasSuffix(padding, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(padding, "%"), 64)
		if err != nil || pct < 0 {
			return 0, fmt.Errorf("invalid padding %q", padding)
		}
		base := w
		if h < w {
			base = h
		}
		return int(float64(base) * pct / 100), nil
	}
	px, err := strconv.Atoi(padding)
	if err != nil || px < 0 {
		return 0, fmt.Errorf("invalid padding %q", padding)
	}
	return px, nil
}

// Package magick wraps ImageMagick for the dk image commands.
// It prefers the v7 `magick` binary and falls back to the legacy
// `convert`/`identify` pair.
package magick

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/funnyzak/dk/internal/execx"
)

// ErrNotFound indicates no ImageMagick binary is in PATH.
var ErrNotFound = fmt.Errorf("ImageMagick not found: please install it (https://imagemagick.org)")

// Runner invokes ImageMagick with the detected entry point.
type Runner struct {
	bin    string
	legacy bool // true when using convert/identify instead of magick
}

// ValidateIO checks the source exists and the output does not, before
// any ImageMagick process runs. dst may be empty for read-only
// operations; force skips the collision check.
func ValidateIO(src, dst string, force bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("source image: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source is a directory: %s", src)
	}
	if dst != "" && !force {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("output already exists: %s (use --force)", dst)
		}
	}
	return nil
}

// Detect locates an ImageMagick installation.
func Detect() (*Runner, error) {
	if execx.Available("magick") {
		return &Runner{bin: "magick"}, nil
	}
	if execx.Available("convert") {
		return &Runner{bin: "convert", legacy: true}, nil
	}
	return nil, ErrNotFound
}

// Bin returns the detected entry-point binary.
func (r *Runner) Bin() string {
	return r.bin
}

func (r *Runner) run(ctx context.Context, args []string) error {
	return execx.RunContext(ctx, "", r.bin, args...)
}

// Convert transcodes src into dst; the target format comes from the
// dst extension, which is how ImageMagick itself decides.
func (r *Runner) Convert(ctx context.Context, src, dst string) error {
	return r.run(ctx, []string{src, dst})
}

// Resize writes src scaled to spec ("800x600", "50%", "x1080") into dst.
func (r *Runner) Resize(ctx context.Context, src, dst, spec string) error {
	if err := ValidateResizeSpec(spec); err != nil {
		return err
	}
	return r.run(ctx, []string{src, "-resize", spec, dst})
}

// Compress re-encodes src with the given quality (1-100) into dst.
func (r *Runner) Compress(ctx context.Context, src, dst string, quality int) error {
	if quality < 1 || quality > 100 {
		return fmt.Errorf("invalid quality %d: must be 1-100", quality)
	}
	return r.run(ctx, []string{src, "-quality", strconv.Itoa(quality), dst})
}

// Info returns a one-line description of the image
// (name, format, dimensions, file size).
func (r *Runner) Info(ctx context.Context, src string) (string, error) {
	bin, args := r.identifyCmd([]string{"-format", "%f %m %wx%h %b", src})
	out, err := execx.OutputContext(ctx, "", bin, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Dimensions returns the pixel width and height of src.
func (r *Runner) Dimensions(ctx context.Context, src string) (int, int, error) {
	bin, args := r.identifyCmd([]string{"-format", "%w %h", src})
	out, err := execx.OutputContext(ctx, "", bin, args...)
	if err != nil {
		return 0, 0, err
	}
	return ParseDimensions(string(out))
}

// identifyCmd maps to `magick identify` or the legacy `identify` binary.
func (r *Runner) identifyCmd(args []string) (string, []string) {
	if r.legacy {
		return "identify", args
	}
	return r.bin, append([]string{"identify"}, args...)
}

// ParseDimensions parses identify "%w %h" output.
func ParseDimensions(out string) (int, int, error) {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected identify output: %q", out)
	}
	w, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad width %q: %w", fields[0], err)
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad height %q: %w", fields[1], err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("non-positive dimensions %dx%d", w, h)
	}
	return w, h, nil
}

// ValidateResizeSpec accepts ImageMagick geometry like "800x600",
// "800x", "x600", "50%".
func ValidateResizeSpec(spec string) error {
	if spec == "" {
		return fmt.Errorf("empty resize spec")
	}
	s := strings.TrimSuffix(spec, "%")
	s = strings.ReplaceAll(s, "x", "")
	if s == "" {
		return fmt.Errorf("invalid resize spec %q", spec)
	}
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("invalid resize spec %q", spec)
	}
	return nil
}

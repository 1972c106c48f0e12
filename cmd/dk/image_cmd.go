package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funnyzak/dk/internal/log"
	"github.com/funnyzak/dk/internal/magick"
	"github.com/funnyzak/dk/internal/output"
)

func newImageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "image",
		Short:   "Convert, resize, compress, and composite images",
		Aliases: []string{"img"},
		GroupID: GroupImage,
		Long: `Convert, resize, compress, and composite images with ImageMagick.

Uses the magick binary when available and falls back to the legacy
convert/identify commands.`,
	}

	cmd.AddCommand(newImageConvertCmd())
	cmd.AddCommand(newImageResizeCmd())
	cmd.AddCommand(newImageCompressCmd())
	cmd.AddCommand(newImageInfoCmd())
	cmd.AddCommand(newImageOverlayCmd())

	return cmd
}

// insertSuffix turns photo.jpg into photo<suffix>.jpg.
func insertSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// sourceImage returns the positional source argument, or opens a picker
// when the command was invoked without one.
func sourceImage(args []string, title string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return pickImage(title)
}

func newImageConvertCmd() *cobra.Command {
	var (
		out   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "convert [source]",
		Short: "Convert an image to another format",
		Args:  cobra.MaximumNArgs(1),
		Example: `  dk image convert photo.png -o photo.jpg
  dk image convert -o icon.webp           # Pick the source interactively`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sourceImage(args, "Convert which image?")
			if err != nil {
				return err
			}
			if out == "" {
				return fmt.Errorf("missing -o: the output extension decides the target format")
			}
			if filepath.Ext(out) == "" {
				return fmt.Errorf("output %q has no extension to infer the format from", out)
			}
			if err := magick.ValidateIO(src, out, force); err != nil {
				return err
			}

			runner, err := magick.Detect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := runner.Convert(ctx, src, out); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Converted %s -> %s\n", src, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file; its extension selects the format")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing output file")
	return cmd
}

func newImageResizeCmd() *cobra.Command {
	var (
		out   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "resize <spec> [source]",
		Short: "Resize an image",
		Args:  cobra.RangeArgs(1, 2),
		Long: `Resize an image using an ImageMagick geometry spec.

Common specs:
  800x600   fit within 800x600, keeping aspect ratio
  50%       half size
  1200x     1200 wide, height to match`,
		Example: `  dk image resize 800x600 photo.jpg
  dk image resize 50% photo.jpg -o thumb.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := args[0]
			if err := magick.ValidateResizeSpec(spec); err != nil {
				return err
			}
			src, err := sourceImage(args[1:], "Resize which image?")
			if err != nil {
				return err
			}
			if out == "" {
				out = insertSuffix(src, "_resized")
			}
			if err := magick.ValidateIO(src, out, force); err != nil {
				return err
			}

			runner, err := magick.Detect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := runner.Resize(ctx, src, out, spec); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Resized %s -> %s (%s)\n", src, out, spec)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: <name>_resized.<ext>)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing output file")
	return cmd
}

func newImageCompressCmd() *cobra.Command {
	var (
		out     string
		quality int
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "compress [source]",
		Short: "Re-encode an image at a lower quality",
		Args:  cobra.MaximumNArgs(1),
		Example: `  dk image compress photo.jpg
  dk image compress photo.jpg -Q 60 -o small.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sourceImage(args, "Compress which image?")
			if err != nil {
				return err
			}
			if quality == 0 {
				quality = cfg.Image.Quality
			}
			if quality < 1 || quality > 100 {
				return fmt.Errorf("quality must be between 1 and 100, got %d", quality)
			}
			if out == "" {
				out = insertSuffix(src, "_compressed")
			}
			if err := magick.ValidateIO(src, out, force); err != nil {
				return err
			}

			runner, err := magick.Detect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := runner.Compress(ctx, src, out, quality); err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Compressed %s -> %s (quality %d)\n", src, out, quality)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: <name>_compressed.<ext>)")
	cmd.Flags().IntVarP(&quality, "quality", "Q", 0, "Quality 1-100 (default from config)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing output file")
	return cmd
}

func newImageInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [source]",
		Short: "Print image format, dimensions, and size",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sourceImage(args, "Inspect which image?")
			if err != nil {
				return err
			}
			if err := magick.ValidateIO(src, "", false); err != nil {
				return err
			}

			runner, err := magick.Detect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			info, err := runner.Info(ctx, src)
			if err != nil {
				return err
			}
			output.FromContext(ctx).Println(info)
			return nil
		},
	}
}

func newImageOverlayCmd() *cobra.Command {
	var (
		out     string
		size    string
		padding string
		stretch bool
		batch   bool
		workers int
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "overlay <foreground> <background>",
		Short: "Composite a foreground centered over a background",
		Args:  cobra.ExactArgs(2),
		Long: `Composite a foreground image centered over a background.

The background is scaled to fill the output size. The foreground is
fitted into the remaining area inside the padding; --stretch fills that
area exactly, ignoring the foreground's aspect ratio.

With --batch, the background argument is a directory and the foreground
is composited onto every image inside it.`,
		Example: `  dk image overlay logo.png wall.jpg -o banner.png
  dk image overlay logo.png wall.jpg --size 1920x1080 --padding 5%
  dk image overlay qr.png poster.jpg --padding 40 --stretch
  dk image overlay watermark.png ./shots --batch -o ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fg, bg := args[0], args[1]
			if err := magick.ValidateIO(fg, "", false); err != nil {
				return err
			}

			runner, err := magick.Detect()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			p := magick.OverlayParams{
				Foreground: fg,
				Size:       size,
				Padding:    padding,
				Stretch:    stretch,
			}

			if batch {
				p.Output = out // used as the output directory
				stats, err := runner.OverlayFolder(ctx, p, bg, workers)
				if err != nil {
					return err
				}
				logger.Printf("Composited %d images: %d succeeded, %d failed\n",
					stats.Total, stats.Succeeded, stats.Failed)
				if stats.Failed > 0 {
					return fmt.Errorf("%d of %d images failed", stats.Failed, stats.Total)
				}
				return nil
			}

			p.Background = bg
			p.Output = out
			if p.Output == "" {
				p.Output = insertSuffix(bg, "_overlay")
			}
			if err := magick.ValidateIO(bg, p.Output, force); err != nil {
				return err
			}
			if err := runner.Overlay(ctx, p); err != nil {
				return err
			}
			logger.Printf("Composited %s over %s -> %s\n", fg, bg, p.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file, or directory with --batch")
	cmd.Flags().StringVar(&size, "size", "", "Output size WxH (default: background size)")
	cmd.Flags().StringVar(&padding, "padding", "5%", "Margin around the foreground, pixels or percent")
	cmd.Flags().BoolVar(&stretch, "stretch", false, "Fill the content box exactly, ignoring aspect ratio")
	cmd.Flags().BoolVar(&batch, "batch", false, "Treat the background as a directory of images")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent composites with --batch")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing output file")
	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funnyzak/dk/internal/bria"
	"github.com/funnyzak/dk/internal/log"
)

func newBriaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bria",
		Short:   "Remove image backgrounds via the Bria API",
		GroupID: GroupImage,
		Long: `Remove image backgrounds via the Bria API.

Results are saved as <name>_rmbg.png next to the source (or into
--output). Needs an API token: --token, the ` + briaTokenEnv + ` environment
variable, or bria.api_token in the config file.`,
	}

	cmd.AddCommand(newBriaRemoveCmd())
	cmd.AddCommand(newBriaWatchCmd())

	return cmd
}

// newProcessor builds a batch processor from flags and config defaults.
func newProcessor(token, outputDir string, overwrite bool, workers int) (*bria.Processor, error) {
	resolved, err := resolveBriaToken(token)
	if err != nil {
		return nil, err
	}
	if outputDir == "" {
		outputDir = cfg.Bria.OutputDir
	}
	if workers == 0 {
		workers = cfg.Bria.Workers
	}
	return &bria.Processor{
		Client:    bria.NewClient(resolved),
		OutputDir: outputDir,
		Overwrite: overwrite || cfg.Bria.Overwrite,
		Workers:   workers,
	}, nil
}

func newBriaRemoveCmd() *cobra.Command {
	var (
		token     string
		outputDir string
		overwrite bool
		workers   int
		urlFile   bool
	)

	cmd := &cobra.Command{
		Use:     "remove [source]",
		Short:   "Remove the background of an image, URL, or folder",
		Aliases: []string{"rm"},
		Args:    cobra.MaximumNArgs(1),
		Long: `Remove the background of one image or a whole batch.

The source can be a local image, an http(s) URL, or a folder (every
supported image inside is processed). With --url-file the source is a
text file with one image URL per line.`,
		Example: `  dk bria remove photo.jpg
  dk bria remove https://example.com/photo.jpg -o out/
  dk bria remove ./shots --workers 8
  dk bria remove urls.txt --url-file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sourceImage(args, "Remove the background of which image?")
			if err != nil {
				return err
			}

			proc, err := newProcessor(token, outputDir, overwrite, workers)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			switch {
			case urlFile:
				stats, err := proc.ProcessURLFile(ctx, src)
				if err != nil {
					return err
				}
				return reportStats(cmd, stats)

			case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
				stop := startSpinner("Removing background...")
				err := proc.ProcessURL(ctx, src)
				stop()
				if err != nil {
					return err
				}
				logger.Printf("Saved %s\n", bria.OutputName(src))
				return nil

			default:
				info, err := os.Stat(src)
				if err != nil {
					return err
				}
				if info.IsDir() {
					stats, err := proc.ProcessFolder(ctx, src)
					if err != nil {
						return err
					}
					return reportStats(cmd, stats)
				}

				stop := startSpinner("Removing background...")
				err = proc.ProcessFile(ctx, src)
				stop()
				if err != nil {
					return err
				}
				logger.Printf("Saved %s\n", bria.OutputName(src))
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bria API token")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: next to each source)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing results instead of skipping")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent uploads for batches (default from config)")
	cmd.Flags().BoolVar(&urlFile, "url-file", false, "Treat the source as a file of image URLs")
	return cmd
}

func reportStats(cmd *cobra.Command, stats bria.Stats) error {
	logger := log.FromContext(cmd.Context())
	logger.Printf("Processed %d images: %d succeeded, %d failed\n",
		stats.Total, stats.Succeeded, stats.Failed)
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d images failed", stats.Failed, stats.Total)
	}
	return nil
}

func newBriaWatchCmd() *cobra.Command {
	var (
		token     string
		outputDir string
		overwrite bool
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a folder and process images as they appear",
		Args:  cobra.ExactArgs(1),
		Long: `Watch a folder and remove the background of every image dropped
into it. Runs until interrupted.`,
		Example: `  dk bria watch ~/Desktop/drop
  dk bria watch ./in -o ./out --overwrite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			info, err := os.Stat(dir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("not a directory: %s", dir)
			}

			proc, err := newProcessor(token, outputDir, overwrite, workers)
			if err != nil {
				return err
			}

			err = proc.Watch(cmd.Context(), dir)
			if errors.Is(err, context.Canceled) {
				// Ctrl+C is the normal way to stop watching.
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bria API token")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: the watched folder)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing results instead of skipping")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent uploads (default from config)")
	return cmd
}

package magick

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/funnyzak/dk/internal/log"
)

// BatchStats summarizes a folder run.
type BatchStats struct {
	Total     int
	Succeeded int
	Failed    int
}

var batchExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
}

const overlaySuffix = "_overlay"

// OverlayOutputName turns dir/photo.jpg into photo_overlay.jpg, placed
// in outputDir (or next to the background when outputDir is empty).
func OverlayOutputName(background, outputDir string) string {
	base := filepath.Base(background)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + overlaySuffix + ext
	if outputDir == "" {
		outputDir = filepath.Dir(background)
	}
	return filepath.Join(outputDir, name)
}

// CollectBackgrounds lists the images in dir that a batch run would
// composite onto, skipping earlier batch outputs.
func CollectBackgrounds(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !batchExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if strings.Contains(name, overlaySuffix) {
			continue
		}
		images = append(images, filepath.Join(dir, name))
	}
	sort.Strings(images)
	return images, nil
}

// OverlayFolder composites the foreground onto every image in dir with
// a bounded worker pool. Per-image failures are logged and counted but
// do not stop the batch; only context cancellation aborts it.
func (r *Runner) OverlayFolder(ctx context.Context, p OverlayParams, dir string, workers int) (BatchStats, error) {
	backgrounds, err := CollectBackgrounds(dir)
	if err != nil {
		return BatchStats{}, err
	}
	if len(backgrounds) == 0 {
		return BatchStats{}, fmt.Errorf("no images found in %s", dir)
	}
	if workers < 1 {
		workers = 1
	}
	if p.Output != "" {
		if err := os.MkdirAll(p.Output, 0755); err != nil {
			return BatchStats{}, err
		}
	}

	l := log.FromContext(ctx)
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, bg := range backgrounds {
		g.Go(func() error {
			item := p
			item.Background = bg
			item.Output = OverlayOutputName(bg, p.Output)
			if err := r.Overlay(gctx, item); err != nil {
				failed.Add(1)
				l.Printf("failed: %s: %v\n", bg, err)
				return nil
			}
			l.Printf("composited %s\n", item.Output)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchStats{}, err
	}

	stats := BatchStats{
		Total:  len(backgrounds),
		Failed: int(failed.Load()),
	}
	stats.Succeeded = stats.Total - stats.Failed
	return stats, nil
}

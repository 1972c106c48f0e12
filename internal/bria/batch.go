package bria

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/funnyzak/dk/internal/log"
)

// Stats summarizes a batch run.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
}

// Processor runs background removal over files, URLs, folders, and URL
// list files.
type Processor struct {
	Client    *Client
	OutputDir string // output directory; "" = next to the source file
	Overwrite bool
	Workers   int
}

// ProcessFile removes the background of one local image and downloads
// the result next to the source (or into OutputDir when set).
func (p *Processor) ProcessFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, use folder mode", path)
	}
	if !IsSupported(path) {
		return fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}

	resultURL, err := p.Client.RemoveFromFile(ctx, path)
	if err != nil {
		return fmt.Errorf("remove background for %s: %w", path, err)
	}

	outDir := p.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	return p.saveResult(ctx, resultURL, filepath.Join(outDir, OutputName(path)))
}

// ProcessURL removes the background of an image URL. OutputDir must be
// set: there is no source directory to default to.
func (p *Processor) ProcessURL(ctx context.Context, imageURL string) error {
	if p.OutputDir == "" {
		return fmt.Errorf("output directory required for URL sources")
	}
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		return fmt.Errorf("invalid image URL: %s", imageURL)
	}

	resultURL, err := p.Client.RemoveFromURL(ctx, imageURL)
	if err != nil {
		return fmt.Errorf("remove background for %s: %w", imageURL, err)
	}
	return p.saveResult(ctx, resultURL, filepath.Join(p.OutputDir, OutputName(imageURL)))
}

func (p *Processor) saveResult(ctx context.Context, resultURL, dest string) error {
	skipped, err := p.Client.Download(ctx, resultURL, dest, p.Overwrite)
	if err != nil {
		return fmt.Errorf("download result: %w", err)
	}
	l := log.FromContext(ctx)
	if skipped {
		l.Printf("skipped existing: %s\n", dest)
		return nil
	}
	l.Printf("saved: %s\n", dest)
	return nil
}

// ProcessFolder walks folder for supported images and processes them with
// a bounded worker pool. Per-item failures are counted, not fatal.
func (p *Processor) ProcessFolder(ctx context.Context, folder string) (Stats, error) {
	files, err := CollectImages(folder)
	if err != nil {
		return Stats{}, err
	}
	return p.processAll(ctx, files, func(ctx context.Context, item string) error {
		return p.ProcessFile(ctx, item)
	})
}

// ProcessURLFile reads one URL per line from path and processes them.
func (p *Processor) ProcessURLFile(ctx context.Context, path string) (Stats, error) {
	urls, err := ReadURLFile(path)
	if err != nil {
		return Stats{}, err
	}
	return p.processAll(ctx, urls, func(ctx context.Context, item string) error {
		return p.ProcessURL(ctx, item)
	})
}

func (p *Processor) processAll(ctx context.Context, items []string, fn func(context.Context, string) error) (Stats, error) {
	l := log.FromContext(ctx)
	total := len(items)
	l.Printf("processing %d items\n", total)

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		g.Go(func() error {
			l.Printf("[%d/%d] %s\n", i+1, total, item)
			if err := fn(gctx, item); err != nil {
				failed.Add(1)
				l.Printf("failed: %v\n", err)
			}
			// Item failures are reported in the summary; only a
			// cancelled context aborts the batch.
			return gctx.Err()
		})
	}

	err := g.Wait()
	stats := Stats{
		Total:     total,
		Failed:    int(failed.Load()),
		Succeeded: total - int(failed.Load()),
	}
	return stats, err
}

// CollectImages returns all supported images under folder, skipping
// previous outputs.
func CollectImages(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("folder not found: %s", folder)
	}

	var files []string
	err = filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsSupported(path) && !IsOutput(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ReadURLFile reads non-empty lines from a URL list file.
// Lines starting with # are comments.
func ReadURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("URL file not found: %s", path)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

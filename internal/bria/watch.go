package bria

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/funnyzak/dk/internal/log"
)

// settleDelay gives the writing process time to finish before upload.
const settleDelay = 500 * time.Millisecond

// Watch processes every supported image dropped into dir until the
// context is cancelled. Own outputs (_rmbg files) are ignored.
func (p *Processor) Watch(ctx context.Context, dir string) error {
	if _, err := CollectImages(dir); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	l := log.FromContext(ctx)
	l.Printf("watching %s (ctrl-c to stop)\n", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !IsSupported(event.Name) || IsOutput(event.Name) {
				continue
			}

			// Let the file finish writing.
			select {
			case <-time.After(settleDelay):
			case <-ctx.Done():
				return ctx.Err()
			}

			l.Printf("new image: %s\n", event.Name)
			if err := p.ProcessFile(ctx, event.Name); err != nil {
				l.Printf("failed: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.Printf("watch error: %v\n", err)
		}
	}
}

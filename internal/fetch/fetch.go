// Package fetch downloads files over HTTP, replacing the original curl
// download aliases.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Progress receives byte counts while a download runs.
// total is -1 when the server does not announce a length.
type Progress func(written, total int64)

// OutputName derives the destination file name: the explicit name when
// given, otherwise the URL path base name, otherwise "download".
func OutputName(rawURL, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); name != "" && name != "/" && name != "." {
			if unescaped, err := url.PathUnescape(name); err == nil {
				return unescaped
			}
			return name
		}
	}
	return "download"
}

// Download fetches rawURL into dest. An existing dest is an error
// unless force is set. Writes go through a .part file that is renamed
// on success, so an interrupted download never leaves a truncated dest.
func Download(ctx context.Context, rawURL, dest string, force bool, progress Progress) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid URL: %s", rawURL)
	}

	if !force {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("file already exists: %s (use --force)", dest)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d: %s", resp.StatusCode, rawURL)
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	var w io.Writer = f
	if progress != nil {
		w = &progressWriter{w: f, total: resp.ContentLength, fn: progress}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}

type progressWriter struct {
	w       io.Writer
	written int64
	total   int64
	fn      Progress
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.written += int64(n)
	pw.fn(pw.written, pw.total)
	return n, err
}

// Describe formats a URL for status messages, trimming long queries.
func Describe(rawURL string) string {
	if idx := strings.Index(rawURL, "?"); idx > 0 {
		return rawURL[:idx]
	}
	return rawURL
}

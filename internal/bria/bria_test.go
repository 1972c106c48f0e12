package bria

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funnyzak/dk/internal/log"
)

func logCtx() context.Context {
	l := log.New(&bytes.Buffer{}, false, false)
	return log.WithLogger(context.Background(), l)
}

// newTestAPI returns a server that accepts uploads at /remove and serves
// a tiny png payload at /result.png.
func newTestAPI(t *testing.T, wantToken string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/remove", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("api_token"); got != wantToken {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"bad token"}`)
			return
		}
		fmt.Fprintf(w, `{"result_url":%q}`, srv.URL+"/result.png")
	})
	mux.HandleFunc("/result.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("PNGDATA"))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("fake image"), 0644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestRemoveFromFile(t *testing.T) {
	t.Parallel()
	srv := newTestAPI(t, "tok")
	c := NewClient("tok", WithEndpoint(srv.URL+"/remove"))

	src := writeImage(t, t.TempDir(), "photo.jpg")
	resultURL, err := c.RemoveFromFile(logCtx(), src)
	if err != nil {
		t.Fatalf("RemoveFromFile = %v, want nil", err)
	}
	if !strings.HasSuffix(resultURL, "/result.png") {
		t.Errorf("result URL = %q, want */result.png", resultURL)
	}
}

func TestRemoveFromFile_BadToken(t *testing.T) {
	t.Parallel()
	srv := newTestAPI(t, "tok")
	c := NewClient("wrong", WithEndpoint(srv.URL+"/remove"))

	src := writeImage(t, t.TempDir(), "photo.jpg")
	_, err := c.RemoveFromFile(logCtx(), src)
	if err == nil {
		t.Fatal("RemoveFromFile(bad token) = nil, want error")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %q, want HTTP status in message", err)
	}
}

func TestRemoveFromURL_MissingResultURL(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"other":"field"}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("tok", WithEndpoint(srv.URL))
	_, err := c.RemoveFromURL(logCtx(), "https://example.com/a.jpg")
	if err == nil || !strings.Contains(err.Error(), "result_url") {
		t.Errorf("RemoveFromURL = %v, want missing result_url error", err)
	}
}

func TestProcessFile_WritesOutput(t *testing.T) {
	t.Parallel()
	srv := newTestAPI(t, "tok")
	dir := t.TempDir()
	src := writeImage(t, dir, "photo.jpg")

	p := &Processor{Client: NewClient("tok", WithEndpoint(srv.URL + "/remove"))}
	if err := p.ProcessFile(logCtx(), src); err != nil {
		t.Fatalf("ProcessFile = %v, want nil", err)
	}

	out := filepath.Join(dir, "photo_rmbg.png")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if string(data) != "PNGDATA" {
		t.Errorf("output content = %q, want %q", data, "PNGDATA")
	}
}

func TestProcessFile_SkipsExisting(t *testing.T) {
	t.Parallel()
	srv := newTestAPI(t, "tok")
	dir := t.TempDir()
	src := writeImage(t, dir, "photo.jpg")

	existing := filepath.Join(dir, "photo_rmbg.png")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	p := &Processor{Client: NewClient("tok", WithEndpoint(srv.URL + "/remove"))}
	if err := p.ProcessFile(logCtx(), src); err != nil {
		t.Fatalf("ProcessFile = %v, want nil", err)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "old" {
		t.Error("existing output was overwritten without --overwrite")
	}
}

func TestProcessFile_Validation(t *testing.T) {
	t.Parallel()
	p := &Processor{Client: NewClient("tok")}

	if err := p.ProcessFile(logCtx(), "/does/not/exist.jpg"); err == nil {
		t.Error("ProcessFile(missing) = nil, want error")
	}

	src := writeImage(t, t.TempDir(), "notes.txt")
	if err := p.ProcessFile(logCtx(), src); err == nil {
		t.Error("ProcessFile(.txt) = nil, want unsupported format error")
	}
}

func TestProcessURL_RequiresOutputDir(t *testing.T) {
	t.Parallel()
	p := &Processor{Client: NewClient("tok")}
	if err := p.ProcessURL(logCtx(), "https://example.com/a.jpg"); err == nil {
		t.Error("ProcessURL without output dir = nil, want error")
	}
}

func TestProcessFolder(t *testing.T) {
	t.Parallel()
	srv := newTestAPI(t, "tok")
	dir := t.TempDir()
	writeImage(t, dir, "a.jpg")
	writeImage(t, dir, "b.png")
	writeImage(t, dir, "skip.txt")
	writeImage(t, dir, "done_rmbg.png")

	p := &Processor{
		Client:  NewClient("tok", WithEndpoint(srv.URL + "/remove")),
		Workers: 2,
	}
	stats, err := p.ProcessFolder(logCtx(), dir)
	if err != nil {
		t.Fatalf("ProcessFolder = %v, want nil", err)
	}
	if stats.Total != 2 || stats.Succeeded != 2 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want 2 total, 2 succeeded", stats)
	}
}

func TestProcessFolder_CountsFailures(t *testing.T) {
	t.Parallel()
	srv := newTestAPI(t, "tok")
	dir := t.TempDir()
	writeImage(t, dir, "good.jpg")
	writeImage(t, dir, "bad.jpg")

	// Wrong token makes every API call fail.
	p := &Processor{
		Client:  NewClient("nope", WithEndpoint(srv.URL + "/remove")),
		Workers: 1,
	}
	stats, err := p.ProcessFolder(logCtx(), dir)
	if err != nil {
		t.Fatalf("ProcessFolder = %v, want nil (item failures are counted)", err)
	}
	if stats.Failed != 2 {
		t.Errorf("stats.Failed = %d, want 2", stats.Failed)
	}
}

func TestOutputName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		want   string
	}{
		{"photo.jpg", "photo_rmbg.png"},
		{"/some/dir/image.PNG", "image_rmbg.png"},
		{"https://example.com/pics/cat.webp", "cat_rmbg.png"},
		{"https://example.com/pics/my%20cat.jpg", "my cat_rmbg.png"},
	}
	for _, tt := range tests {
		if got := OutputName(tt.source); got != tt.want {
			t.Errorf("OutputName(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}

	// Extension-less URLs get a generated name.
	got := OutputName("https://example.com/download")
	if !strings.HasPrefix(got, "url_image_") || !strings.HasSuffix(got, "_rmbg.png") {
		t.Errorf("OutputName(no extension) = %q, want url_image_*_rmbg.png", got)
	}
}

func TestIsOutput(t *testing.T) {
	t.Parallel()
	if !IsOutput("/dir/photo_rmbg.png") {
		t.Error("IsOutput(photo_rmbg.png) = false, want true")
	}
	if IsOutput("/dir/photo.png") {
		t.Error("IsOutput(photo.png) = true, want false")
	}
}

func TestReadURLFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "https://a.com/1.jpg\n\n# comment\nhttps://b.com/2.png\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write urls: %v", err)
	}

	urls, err := ReadURLFile(path)
	if err != nil {
		t.Fatalf("ReadURLFile = %v, want nil", err)
	}
	if len(urls) != 2 || urls[0] != "https://a.com/1.jpg" || urls[1] != "https://b.com/2.png" {
		t.Errorf("ReadURLFile = %v, want two URLs", urls)
	}

	if _, err := ReadURLFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("ReadURLFile(missing) = nil, want error")
	}
}

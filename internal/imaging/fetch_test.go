package imaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchDownloadsToUniquePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	fetcher, err := NewFetcher(dir, nil)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	first, err := fetcher.Fetch(context.Background(), server.URL+"/covers/issue.png", KindCover)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	second, err := fetcher.Fetch(context.Background(), server.URL+"/covers/issue.png", KindCover)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if first == second {
		t.Errorf("repeated fetches returned the same path %q", first)
	}
	if filepath.Ext(first) != ".png" {
		t.Errorf("path extension = %q, want .png", filepath.Ext(first))
	}
	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("download content = %q", data)
	}
}

func TestFetchSkipsPlaceholdersAndBareURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request for %s", r.URL.Path)
	}))
	defer server.Close()

	fetcher, err := NewFetcher(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	tests := []string{
		"",
		server.URL + "/images/6373148-blank.png",
		server.URL + "/images/img_broken.png",
		server.URL + "/images/no-extension",
	}
	for _, rawURL := range tests {
		got, err := fetcher.Fetch(context.Background(), rawURL, KindResource)
		if err != nil {
			t.Errorf("Fetch(%q) error: %v", rawURL, err)
		}
		if got != "" {
			t.Errorf("Fetch(%q) = %q, want empty path", rawURL, got)
		}
	}
}

type recordingResizer struct {
	paths []string
	kinds []Kind
}

func (r *recordingResizer) Resize(path string, kind Kind) error {
	r.paths = append(r.paths, path)
	r.kinds = append(r.kinds, kind)
	return nil
}

func TestFetchAppliesResizer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpg-bytes"))
	}))
	defer server.Close()

	fetcher, err := NewFetcher(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	resizer := &recordingResizer{}
	fetcher.WithResizer(resizer)

	path, err := fetcher.Fetch(context.Background(), server.URL+"/portrait.JPG", KindCreator)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if filepath.Ext(path) != ".jpg" {
		t.Errorf("extension = %q, want lowercased .jpg", filepath.Ext(path))
	}
	if len(resizer.paths) != 1 || resizer.paths[0] != path || resizer.kinds[0] != KindCreator {
		t.Errorf("resizer saw %v / %v", resizer.paths, resizer.kinds)
	}
}

// Package imaging downloads entity images into a working directory so they
// can be attached to multipart create requests.
package imaging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"longbox/internal/logging"
)

// Kind selects the sizing treatment applied after download.
type Kind int

const (
	KindCover Kind = iota
	KindResource
	KindCreator
)

// Upstream placeholder images. Uploading these would attach a generic blank
// frame to the destination record, so they are treated as "no image".
var placeholderNames = map[string]bool{
	"6373148-blank.png": true,
	"img_broken.png":    true,
}

// Resizer adjusts a downloaded image in place for its target slot.
type Resizer interface {
	Resize(path string, kind Kind) error
}

// noopResizer leaves downloads untouched.
type noopResizer struct{}

func (noopResizer) Resize(string, Kind) error { return nil }

// Fetcher downloads images into a temp directory with collision-free names.
type Fetcher struct {
	dir        string
	httpClient *http.Client
	resizer    Resizer
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher writing into dir.
func NewFetcher(dir string, logger *slog.Logger) (*Fetcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("image directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fetcher{
		dir:        dir,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		resizer:    noopResizer{},
		logger:     logging.WithComponent(logger, "imaging"),
	}, nil
}

// WithResizer replaces the default pass-through resizer.
func (f *Fetcher) WithResizer(resizer Resizer) *Fetcher {
	if resizer != nil {
		f.resizer = resizer
	}
	return f
}

// Fetch downloads rawURL and returns the local path. Placeholder images and
// URLs without a usable file extension yield an empty path with no error, so
// callers simply proceed without an image.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, kind Kind) (string, error) {
	if rawURL == "" {
		return "", nil
	}
	base := path.Base(rawURL)
	if placeholderNames[base] {
		f.logger.Debug("skipping placeholder image", logging.String("url", rawURL))
		return "", nil
	}
	ext := path.Ext(base)
	if ext == "" {
		f.logger.Debug("skipping image without extension", logging.String("url", rawURL))
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	localPath := filepath.Join(f.dir, uuid.NewString()+strings.ToLower(ext))
	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(localPath)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	if err := f.resizer.Resize(localPath, kind); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("resize image: %w", err)
	}
	return localPath, nil
}

// Package fetch downloads the published catalog archive and unpacks its
// SQL scripts.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ErrStalled is returned when the download makes no progress for longer
// than the stall timeout.
var ErrStalled = errors.New("download stalled")

// StallError reports a download abandoned by the stall timeout. It matches
// ErrStalled with errors.Is.
type StallError struct {
	URL     string
	Timeout time.Duration
	Err     error
}

func (e *StallError) Error() string {
	return fmt.Sprintf("download %s: no data for %v: %v", e.URL, e.Timeout, e.Err)
}

func (e *StallError) Is(target error) bool { return target == ErrStalled }

func (e *StallError) Unwrap() error { return e.Err }

// StatusError reports a non-200 response.
type StatusError struct {
	URL    string
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download %s: bad status: %s", e.URL, e.Status)
}

// Downloader fetches an archive into a temporary file.
type Downloader struct {
	client       *http.Client
	stallTimeout time.Duration
	tempDir      string

	// Progress receives the progress bar. Nil hides it.
	Progress io.Writer
	Logger   *zap.Logger
}

// New returns a Downloader whose requests are bounded by timeout and abandoned
// after stall without any bytes received. Zero disables either bound.
func New(timeout, stall time.Duration) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: timeout,
		},
		stallTimeout: stall,
	}
}

// WithTempDir sets where downloaded archives are written. Empty means the
// system temp directory.
func (d *Downloader) WithTempDir(dir string) *Downloader {
	d.tempDir = dir
	return d
}

func (d *Downloader) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Download saves url to a temporary file and returns its path. The caller
// removes the file.
func (d *Downloader) Download(ctx context.Context, url string) (string, error) {
	log := d.logger().With(zap.String("url", url))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	guard := newStallGuard(d.stallTimeout, cancel)
	defer guard.stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	log.Info("downloading archive")
	resp, err := d.client.Do(req)
	if err != nil {
		return "", guard.wrap(url, fmt.Errorf("failed to download: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: url, Status: resp.Status}
	}

	out, err := os.CreateTemp(d.tempDir, "satcat-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() {
		out.Close()
		os.Remove(out.Name())
	}

	bar := d.progressBar(resp.ContentLength)
	n, err := io.Copy(io.MultiWriter(out, bar), guard.reader(resp.Body))
	if err != nil {
		cleanup()
		err = guard.wrap(url, fmt.Errorf("failed to save archive: %w", err))
		if errors.Is(err, ErrStalled) {
			log.Warn("download stalled", zap.Duration("stall_timeout", d.stallTimeout), zap.Int64("bytes", n))
		}
		return "", err
	}
	_ = bar.Finish()

	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to close archive: %w", err)
	}

	log.Info("downloaded archive", zap.String("path", out.Name()), zap.Int64("bytes", n))
	return out.Name(), nil
}

func (d *Downloader) progressBar(size int64) *progressbar.ProgressBar {
	w := d.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions64(
		size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Downloading catalogs"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	)
}

// Fetch downloads url and extracts the members under prefix into dir.
// It returns the extracted file paths.
func (d *Downloader) Fetch(ctx context.Context, url, prefix, dir string) ([]string, error) {
	archive, err := d.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer os.Remove(archive)

	files, err := Extract(archive, prefix, dir)
	if err != nil {
		return nil, err
	}
	d.logger().Info("extracted archive", zap.String("dir", dir), zap.Int("files", len(files)))
	return files, nil
}

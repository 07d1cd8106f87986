// Package update checks an HTTP endpoint for newer firmware and downloads it.
package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNoUpdate      = errors.New("no update available")
	ErrNotConfigured = errors.New("update url not configured")
)

const (
	versionFile  = "version"
	firmwareFile = "firmware.bin"
)

// Checker compares the running version with the one published at BaseURL.
// BaseURL must point at a directory holding "version" and "firmware.bin".
type Checker struct {
	baseURL  string
	current  string
	dest     string
	client   *http.Client
	logger   *slog.Logger
	progress func(string)
}

type Option func(*Checker)

func WithHTTPClient(c *http.Client) Option {
	return func(ch *Checker) { ch.client = c }
}

// WithProgress receives the status lines shown on the console.
func WithProgress(f func(string)) Option {
	return func(ch *Checker) { ch.progress = f }
}

func New(baseURL, currentVersion, dest string, logger *slog.Logger, opts ...Option) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Checker{
		baseURL:  baseURL,
		current:  currentVersion,
		dest:     dest,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
		progress: func(string) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result describes a completed update.
type Result struct {
	Version string
	Path    string
	Bytes   int64
}

// Check fetches the published version and, when it is newer, downloads the
// firmware image to the destination path. ErrNoUpdate is returned when the
// running version is current.
func (c *Checker) Check(ctx context.Context) (*Result, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	c.progress("[Update] Checking for updates...")

	available, err := c.fetchVersion(ctx)
	if err != nil {
		c.progress("[Update] Failed to connect to update server for version information.")
		return nil, err
	}

	newer, err := Newer(available, c.current)
	if err != nil {
		return nil, err
	}
	if !newer {
		c.progress("[Update] No new firmware updates are available.")
		c.logger.Info("firmware is current", "version", c.current, "available", available)
		return nil, ErrNoUpdate
	}

	c.progress("[Update] New firmware update available. Updating...")
	n, err := c.download(ctx)
	if err != nil {
		c.progress("[Update] Update failed.")
		return nil, err
	}
	c.progress("[Update] Firmware update completed.")
	c.logger.Info("firmware downloaded",
		"version", available,
		"path", c.dest,
		"bytes", n)
	return &Result{Version: available, Path: c.dest, Bytes: n}, nil
}

func (c *Checker) endpoint(name string) (string, error) {
	u, err := url.JoinPath(c.baseURL, name)
	if err != nil {
		return "", fmt.Errorf("invalid update url: %w", err)
	}
	return u, nil
}

func (c *Checker) get(ctx context.Context, name string) (*http.Response, error) {
	u, err := c.endpoint(name)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Firmware-Version", c.current)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", name, resp.StatusCode)
	}
	return resp, nil
}

func (c *Checker) fetchVersion(ctx context.Context) (string, error) {
	resp, err := c.get(ctx, versionFile)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", fmt.Errorf("failed to read version: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

// download writes to a temp file next to dest and renames it into place.
func (c *Checker) download(ctx context.Context) (int64, error) {
	resp, err := c.get(ctx, firmwareFile)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(c.dest), ".firmware-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write firmware: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.dest); err != nil {
		return 0, fmt.Errorf("failed to install firmware: %w", err)
	}
	return n, nil
}

// Newer reports whether version a is greater than b. Versions are dotted
// integers; a bare integer is accepted as well.
func Newer(a, b string) (bool, error) {
	pa, err := parseVersion(a)
	if err != nil {
		return false, err
	}
	pb, err := parseVersion(b)
	if err != nil {
		return false, err
	}
	for i := 0; i < max(len(pa), len(pb)); i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if x != y {
			return x > y, nil
		}
	}
	return false, nil
}

func parseVersion(v string) ([]int, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return nil, fmt.Errorf("invalid version %q", v)
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version %q", v)
		}
		out[i] = n
	}
	return out, nil
}

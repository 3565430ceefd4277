// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads paper PDFs for citation extraction. Downloads
// are validated as PDF documents and optionally cached on disk.
package acquire

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-graph/internal/arxivid"
	"github.com/pdiddy/paper-graph/internal/metrics"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// MaxPDFBytes bounds a single download. Documents sent to the language
// model must stay below its request size limit.
const MaxPDFBytes = 32 << 20

// ErrNotPDF is returned when the downloaded body is not a readable PDF.
var ErrNotPDF = errors.New("not a PDF document")

// Downloader fetches PDF documents over HTTP.
type Downloader struct {
	cfg      types.HTTPConfig
	client   *http.Client
	cacheDir string
	log      zerolog.Logger
}

// NewDownloader returns a Downloader. When cacheDir is non-empty, validated
// documents are kept there and served on later requests for the same URL.
// A nil client uses one with cfg.Timeout.
func NewDownloader(cfg types.HTTPConfig, cacheDir string, client *http.Client, log zerolog.Logger) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Downloader{
		cfg:      cfg,
		client:   client,
		cacheDir: cacheDir,
		log:      log.With().Str("component", "acquire").Logger(),
	}
}

// FetchPDF downloads the document at url and checks that it parses as a PDF
// with at least one page.
func (d *Downloader) FetchPDF(ctx context.Context, url string) (data []byte, err error) {
	if path := d.cachePath(url); path != "" {
		if cached, err := os.ReadFile(path); err == nil {
			d.log.Debug().Str("url", url).Msg("serving PDF from cache")
			return cached, nil
		}
	}

	done := metrics.TimeCall("pdf", "fetch")
	defer func() { done(err == nil) }()

	data, err = d.download(ctx, url)
	if err != nil {
		return nil, err
	}
	pages, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	d.log.Debug().Str("url", url).Int("pages", pages).Int("bytes", len(data)).Msg("downloaded PDF")

	if path := d.cachePath(url); path != "" {
		if err := writeAtomic(path, data); err != nil {
			d.log.Warn().Err(err).Str("path", path).Msg("caching PDF")
		}
	}
	return data, nil
}

// Validate parses data as a PDF and returns its page count.
func Validate(data []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	n := r.NumPage()
	if n < 1 {
		return 0, fmt.Errorf("%w: no pages", ErrNotPDF)
	}
	return n, nil
}

func (d *Downloader) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if d.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", d.cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPDFBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading download: %w", err)
	}
	if len(data) > MaxPDFBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", url, MaxPDFBytes)
	}
	return data, nil
}

// cachePath returns the cache file for url, or "" when caching is off.
// arXiv documents are keyed by identifier, anything else by a URL hash.
func (d *Downloader) cachePath(url string) string {
	if d.cacheDir == "" {
		return ""
	}
	return filepath.Join(d.cacheDir, slug(url)+".pdf")
}

func slug(url string) string {
	if id, ok := arxivid.Extract(url); ok && arxivid.IsPaperURL(url) {
		return strings.ReplaceAll(id, "/", "-")
	}
	h := sha256.Sum256([]byte(url))
	return fmt.Sprintf("url-%x", h[:8])
}

// writeAtomic writes data through a temp file and rename so readers never
// see a partial document.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

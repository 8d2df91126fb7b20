// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads gazette PDFs over HTTP so they can be extracted
// like local files.
package fetch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pdiddy/gazette-vacancies/internal/logging"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 and 503 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 4

// ErrNotPDF is returned when a downloaded body does not start with the PDF
// magic bytes.
var ErrNotPDF = errors.New("response is not a PDF")

var pdfMagic = []byte("%PDF-")

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// DoWithRetry executes req and retries on 429 and 503 with exponential
// backoff starting at RetryBaseDelay. A Retry-After header given in
// seconds overrides the computed delay. When maxRetries is 0 the default
// is used. If ctx is cancelled during a wait the function returns
// ctx.Err(). After exhausting retries the last response is returned so the
// caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, log logging.Logger) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if log == nil {
		log = logging.Noop()
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if d, ok := retryAfter(resp); ok {
			backoff = d
		}
		log.Warn("server busy, retrying",
			"url", req.URL.String(), "status", resp.StatusCode,
			"backoff", backoff, "attempt", attempt+1, "max_retries", maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func retryAfter(resp *http.Response) (time.Duration, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	var secs int
	if _, err := fmt.Sscanf(v, "%d", &secs); err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// Downloader fetches PDFs into temporary files.
type Downloader struct {
	Client     *http.Client
	MaxRetries int
	Log        logging.Logger
}

// NewDownloader returns a Downloader with a client timeout suited to large
// gazette issues.
func NewDownloader(log logging.Logger) *Downloader {
	return &Downloader{
		Client: &http.Client{Timeout: 5 * time.Minute},
		Log:    log,
	}
}

// Download fetches rawURL into a new file in dir (the system temp
// directory when dir is empty) and returns its path. The caller removes
// the file. Non-2xx responses and bodies that are not PDFs are errors and
// leave no file behind.
func (d *Downloader) Download(ctx context.Context, rawURL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/pdf")

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := DoWithRetry(ctx, client, req, d.MaxRetries, d.Log)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("downloading %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body := bufio.NewReader(resp.Body)
	head, err := body.Peek(len(pdfMagic))
	if err != nil || !bytes.Equal(head, pdfMagic) {
		return "", fmt.Errorf("downloading %s: %w", rawURL, ErrNotPDF)
	}

	f, err := os.CreateTemp(dir, "gazette-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}

	if d.Log != nil {
		d.Log.Info("downloaded gazette", "url", rawURL, "bytes", n, "path", f.Name())
	}
	return f.Name(), nil
}

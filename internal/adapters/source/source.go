// Package source acquires raw match log lines from disk or from logs.tf.
package source

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const maxLineBytes = 1 << 20

// Source yields the lines of one match log.
type Source interface {
	Lines(ctx context.Context) ([]string, error)
	Name() string
}

// File reads a log from a local path.
type File struct {
	Path string
}

func (f File) Name() string { return f.Path }

func (f File) Lines(ctx context.Context) ([]string, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer fh.Close()
	return scan(ctx, fh)
}

// Reader adapts an already open stream, e.g. stdin or a request body.
type Reader struct {
	Label string
	R     io.Reader
}

func (r Reader) Name() string { return r.Label }

func (r Reader) Lines(ctx context.Context) ([]string, error) {
	return scan(ctx, r.R)
}

// Download fetches a zipped log by id from a logs.tf compatible host.
type Download struct {
	BaseURL string
	LogID   string
	Client  *http.Client
	Timeout time.Duration
}

func (d Download) Name() string { return "log " + d.LogID }

// URL is the archive location, <base>/log_<id>.log.zip.
func (d Download) URL() string {
	return strings.TrimRight(d.BaseURL, "/") + "/log_" + d.LogID + ".log.zip"
}

// EntryName is the log file inside the archive.
func (d Download) EntryName() string {
	return "log_" + d.LogID + ".log"
}

func (d Download) Lines(ctx context.Context) ([]string, error) {
	if d.LogID == "" {
		return nil, fmt.Errorf("%w: empty log id", ErrFetch)
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrFetch, d.URL(), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	entry, err := zr.Open(d.EntryName())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArchive, d.EntryName(), err)
	}
	defer entry.Close()
	return scan(ctx, entry)
}

func scan(ctx context.Context, r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var lines []string
	for sc.Scan() {
		if len(lines)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return lines, nil
}

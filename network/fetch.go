package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/util"
)

// ErrStatus matches every *StatusError.
var ErrStatus = errors.New("unexpected response status")

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// partSuffix marks a download that has not been moved into place yet.
const partSuffix = ".part"

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	if c.OnRequest != nil {
		c.OnRequest(url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	return resp, nil
}

// Text fetches a document and returns its body.
func (c *Client) Text(ctx context.Context, url string) (string, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(body), nil
}

// Download streams url into path, replacing any existing file.
// The body is written to a sibling ".part" file first so path only ever holds a complete download.
func (c *Client) Download(ctx context.Context, url, path string) (int64, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer util.Ignore(resp.Body.Close)

	fs := filesystem.API()
	part := path + partSuffix

	f, err := fs.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", filepath.Base(part), err)
	}

	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = fs.Remove(part)
		return 0, fmt.Errorf("download %s: %w", url, err)
	}

	if err := fs.Rename(part, path); err != nil {
		_ = fs.Remove(part)
		return 0, err
	}
	return n, nil
}

// IsPartial reports whether name is an unfinished download.
func IsPartial(name string) bool {
	return filepath.Ext(name) == partSuffix
}

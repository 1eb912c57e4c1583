package resize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// ErrFetch is returned when a remote image cannot be downloaded.
var ErrFetch = errors.New("fetch failed")

// DefaultFetchLimit caps the size of a downloaded image.
const DefaultFetchLimit int64 = 32 << 20

// userAgentTransport wraps an http.RoundTripper and sets the User-Agent header.
type userAgentTransport struct {
	http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("User-Agent", t.userAgent)
	return t.RoundTripper.RoundTrip(cloned)
}

// Fetcher downloads source images over HTTP.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher returns a Fetcher identifying itself as userAgent.
// A nil base uses http.DefaultTransport.
func NewFetcher(userAgent string, base http.RoundTripper, maxBytes int64) *Fetcher {
	if base == nil {
		base = http.DefaultTransport
	}
	if maxBytes <= 0 {
		maxBytes = DefaultFetchLimit
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   60 * time.Second,
			Transport: &userAgentTransport{RoundTripper: base, userAgent: userAgent},
		},
		maxBytes: maxBytes,
	}
}

// IsRemote reports whether src is an http or https URL.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Fetch downloads and decodes the image at rawURL. The returned name is the
// last path element of the URL, suitable for deriving an output file name.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (image.Image, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", fmt.Errorf("%w: invalid URL %q", ErrFetch, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: %s returned status %d", ErrFetch, u.Host, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, f.maxBytes+1)
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, "", fmt.Errorf("%w: image exceeds %d bytes", ErrFetch, f.maxBytes)
	}

	img, format, err := DecodeImage(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return img, remoteName(u, format), nil
}

// remoteName derives a file name from the URL path, falling back to "image"
// and adding the decoded format's extension when the path has none.
func remoteName(u *url.URL, format string) string {
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	if path.Ext(name) == "" && format != "" {
		name += "." + format
	}
	return name
}

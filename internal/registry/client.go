package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/singleflight"
)

const (
	// OriginalRegistry is the canonical upstream npm registry.
	OriginalRegistry = "https://registry.npmjs.org"
	// MirrorRegistry is the mirror used when the original is not requested.
	MirrorRegistry = "https://registry.npmmirror.com"

	// DefaultTimeout bounds a single registry request end to end.
	DefaultTimeout = 10 * time.Second

	maxPackumentBytes = 64 << 20
)

// DefaultRegistry selects the upstream registry when useOriginal is true and
// the mirror otherwise.
func DefaultRegistry(useOriginal bool) string {
	if useOriginal {
		return OriginalRegistry
	}
	return MirrorRegistry
}

// Client reads package documents from an npm-compatible registry. It does
// not retry; concurrent reads of the same document share one request, which
// outlives any single caller's cancellation up to DefaultTimeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     logr.Logger
	sf         singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL sets the registry used when a call passes an empty URL.
func WithBaseURL(u string) Option {
	return func(cl *Client) {
		cl.baseURL = u
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient returns a Client for the mirror registry with a bounded-timeout
// transport, adjusted by opts.
func NewClient(opts ...Option) *Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: DefaultTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	c := &Client{
		baseURL:    DefaultRegistry(false),
		httpClient: &http.Client{Transport: tr, Timeout: DefaultTimeout},
		userAgent:  "magic-cli",
		logger:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchVersions returns the version manifest of name from registryURL, or
// from the client's base URL when registryURL is empty.
func (c *Client) FetchVersions(ctx context.Context, name, registryURL string) (VersionManifest, error) {
	doc, err := c.FetchPackument(ctx, name, registryURL)
	if err != nil {
		return nil, err
	}
	if doc.Versions == nil {
		return VersionManifest{}, nil
	}
	return doc.Versions, nil
}

// FetchPackument returns the full registry document of name. Only a 200
// response yields data; anything else is an *UnavailableError.
func (c *Client) FetchPackument(ctx context.Context, name, registryURL string) (*Packument, error) {
	if registryURL == "" {
		registryURL = c.baseURL
	}
	u := strings.TrimRight(registryURL, "/") + "/" + name

	ch := c.sf.DoChan(u, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTimeout)
		defer cancel()
		return c.get(fetchCtx, name, u)
	})
	select {
	case <-ctx.Done():
		return nil, &UnavailableError{Package: name, URL: u, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.V(1).Info("registry request coalesced", "url", u)
		}
		return res.Val.(*Packument), nil
	}
}

func (c *Client) get(ctx context.Context, name, u string) (*Packument, error) {
	c.logger.V(1).Info("fetching package document", "package", name, "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &UnavailableError{Package: name, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UnavailableError{Package: name, URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &UnavailableError{
			Package:    name,
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var doc Packument
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPackumentBytes)).Decode(&doc); err != nil {
		return nil, &UnavailableError{Package: name, URL: u, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return &doc, nil
}

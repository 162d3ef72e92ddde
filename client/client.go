package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/schemas"
)

const (
	defaultTimeout = 3 * time.Second
	maxBodySize    = 1 << 20
	webfingerTTL   = 10 * time.Minute
)

type Client struct {
	client    *http.Client
	cache     Cache
	userAgent string
	scheme    string
	logger    *zap.Logger
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Scheme used for webfinger lookups; defaults to https.
	Scheme string
	Cache  Cache
	Logger *zap.Logger
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	scheme := opts.Scheme
	if scheme == "" {
		scheme = "https"
	}
	cache := opts.Cache
	if cache == nil {
		cache = NewMemoryCache(webfingerTTL)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := http.Client{
		Timeout: timeout,
	}

	c := &Client{
		client:    &httpClient,
		cache:     cache,
		userAgent: opts.UserAgent,
		scheme:    scheme,
		logger:    logger,
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return http.DefaultTransport.RoundTrip(req)
}

// Fetch retrieves the ActivityStreams document at id.
func (c *Client) Fetch(ctx context.Context, id string) ([]byte, error) {
	c.logger.Debug("fetching object", zap.String("url", id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, id, nil)
	if err != nil {
		return nil, apub.FetchError{URL: id, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", schemas.ActivityJSON+", "+schemas.LDJSON)

	return c.do(req)
}

// Webfinger resolves acct ("user@domain") to the actor's identifier.
func (c *Client) Webfinger(ctx context.Context, acct string) (string, error) {
	acct = strings.TrimPrefix(acct, "acct:")
	acct = strings.TrimPrefix(acct, "@")

	user, domain, ok := strings.Cut(acct, "@")
	if !ok || user == "" || domain == "" {
		return "", apub.InvalidAddressError{Address: acct, Reason: "expected user@domain"}
	}

	cacheKey := "webfinger:" + acct
	if href, found := c.cache.Get(cacheKey); found {
		c.logger.Debug("cache hit for webfinger", zap.String("acct", acct))
		return href, nil
	}

	endpoint := url.URL{
		Scheme:   c.scheme,
		Host:     domain,
		Path:     "/.well-known/webfinger",
		RawQuery: url.Values{"resource": {"acct:" + acct}}.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", apub.FetchError{URL: endpoint.String(), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", schemas.JRDJSON)

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var jrd apub.Webfinger
	if err := json.Unmarshal(body, &jrd); err != nil {
		return "", apub.DecodeError{Err: err}
	}

	for _, link := range jrd.Links {
		if link.Rel != "self" {
			continue
		}
		if link.Type != schemas.ActivityJSON && link.Type != schemas.LDJSON {
			continue
		}
		href, err := apub.ParseAddress(link.Href)
		if err != nil {
			return "", err
		}
		c.cache.Set(cacheKey, href)
		return href, nil
	}

	return "", apub.NotFoundError{Resource: "actor link for " + acct}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	target := req.URL.String()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apub.FetchError{URL: target, Err: fmt.Errorf("failed to perform request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apub.FetchError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, apub.FetchError{URL: target, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if len(body) > maxBodySize {
		return nil, apub.FetchError{URL: target, Err: fmt.Errorf("response body exceeds %d bytes", maxBodySize)}
	}

	return body, nil
}

var _ apub.Fetcher = (*Client)(nil)

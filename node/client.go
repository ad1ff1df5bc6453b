// Package node talks to a node over HTTP: it discovers the node's public key and
// submits signed control envelopes to it, accepting only responses signed by
// that key.
//
// # Trust on first use
//
// The first time a node URL is seen its /identity endpoint is believed
// unconditionally: there is nothing to check it against. That key is then pinned
// for the URL and every later response must be signed by it. An attacker able to
// answer the very first /identity request can impersonate the node. Callers that
// learn the node key out of band should use Client.Pin instead of discovery.
package node

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fiatjaf.com/nostrnode"
	"fiatjaf.com/nostrnode/kvstore"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMaxResponseSize  = 4 << 20
	defaultUserAgent        = "nostrnode/go"
	defaultDiscoveryTimeout = 30 * time.Second
)

// Client is safe for concurrent use. Requests to different nodes share nothing
// but the pin table, which is keyed by node URL.
type Client struct {
	httpClient      *http.Client
	userAgent       string
	maxResponseSize int64
	logger          zerolog.Logger

	// upper bound for a shared identity request, which no single caller can cancel
	discoveryTimeout time.Duration

	identities *nostrnode.MapOf[string, nostrnode.PubKey]
	pins       kvstore.KVStore
	discovery  singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPinStore persists pinned identities so they survive restarts.
func WithPinStore(store kvstore.KVStore) Option {
	return func(c *Client) { c.pins = store }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithMaxResponseSize(n int64) Option {
	return func(c *Client) { c.maxResponseSize = n }
}

// WithDiscoveryTimeout bounds each GET /identity request. Defaults to 30 seconds.
func WithDiscoveryTimeout(d time.Duration) Option {
	return func(c *Client) { c.discoveryTimeout = d }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:        defaultUserAgent,
		maxResponseSize:  defaultMaxResponseSize,
		discoveryTimeout: defaultDiscoveryTimeout,
		logger:           nostrnode.Logger.With().Str("component", "node").Logger(),
		identities:       nostrnode.NewMapOf[string, nostrnode.PubKey](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeURL trims spaces and trailing slashes and adds https:// when no
// scheme is given. Only http and https are accepted.
func NormalizeURL(nodeURL string) (string, error) {
	nodeURL = strings.TrimRight(strings.TrimSpace(nodeURL), "/")
	if nodeURL == "" {
		return "", ErrInvalidURL
	}
	if !strings.Contains(nodeURL, "://") {
		nodeURL = "https://" + nodeURL
	}

	u, err := url.Parse(nodeURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %s", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}

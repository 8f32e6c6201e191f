// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package passwordping is a client for the PasswordPing credential breach API.
//
// A Client is safe for concurrent use. Every call is a single request and
// response; a negative answer (password not breached, unknown username,
// unknown exposure) is a normal result, never an error.
package passwordping

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/passwordping/passwordping-go/pkg/hashing"
	"github.com/rs/zerolog"
	"golang.org/x/net/idna"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultHost    = "api.passwordping.com"
	DefaultTimeout = 30 * time.Second

	serviceName      = "PasswordPing"
	defaultUserAgent = "passwordping-go/1.0"

	passwordsPath   = "/v1/passwords"
	accountsPath    = "/v1/accounts"
	credentialsPath = "/v1/credentials"
	exposuresPath   = "/v1/exposures"

	// Only this much of an unexpected response body ends up in the error.
	maxErrorBody = 1024
)

type Client struct {
	apiKey        string
	secret        string
	baseURL       *url.URL
	authorization string
	userAgent     string
	http          *retryablehttp.Client
	log           zerolog.Logger
	exposures     *exposureCache
}

type options struct {
	timeout    time.Duration
	retryMax   int
	httpClient *http.Client
	logger     zerolog.Logger
	userAgent  string
	cacheItems int64
}

// Option configures a Client.
type Option func(*options)

// WithTimeout bounds each HTTP attempt. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithRetryMax enables up to n retries on connection errors, 429 and 5xx
// responses. The default is no retries.
func WithRetryMax(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.retryMax = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client, for custom transports
// and tests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger used for request tracing. Nothing is logged by
// default.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithExposureCache keeps up to maxItems exposure details in memory. Details
// of a breach do not change once published.
func WithExposureCache(maxItems int64) Option {
	return func(o *options) {
		o.cacheItems = maxItems
	}
}

// NewClient returns a client for host, which may be a bare "host[:port]"
// (HTTPS is used) or a full "http(s)://host[:port]" URL. An empty host selects
// DefaultHost.
func NewClient(apiKey, secret, host string, opts ...Option) (*Client, error) {
	if apiKey == "" || secret == "" {
		return nil, ErrMissingCredentials
	}

	o := &options{
		timeout:   DefaultTimeout,
		logger:    zerolog.Nop(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(o)
	}

	base, err := parseHost(host)
	if err != nil {
		return nil, err
	}

	c := &Client{
		apiKey:        apiKey,
		secret:        secret,
		baseURL:       base,
		authorization: "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey+":"+secret)),
		userAgent:     o.userAgent,
		http:          newHTTPClient(o),
		log:           o.logger,
	}

	if o.cacheItems > 0 {
		if c.exposures, err = newExposureCache(o.cacheItems); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Host returns the API host the client talks to, including a port if one was given.
func (c *Client) Host() string {
	return c.baseURL.Host
}

func (c *Client) APIKey() string {
	return c.apiKey
}

// Close releases the exposure cache, if any.
func (c *Client) Close() {
	if c.exposures != nil {
		c.exposures.close()
	}
}

// CalcPasswordHash computes the hash of password in format t. See hashing.Calc.
func (c *Client) CalcPasswordHash(t hashing.PasswordType, password, salt string) (string, error) {
	return hashing.Calc(t, password, salt)
}

func parseHost(host string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		host = DefaultHost
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHost, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidHost, u.Scheme)
	}

	name := u.Hostname()
	if name == "" {
		return nil, fmt.Errorf("%w: %q has no host name", ErrInvalidHost, host)
	}

	if net.ParseIP(name) == nil {
		ascii, err := idna.Lookup.ToASCII(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidHost, err)
		}
		if port := u.Port(); port != "" {
			u.Host = net.JoinHostPort(ascii, port)
		} else {
			u.Host = ascii
		}
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil

	return u, nil
}

// get issues a GET on path. A 200 body is decoded into out when out is not
// nil; a 404 reports found == false. Anything else is a TransportError.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) (found bool, err error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawQuery = query.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, newTransportError(err)
	}

	req.Header.Set("Authorization", c.authorization)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("path", path).Msg("request failed")
		return false, newTransportError(err)
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn().Err(err).Str("path", path).Msg("error closing response body")
		}
	}(res.Body)

	c.log.Debug().
		Str("path", path).
		Int("status", res.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request complete")

	switch res.StatusCode {
	case http.StatusOK:
		if out == nil {
			_, _ = io.Copy(io.Discard, res.Body)
			return true, nil
		}
		if err = json.NewDecoder(res.Body).Decode(out); err != nil {
			return false, &TransportError{StatusCode: res.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
		}
		return true, nil
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, res.Body)
		return false, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return false, newStatusError(res.StatusCode, strings.TrimSpace(string(body)))
	}
}

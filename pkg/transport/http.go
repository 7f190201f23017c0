package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/envelope"
)

// DefaultTimeout bounds a call when no Client is supplied.
const DefaultTimeout = 5 * time.Second

// maxBody caps how much of a reply is read.
const maxBody = 32 << 20

var (
	_ Transport = (*HTTP)(nil)
	_ Fetcher   = (*HTTP)(nil)
)

// HTTP is the live network transport. The zero value is ready to use.
type HTTP struct {
	Client  *http.Client      // HTTP client; falls back to a client with Timeout.
	Timeout time.Duration     // Timeout of the default client (default: DefaultTimeout).
	Headers map[string]string // Extra headers applied to every request.

	clientOnce    sync.Once
	defaultClient *http.Client
}

// NewHTTP creates an HTTP transport. A nil client falls back to a default
// client with DefaultTimeout at call time.
func NewHTTP(client *http.Client) *HTTP {
	return &HTTP{Client: client}
}

// httpClient returns the configured client or a cached default client.
func (h *HTTP) httpClient() *http.Client {
	if h.Client != nil {
		return h.Client
	}

	h.clientOnce.Do(func() {
		timeout := h.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		h.defaultClient = &http.Client{Timeout: timeout}
	})

	return h.defaultClient
}

// NewRequest builds a GET request for params with the custom headers applied.
func (h *HTTP) NewRequest(ctx context.Context, server *url.URL, params url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, Endpoint(server, params), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/xml, text/xml")

	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Fetch sends the request and returns the reply body. Network failures,
// timeouts, and non-2xx replies are reported as *apierr.TransportError.
func (h *HTTP) Fetch(ctx context.Context, server *url.URL, params url.Values) ([]byte, error) {
	// Reported URLs never carry the password or token.
	where := Endpoint(server, Redact(params))

	req, err := h.NewRequest(ctx, server, params)
	if err != nil {
		return nil, &apierr.TransportError{URL: where, Err: err}
	}

	resp, err := h.httpClient().Do(req) //nolint:gosec // URL is built from the configured server address.
	if err != nil {
		return nil, &apierr.TransportError{URL: where, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &apierr.TransportError{
			URL:        where,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &apierr.TransportError{URL: where, Err: fmt.Errorf("read body: %w", err)}
	}

	return body, nil
}

// Call implements Transport.
func (h *HTTP) Call(ctx context.Context, server *url.URL, params url.Values) (*envelope.Envelope, error) {
	body, err := h.Fetch(ctx, server, params)
	if err != nil {
		return nil, err
	}

	return envelope.Parse(body)
}

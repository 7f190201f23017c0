// Package transport turns a logical AdderLink API call into a parsed reply
// envelope. HTTP talks to a live AIM server; Fixture serves canned replies
// from a directory for offline use. Both feed the same envelope parser.
package transport

import (
	"context"
	"net/url"
	"strings"

	"github.com/mjiggidy/adderlib/pkg/envelope"
)

// APIPath is the fixed endpoint every call is sent to.
const APIPath = "/api/"

// Transport executes one API call against server. params always carries
// "v" and "method".
type Transport interface {
	Call(ctx context.Context, server *url.URL, params url.Values) (*envelope.Envelope, error)
}

// Fetcher returns the raw reply body for one API call.
type Fetcher interface {
	Fetch(ctx context.Context, server *url.URL, params url.Values) ([]byte, error)
}

// Func adapts a plain function to the Transport interface.
type Func func(ctx context.Context, server *url.URL, params url.Values) (*envelope.Envelope, error)

// Call calls the underlying function.
func (f Func) Call(ctx context.Context, server *url.URL, params url.Values) (*envelope.Envelope, error) {
	return f(ctx, server, params)
}

// Endpoint resolves the request URL for params against server. Any path on
// server is replaced by APIPath.
func Endpoint(server *url.URL, params url.Values) string {
	u := url.URL{Scheme: "http", Path: APIPath}
	if server != nil {
		u.Scheme = server.Scheme
		u.User = server.User
		u.Host = server.Host
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}
	u.RawQuery = params.Encode()

	return u.String()
}

// FixtureNames returns the reply file names for params in lookup order. A call
// with a device_type discriminator prefers "<method>_<device_type>.xml" and
// falls back to "<method>.xml". It returns nil when params has no method.
func FixtureNames(params url.Values) []string {
	method := strings.TrimSpace(params.Get("method"))
	if method == "" {
		return nil
	}

	names := make([]string, 0, 2)
	if dt := strings.TrimSpace(params.Get("device_type")); dt != "" {
		names = append(names, method+"_"+dt+".xml")
	}

	return append(names, method+".xml")
}

var secretParams = []string{"password", "token"}

// Redact returns a copy of params with credentials masked, for logging.
func Redact(params url.Values) url.Values {
	out := make(url.Values, len(params))
	for k, v := range params {
		out[k] = append([]string(nil), v...)
	}

	for _, k := range secretParams {
		if out.Has(k) {
			out.Set(k, "***")
		}
	}

	return out
}

// Package adder is the client for the AdderLink Infinity Manager (AIM) API.
// An API owns the session user, the transport, and the API version; it builds
// the parameters of each call, sends them through the transport, and turns
// the reply into domain values or typed errors from package apierr.
//
// An API is meant to have a single owner. Calls are synchronous and must not
// be issued concurrently on the same API.
package adder

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/envelope"
	"github.com/mjiggidy/adderlib/pkg/transport"
	"github.com/mjiggidy/adderlib/pkg/user"
)

// DefaultAPIVersion is the API version sent when none is configured.
const DefaultAPIVersion = 8

// API talks to one AIM server.
type API struct {
	server    *url.URL
	transport transport.Transport
	user      *user.User
	version   int
	log       *slog.Logger
}

// Option configures an API.
type Option func(*API)

// WithTransport sets the transport. The default is a live HTTP transport.
func WithTransport(t transport.Transport) Option {
	return func(a *API) { a.transport = t }
}

// WithUser sets the session user. The default is a new logged-out user.
func WithUser(u *user.User) Option {
	return func(a *API) { a.user = u }
}

// WithAPIVersion sets the API version sent with every call.
func WithAPIVersion(v int) Option {
	return func(a *API) { a.version = v }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) { a.log = log }
}

// New creates a client for the server at address. An address without a
// scheme, such as "aim.local:8080", is treated as http.
func New(address string, opts ...Option) (*API, error) {
	server, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}

	a := &API{
		server:  server,
		version: DefaultAPIVersion,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.transport == nil {
		a.transport = transport.NewHTTP(nil)
	}
	if a.user == nil {
		a.user = user.New()
	}
	if a.version <= 0 {
		return nil, &apierr.ValidationError{Field: "api version", Reason: "must be positive, got " + strconv.Itoa(a.version)}
	}
	if a.log == nil {
		return nil, &apierr.ValidationError{Field: "logger", Reason: "must not be nil"}
	}

	return a, nil
}

// ParseAddress normalises a server address. A missing scheme defaults to
// http; anything after the host is dropped because every call goes to the
// fixed API path.
func ParseAddress(address string) (*url.URL, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, &apierr.ValidationError{Field: "server address", Reason: "must not be empty"}
	}

	if !strings.Contains(address, "//") {
		address = "//" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return nil, &apierr.ValidationError{Field: "server address", Reason: err.Error()}
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}
	if u.Host == "" {
		return nil, &apierr.ValidationError{Field: "server address", Reason: "no host in " + strconv.Quote(address)}
	}

	return &url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host}, nil
}

// Server returns the normalised server address.
func (a *API) Server() *url.URL {
	u := *a.server
	return &u
}

// User returns the session user.
func (a *API) User() *user.User { return a.user }

// Transport returns the configured transport.
func (a *API) Transport() transport.Transport { return a.transport }

// APIVersion returns the API version sent with every call.
func (a *API) APIVersion() int { return a.version }

// SetTransport replaces the transport.
func (a *API) SetTransport(t transport.Transport) error {
	if t == nil {
		return &apierr.ValidationError{Field: "transport", Reason: "must not be nil"}
	}
	a.transport = t

	return nil
}

// SetUser replaces the session user.
func (a *API) SetUser(u *user.User) error {
	if u == nil {
		return &apierr.ValidationError{Field: "user", Reason: "must not be nil"}
	}
	a.user = u

	return nil
}

// SetAPIVersion changes the API version sent with every call.
func (a *API) SetAPIVersion(v int) error {
	if v <= 0 {
		return &apierr.ValidationError{Field: "api version", Reason: "must be positive, got " + strconv.Itoa(v)}
	}
	a.version = v

	return nil
}

// params starts the parameter set of a call.
func (a *API) params(method string) url.Values {
	p := url.Values{}
	p.Set("v", strconv.Itoa(a.version))
	p.Set("method", method)

	return p
}

// authParams starts the parameter set of a call that needs the session token.
func (a *API) authParams(method string) url.Values {
	p := a.params(method)
	p.Set("token", a.user.Token())

	return p
}

// do sends params and interprets the reply. A reply with success set is
// returned; one with an errors block becomes *apierr.RequestError carrying
// the first fault; anything else is *apierr.UnknownResponseError.
func (a *API) do(ctx context.Context, params url.Values) (*envelope.Envelope, error) {
	method := params.Get("method")

	a.log.DebugContext(ctx, "adder call", "method", method, "server", a.server.Host)

	env, err := a.transport.Call(ctx, a.server, params)
	if err != nil {
		return nil, fmt.Errorf("adder: %s: %w", method, err)
	}

	return env, Check(method, env)
}

// Check classifies a parsed reply for method.
func Check(method string, env *envelope.Envelope) error {
	if env == nil {
		return &apierr.UnknownResponseError{Method: method, Detail: "transport returned no envelope"}
	}
	if env.Success() {
		return nil
	}

	if faults := env.Errors(); len(faults) > 0 {
		return &apierr.RequestError{Method: method, Code: faults[0].Code, Message: faults[0].Message}
	}

	return &apierr.UnknownResponseError{Method: method, Detail: "reply has neither success nor errors"}
}

// exec sends params and discards the payload of a successful reply.
func (a *API) exec(ctx context.Context, params url.Values) error {
	_, err := a.do(ctx, params)
	return err
}

// records returns a single-pass sequence that wraps each record at path with
// wrap and yields those keep accepts. The request has already been made; only
// the wrapping is deferred.
func records[T any](env *envelope.Envelope, path []string, wrap func(map[string]string) T, keep func(T) bool) iter.Seq[T] {
	nodes := env.Records(path...)
	consumed := false

	return func(yield func(T) bool) {
		if consumed {
			return
		}
		consumed = true

		for _, n := range nodes {
			v := wrap(n.Flatten())
			if keep != nil && !keep(v) {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Collect drains seq into a slice.
func Collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}

	return out
}

// First returns the first value of seq.
func First[T any](seq iter.Seq[T]) (T, bool) {
	for v := range seq {
		return v, true
	}

	var zero T

	return zero, false
}

// matchAny returns a filter accepting values whose key is in want, or nil
// when want is empty.
func matchAny[T any](want []string, key func(T) string) func(T) bool {
	if len(want) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(want))
	for _, w := range want {
		set[w] = struct{}{}
	}

	return func(v T) bool {
		_, ok := set[key(v)]
		return ok
	}
}

// isNil reports whether v is nil or a nil pointer held in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// requireID rejects an entity that has no id before anything is sent.
func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return &apierr.ValidationError{Field: field, Reason: "has no id"}
	}

	return nil
}

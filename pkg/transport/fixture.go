package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/envelope"
)

var _ Transport = (*Fixture)(nil)

// FixtureConfig configures a Fixture transport.
type FixtureConfig struct {
	Dir     string       // Directory of reply files. Ignored when FS is set.
	FS      fs.FS        // Filesystem of reply files.
	Verbose bool         // Log each resolved call at info level.
	Logger  *slog.Logger // Destination for verbose output; defaults to slog.Default.
}

// Fixture serves canned replies, one file per method, for offline use.
type Fixture struct {
	fsys    fs.FS
	label   string
	verbose bool
	log     *slog.Logger
}

// NewFixture creates a fixture transport. Either cfg.FS or cfg.Dir must be set.
func NewFixture(cfg FixtureConfig) (*Fixture, error) {
	f := &Fixture{verbose: cfg.Verbose, log: cfg.Logger}
	if f.log == nil {
		f.log = slog.Default()
	}

	switch {
	case cfg.FS != nil:
		f.fsys = cfg.FS
		f.label = cfg.Dir
		if f.label == "" {
			f.label = "<fs>"
		}
	case cfg.Dir != "":
		info, err := os.Stat(cfg.Dir)
		if err != nil {
			return nil, &apierr.ValidationError{Field: "fixture dir", Reason: err.Error()}
		}
		if !info.IsDir() {
			return nil, &apierr.ValidationError{Field: "fixture dir", Reason: cfg.Dir + " is not a directory"}
		}
		f.fsys = os.DirFS(cfg.Dir)
		f.label = cfg.Dir
	default:
		return nil, &apierr.ValidationError{Field: "fixture dir", Reason: "a directory or filesystem is required"}
	}

	return f, nil
}

// Resolve returns the path of the reply file that answers params.
func (f *Fixture) Resolve(params url.Values) (string, error) {
	names := FixtureNames(params)
	if names == nil {
		return "", &apierr.ValidationError{Field: "method", Reason: "no method specified"}
	}

	for _, name := range names {
		info, err := fs.Stat(f.fsys, name)
		if err == nil && !info.IsDir() {
			return name, nil
		}
	}

	return "", &apierr.NotFoundError{
		Method: params.Get("method"),
		Path:   f.label + "/" + strings.Join(names, " or "),
	}
}

// Call implements Transport.
func (f *Fixture) Call(ctx context.Context, server *url.URL, params url.Values) (*envelope.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := f.Resolve(params)

	if f.verbose {
		f.log.InfoContext(ctx, "fixture request",
			"url", Endpoint(server, Redact(params)),
			"method", params.Get("method"),
			"file", name,
		)
	}

	if err != nil {
		return nil, err
	}

	body, err := f.read(name)
	if err != nil {
		return nil, err
	}

	return envelope.Parse(body)
}

func (f *Fixture) read(name string) ([]byte, error) {
	file, err := f.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &apierr.NotFoundError{Method: strings.TrimSuffix(name, ".xml"), Path: f.label + "/" + name}
		}
		return nil, fmt.Errorf("transport: fixture: %w", err)
	}
	defer func() { _ = file.Close() }()

	body, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("transport: fixture: read %s: %w", name, err)
	}

	return body, nil
}

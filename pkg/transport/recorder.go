package transport

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/mjiggidy/adderlib/pkg/envelope"
)

var _ Transport = (*Recorder)(nil)

// Recorder forwards calls to a live Fetcher and saves every reply body under
// Dir using the same file names Fixture looks up, so a recorded directory can
// be replayed offline.
type Recorder struct {
	Next Fetcher
	Dir  string
}

// Call implements Transport. Bodies are saved before parsing so malformed
// replies are kept for inspection.
func (r *Recorder) Call(ctx context.Context, server *url.URL, params url.Values) (*envelope.Envelope, error) {
	body, err := r.Next.Fetch(ctx, server, params)
	if err != nil {
		return nil, err
	}

	if err := r.save(params, body); err != nil {
		return nil, err
	}

	return envelope.Parse(body)
}

func (r *Recorder) save(params url.Values, body []byte) error {
	names := FixtureNames(params)
	if names == nil {
		return nil
	}

	if err := os.MkdirAll(r.Dir, 0o750); err != nil {
		return fmt.Errorf("transport: recorder: %w", err)
	}

	path := filepath.Join(r.Dir, names[0])
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return fmt.Errorf("transport: recorder: %w", err)
	}

	return nil
}

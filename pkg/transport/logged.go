package transport

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/mjiggidy/adderlib/pkg/apierr"
	"github.com/mjiggidy/adderlib/pkg/envelope"
)

// Logged wraps next so that every call logs its method, duration, request
// id, and error.
func Logged(log *slog.Logger, next Transport) Transport {
	return Func(func(ctx context.Context, server *url.URL, params url.Values) (*envelope.Envelope, error) {
		id := uuid.NewString()
		method := params.Get("method")

		log.DebugContext(ctx, "api call started", "request_id", id, "method", method)

		start := time.Now()

		env, err := next.Call(ctx, server, params)

		duration := time.Since(start)

		if err != nil {
			log.ErrorContext(ctx, "api call failed",
				"request_id", id,
				"method", method,
				"duration", duration,
				"kind", apierr.KindOf(err).String(),
				"error", err,
			)
		} else {
			log.DebugContext(ctx, "api call finished",
				"request_id", id,
				"method", method,
				"duration", duration,
				"success", env != nil && env.Success(),
			)
		}

		return env, err
	})
}

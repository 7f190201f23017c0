package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
)

// Handler executes a tool with the given JSON input and returns a text result.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool represents an executable tool with a name, description, JSON Schema, and handler.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// JSON adapts fn into a Handler that decodes the input into In and encodes
// the returned value as indented JSON. Empty input decodes as {}.
func JSON[In any](fn func(ctx context.Context, in In) (any, error)) Handler {
	return func(ctx context.Context, input json.RawMessage) (string, error) {
		var in In
		if len(input) > 0 && string(input) != "null" {
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
		}

		out, err := fn(ctx, in)
		if err != nil {
			return "", err
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode result: %w", err)
		}

		return string(data), nil
	}
}

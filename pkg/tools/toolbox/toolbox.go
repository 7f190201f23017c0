package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Result is the outcome of a tool call. IsError is set when the tool was not
// found or its handler failed; Content then holds the error text.
type Result struct {
	Content string
	IsError bool
}

// ToolBox orchestrates a collection of tools. It allows registering, retrieving,
// listing, and calling tools.
type ToolBox struct {
	tools map[string]Tool
}

// New creates a new ToolBox ready for use.
func New() *ToolBox {
	return &ToolBox{
		tools: make(map[string]Tool),
	}
}

// Register adds one or more tools to the ToolBox. If a tool with the same name
// already exists, it is replaced.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		tb.tools[t.Name] = t
	}
}

// Get returns a tool by name and a boolean indicating whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Filter returns a ToolBox holding only the named tools. Unknown names are
// skipped. An empty names list returns tb itself.
func (tb *ToolBox) Filter(names []string) *ToolBox {
	if len(names) == 0 {
		return tb
	}

	out := New()
	for _, n := range names {
		if t, ok := tb.tools[n]; ok {
			out.tools[n] = t
		}
	}

	return out
}

// Tools returns all registered tools sorted by name.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}
	slices.SortFunc(result, func(a, b Tool) int { return strings.Compare(a.Name, b.Name) })

	return result
}

// Call executes the named tool with input. If the tool is not found or the
// handler returns an error, the result has IsError set.
func (tb *ToolBox) Call(ctx context.Context, name string, input json.RawMessage) Result {
	t, ok := tb.tools[name]
	if !ok {
		return Result{
			Content: fmt.Sprintf("tool not found: %s", name),
			IsError: true,
		}
	}

	result, err := t.Handler(ctx, input)
	if err != nil {
		return Result{
			Content: err.Error(),
			IsError: true,
		}
	}

	return Result{Content: result}
}

package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/fixtures"
	"github.com/mjiggidy/adderlib/pkg/tools/kvm"
	"github.com/mjiggidy/adderlib/pkg/tools/toolbox"
	"github.com/mjiggidy/adderlib/pkg/transport"
)

func kvmTools(t *testing.T) *toolbox.ToolBox {
	t.Helper()

	fx, err := transport.NewFixture(transport.FixtureConfig{FS: fixtures.FS()})
	require.NoError(t, err)

	api, err := adder.New("aim.local", adder.WithTransport(fx))
	require.NoError(t, err)
	require.NoError(t, api.Login(context.Background(), "admin", "secret"))

	return kvm.Tools(api)
}

// connect runs s against an in-memory client for the duration of the test.
func connect(t *testing.T, s *MCPServer) *mcp.ClientSession {
	t.Helper()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- s.run(ctx, serverTransport)
	}()
	t.Cleanup(func() {
		cancel()
		<-serverDone
	})

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	return tc.Text
}

func TestListTools(t *testing.T) {
	s := New("adder", "test", nil)
	s.RegisterToolBox(kvmTools(t).Filter(kvm.ReadOnly))
	session := connect(t, s)

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Tools, len(kvm.ReadOnly))

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, kvm.ReadOnly, names)
}

func TestInstructions(t *testing.T) {
	session := connect(t, New("adder", "test", nil))

	init := session.InitializeResult()
	require.NotNil(t, init)
	assert.Equal(t, Instructions, init.Instructions)
	assert.Equal(t, "adder", init.ServerInfo.Name)
}

func TestCallTool(t *testing.T) {
	var logs bytes.Buffer
	s := New("adder", "test", slog.New(slog.NewTextHandler(&logs, nil)))
	s.RegisterToolBox(kvmTools(t))
	session := connect(t, s)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "list_channels",
		Arguments: map[string]any{"ids": []string{"6"}},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var chs []kvm.ChannelView
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &chs))
	require.Len(t, chs, 1)
	assert.Equal(t, "Edit 2", chs[0].Name)

	assert.Contains(t, logs.String(), "tool=list_channels")
	assert.Contains(t, logs.String(), "error=false")
}

func TestCallTool_HandlerError(t *testing.T) {
	s := New("adder", "test", nil)
	s.RegisterToolBox(kvmTools(t))
	session := connect(t, s)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "connect_channel",
		Arguments: map[string]any{"channel_id": "404", "receiver_id": "10"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), `no channel with id "404"`)
}

func TestCallTool_NotFound(t *testing.T) {
	session := connect(t, New("adder", "test", nil))

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "missing",
		Arguments: map[string]any{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestContextCancellation(t *testing.T) {
	s := New("adder", "test", nil)
	serverTransport, _ := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.run(ctx, serverTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

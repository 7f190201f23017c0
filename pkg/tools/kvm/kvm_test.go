package kvm_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/envelope"
	"github.com/mjiggidy/adderlib/pkg/fixtures"
	"github.com/mjiggidy/adderlib/pkg/tools/kvm"
	"github.com/mjiggidy/adderlib/pkg/tools/toolbox"
	"github.com/mjiggidy/adderlib/pkg/transport"
)

type recorded struct {
	next  transport.Transport
	calls []url.Values
}

func (r *recorded) Call(ctx context.Context, server *url.URL, params url.Values) (*envelope.Envelope, error) {
	r.calls = append(r.calls, params)
	return r.next.Call(ctx, server, params)
}

func setup(t *testing.T) (*toolbox.ToolBox, *recorded) {
	t.Helper()

	fx, err := transport.NewFixture(transport.FixtureConfig{FS: fixtures.FS()})
	require.NoError(t, err)

	rec := &recorded{next: fx}
	api, err := adder.New("aim.local", adder.WithTransport(rec))
	require.NoError(t, err)
	require.NoError(t, api.Login(context.Background(), "admin", "secret"))

	return kvm.Tools(api), rec
}

func call(t *testing.T, tb *toolbox.ToolBox, name, input string) toolbox.Result {
	t.Helper()

	return tb.Call(context.Background(), name, json.RawMessage(input))
}

func TestTools_Registered(t *testing.T) {
	tb, _ := setup(t)

	assert.Len(t, tb.Tools(), 10)
	for _, name := range kvm.ReadOnly {
		_, ok := tb.Get(name)
		assert.True(t, ok, name)
	}

	for _, tool := range tb.Tools() {
		assert.True(t, json.Valid(tool.InputSchema), tool.Name)
	}
}

func TestListChannels(t *testing.T) {
	tb, rec := setup(t)

	res := call(t, tb, "list_channels", `{"name":"Studio"}`)
	require.False(t, res.IsError, res.Content)

	var got []kvm.ChannelView
	require.NoError(t, json.Unmarshal([]byte(res.Content), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Studio A", got[0].Name)
	assert.Equal(t, []string{"v", "s"}, got[0].Modes)
	assert.Equal(t, "Studio", rec.calls[len(rec.calls)-1].Get("filter_c_name"))
}

func TestListReceivers(t *testing.T) {
	tb, _ := setup(t)

	res := call(t, tb, "list_receivers", `{}`)
	require.False(t, res.IsError, res.Content)

	var got []kvm.DeviceView
	require.NoError(t, json.Unmarshal([]byte(res.Content), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Edit 1", got[0].Channel)
	assert.Equal(t, "Shared", got[0].Control)
	assert.Equal(t, "ALIF2020", got[0].Model)
	assert.Empty(t, got[1].Channel, "closed connection")
}

func TestListServersAndPresets(t *testing.T) {
	tb, _ := setup(t)

	res := call(t, tb, "list_servers", ``)
	require.False(t, res.IsError, res.Content)

	var servers []kvm.ServerView
	require.NoError(t, json.Unmarshal([]byte(res.Content), &servers))
	require.Len(t, servers, 1)
	assert.Equal(t, "Primary", servers[0].Role)

	res = call(t, tb, "list_presets", `{"ids":["3"]}`)
	require.False(t, res.IsError, res.Content)

	var presets []kvm.PresetView
	require.NoError(t, json.Unmarshal([]byte(res.Content), &presets))
	require.Len(t, presets, 1)
	assert.Equal(t, "Full", presets[0].Active)
	assert.Equal(t, []string{"v", "s", "e", "p"}, presets[0].Modes)
}

func TestConnectChannel(t *testing.T) {
	tb, rec := setup(t)

	res := call(t, tb, "connect_channel", `{"channel_id":"5","receiver_id":"10","mode":"exclusive"}`)
	require.False(t, res.IsError, res.Content)
	assert.Contains(t, res.Content, "connected Suite A RX to Studio A")

	last := rec.calls[len(rec.calls)-1]
	assert.Equal(t, "connect_channel", last.Get("method"))
	assert.Equal(t, "e", last.Get("mode"))
}

func TestConnectChannel_UnknownIDs(t *testing.T) {
	tb, _ := setup(t)

	res := call(t, tb, "connect_channel", `{"channel_id":"404","receiver_id":"10"}`)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, `no channel with id "404"`)

	res = call(t, tb, "connect_channel", `{"channel_id":"5","receiver_id":"10","mode":"sideways"}`)
	assert.True(t, res.IsError)
}

func TestDisconnectChannel(t *testing.T) {
	tb, rec := setup(t)

	res := call(t, tb, "disconnect_channel", `{"receiver_ids":["11","10"],"force":true}`)
	require.False(t, res.IsError, res.Content)

	last := rec.calls[len(rec.calls)-1]
	assert.Equal(t, "11,10", last.Get("rx_id"))
	assert.Equal(t, "1", last.Get("force"))

	res = call(t, tb, "disconnect_channel", `{"receiver_ids":[]}`)
	assert.True(t, res.IsError)
}

func TestPresetTools(t *testing.T) {
	tb, rec := setup(t)

	res := call(t, tb, "load_preset", `{"preset_id":"4"}`)
	require.False(t, res.IsError, res.Content)
	assert.Equal(t, "s", rec.calls[len(rec.calls)-1].Get("mode"))

	res = call(t, tb, "unload_preset", `{"preset_id":"4","force":true}`)
	require.False(t, res.IsError, res.Content)
	assert.Equal(t, "disconnect_preset", rec.calls[len(rec.calls)-1].Get("method"))
}

func TestIdentifyDevice(t *testing.T) {
	tb, rec := setup(t)

	res := call(t, tb, "identify_device", `{"device_id":"2"}`)
	require.False(t, res.IsError, res.Content)
	assert.Contains(t, res.Content, "Edit 2 TX")
	assert.Equal(t, "2", rec.calls[len(rec.calls)-1].Get("id"))

	res = call(t, tb, "identify_device", `{"device_id":"999"}`)
	assert.True(t, res.IsError)
}

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjiggidy/adderlib/pkg/adder"
	"github.com/mjiggidy/adderlib/pkg/channel"
	"github.com/mjiggidy/adderlib/pkg/tools/kvm"
)

func TestCallTool(t *testing.T) {
	s := fixtureSession(t)
	tb := kvm.Tools(s.api)

	var out bytes.Buffer
	require.NoError(t, callTool(context.Background(), &out, tb, "connect_channel", map[string]string{
		"channel_id": "5", "receiver_id": "10", "mode": "v",
	}))
	assert.Contains(t, out.String(), "connected Suite A RX to Studio A")

	err := callTool(context.Background(), &out, tb, "identify_device", map[string]string{"device_id": "404"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no device with id "404"`)

	err = callTool(context.Background(), &out, tb, "no_such_tool", nil)
	assert.EqualError(t, err, "tool not found: no_such_tool")
}

func TestParseModes(t *testing.T) {
	modes, err := parseModes("vs")
	require.NoError(t, err)
	assert.Equal(t, []channel.ConnectionMode{channel.ModeVideoOnly, channel.ModeShared}, modes)

	modes, err = parseModes("")
	require.NoError(t, err)
	assert.Empty(t, modes)

	_, err = parseModes("vx")
	assert.Error(t, err)
}

func TestParsePairs(t *testing.T) {
	s := fixtureSession(t)
	ctx := context.Background()

	chSeq, err := s.api.GetChannels(ctx, adder.ChannelFilter{})
	require.NoError(t, err)
	rxSeq, err := s.api.GetReceivers(ctx)
	require.NoError(t, err)
	chs, rxs := adder.Collect(chSeq), adder.Collect(rxSeq)

	pairs, err := parsePairs([]string{"5:10", "6:11"}, chs, rxs)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "5-10", pairs[0].String())
	assert.Equal(t, "6-11", pairs[1].String())

	for _, bad := range [][]string{
		{"5-10"},
		{"5:"},
		{"5:10", "6:10"},
		{"404:10"},
		{"5:404"},
	} {
		_, err := parsePairs(bad, chs, rxs)
		assert.Error(t, err, bad)
	}
}

func TestModeOptions(t *testing.T) {
	s := fixtureSession(t)

	seq, err := s.api.GetChannels(context.Background(), adder.ChannelFilter{IDs: []string{"5"}})
	require.NoError(t, err)
	ch, ok := adder.First(seq)
	require.True(t, ok)

	opts := modeOptions(ch)
	require.Len(t, opts, 2)
	assert.Equal(t, channel.ModeShared, opts[0].Value)
	assert.Equal(t, channel.ModeVideoOnly, opts[1].Value)

	assert.Len(t, modeOptions(nil), 4)
	assert.Len(t, modeOptions(channel.New(map[string]string{"c_id": "9"})), 4, "no gates reported")
}

func TestModeName(t *testing.T) {
	assert.Equal(t, "view only", modeName(channel.ModeVideoOnly))
	assert.Equal(t, "private", modeName(channel.ModePrivate))
}

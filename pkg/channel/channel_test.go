package channel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mjiggidy/adderlib/pkg/channel"
)

func TestChannel_Fields(t *testing.T) {
	ch := channel.New(map[string]string{
		"c_id":           "5",
		"c_name":         "Studio A",
		"c_description":  "Grading",
		"c_location":     "Level 1",
		"c_channel_type": "video",
		"c_tx_id":        "12",
		"channel_online": "1",
		"c_favourite":    "3",
		"view_button":    "enabled",
		"shared_button":  "DISABLED",
		"control_button": "hidden",
	})

	assert.Equal(t, "5", ch.ID())
	assert.Equal(t, "Studio A", ch.Name())
	assert.Equal(t, "Grading", ch.Description())
	assert.Equal(t, "Level 1", ch.Location())
	assert.Equal(t, "video", ch.Type())
	assert.Equal(t, "12", ch.TransmitterID())
	assert.True(t, ch.Online())
	assert.True(t, ch.Favorite())
	assert.Equal(t, "3", ch.Shortcut())

	assert.Equal(t, channel.ButtonEnabled, ch.View())
	assert.True(t, ch.ViewAvailable())
	assert.Equal(t, channel.ButtonDisabled, ch.Shared())
	assert.False(t, ch.SharedAvailable())
	assert.Equal(t, channel.ButtonHidden, ch.Control())
	assert.Equal(t, channel.ButtonUnknown, ch.Exclusive())
	assert.False(t, ch.ExclusiveAvailable())
}

func TestChannel_Unset(t *testing.T) {
	ch := channel.New(nil)

	assert.Empty(t, ch.ID())
	assert.False(t, ch.Online())
	assert.False(t, ch.Favorite())
	assert.Empty(t, ch.Shortcut())
	assert.Equal(t, channel.ButtonUnknown, ch.View())
	assert.False(t, ch.ViewAvailable())
	assert.Empty(t, ch.Extras())
}

func TestChannel_NotFavourite(t *testing.T) {
	ch := channel.New(map[string]string{"c_favourite": "false", "channel_online": "0"})

	assert.False(t, ch.Favorite())
	assert.Empty(t, ch.Shortcut())
	assert.False(t, ch.Online())
}

func TestChannel_Extras(t *testing.T) {
	ch := channel.New(map[string]string{
		"c_id":          "5",
		"c_video1":      "12",
		"c_video1_head": "1",
		"c_rdp_id":      "",
	})

	assert.Equal(t, map[string]string{
		"c_video1":      "12",
		"c_video1_head": "1",
		"c_rdp_id":      "",
	}, ch.Extras())
}

func TestGates_Allows(t *testing.T) {
	ch := channel.New(map[string]string{
		"view_button":      "enabled",
		"exclusive_button": "enabled",
	})

	assert.True(t, ch.Allows(channel.ModeVideoOnly))
	assert.False(t, ch.Allows(channel.ModeShared))
	assert.True(t, ch.Allows(channel.ModeExclusive))
	assert.True(t, ch.Allows(channel.ModePrivate))
	assert.False(t, ch.Allows(channel.ConnectionMode('x')))
}

func TestParseConnectionMode(t *testing.T) {
	tests := map[string]channel.ConnectionMode{
		"v":         channel.ModeVideoOnly,
		"video":     channel.ModeVideoOnly,
		"S":         channel.ModeShared,
		"exclusive": channel.ModeExclusive,
		"p":         channel.ModePrivate,
	}
	for in, want := range tests {
		got, ok := channel.ParseConnectionMode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := channel.ParseConnectionMode("z")
	assert.False(t, ok)

	assert.Equal(t, "s", channel.ModeShared.String())
	assert.True(t, channel.ModePrivate.Valid())
	assert.False(t, channel.ConnectionMode('q').Valid())
}

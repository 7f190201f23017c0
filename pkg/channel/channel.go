// Package channel provides a read-only view over AdderLink channel records.
package channel

import (
	"strings"

	"github.com/mjiggidy/adderlib/pkg/attrs"
)

// ButtonState is the state of one of the connection-mode gates a channel or
// preset exposes to the current user.
type ButtonState int

const (
	ButtonUnknown ButtonState = iota
	ButtonDisabled
	ButtonEnabled
	ButtonHidden
)

// String returns the wire spelling of the state.
func (b ButtonState) String() string {
	switch b {
	case ButtonDisabled:
		return "disabled"
	case ButtonEnabled:
		return "enabled"
	case ButtonHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// ParseButtonState maps a raw gate value onto a ButtonState. Unrecognised or
// absent values map to ButtonUnknown.
func ParseButtonState(s string) ButtonState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disabled":
		return ButtonDisabled
	case "enabled":
		return ButtonEnabled
	case "hidden":
		return ButtonHidden
	default:
		return ButtonUnknown
	}
}

// ConnectionMode selects how a receiver attaches to a channel or preset.
type ConnectionMode byte

const (
	ModeVideoOnly ConnectionMode = 'v'
	ModeShared    ConnectionMode = 's'
	ModeExclusive ConnectionMode = 'e'
	ModePrivate   ConnectionMode = 'p'
)

// Valid reports whether m is one of the known modes.
func (m ConnectionMode) Valid() bool {
	switch m {
	case ModeVideoOnly, ModeShared, ModeExclusive, ModePrivate:
		return true
	default:
		return false
	}
}

// String returns the single-letter request parameter.
func (m ConnectionMode) String() string { return string(rune(m)) }

// ParseConnectionMode accepts either the letter or the long name of a mode.
func ParseConnectionMode(s string) (ConnectionMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v", "video", "video-only", "videoonly":
		return ModeVideoOnly, true
	case "s", "shared":
		return ModeShared, true
	case "e", "exclusive":
		return ModeExclusive, true
	case "p", "private":
		return ModePrivate, true
	default:
		return 0, false
	}
}

// Gates are the four mode buttons shared by channels and presets.
type Gates struct {
	a attrs.Attributes
}

// NewGates reads the four *_button keys of a record.
func NewGates(a attrs.Attributes) Gates { return Gates{a: a} }

func (g Gates) View() ButtonState      { return ParseButtonState(g.a.String("view_button")) }
func (g Gates) Shared() ButtonState    { return ParseButtonState(g.a.String("shared_button")) }
func (g Gates) Control() ButtonState   { return ParseButtonState(g.a.String("control_button")) }
func (g Gates) Exclusive() ButtonState { return ParseButtonState(g.a.String("exclusive_button")) }

func (g Gates) ViewAvailable() bool      { return g.View() == ButtonEnabled }
func (g Gates) SharedAvailable() bool    { return g.Shared() == ButtonEnabled }
func (g Gates) ControlAvailable() bool   { return g.Control() == ButtonEnabled }
func (g Gates) ExclusiveAvailable() bool { return g.Exclusive() == ButtonEnabled }

// Allows reports whether the gate behind mode is enabled. Private
// connections ride on the exclusive gate.
func (g Gates) Allows(mode ConnectionMode) bool {
	switch mode {
	case ModeVideoOnly:
		return g.ViewAvailable()
	case ModeShared:
		return g.SharedAvailable()
	case ModeExclusive, ModePrivate:
		return g.ExclusiveAvailable()
	default:
		return false
	}
}

var extraKeys = []string{
	"c_video1", "c_video1_head", "c_video2", "c_video2_head",
	"c_audio", "c_audio1", "c_audio2", "c_usb", "c_usb1",
	"c_serial", "c_sensitive", "c_rdp_id",
}

// Channel is a named route from one or more transmitters.
type Channel struct {
	Gates
	a attrs.Attributes
}

// New builds a channel from a channel record.
func New(m map[string]string) *Channel {
	a := attrs.New(m)
	return &Channel{Gates: NewGates(a), a: a}
}

// Attributes returns the raw record.
func (c *Channel) Attributes() attrs.Attributes { return c.a }

func (c *Channel) ID() string          { return c.a.String("c_id") }
func (c *Channel) Name() string        { return c.a.String("c_name") }
func (c *Channel) Description() string { return c.a.String("c_description") }
func (c *Channel) Location() string    { return c.a.String("c_location") }

// Type returns the c_channel_type value verbatim.
func (c *Channel) Type() string { return c.a.String("c_channel_type") }

// TransmitterID returns the id of the primary transmitter.
func (c *Channel) TransmitterID() string { return c.a.String("c_tx_id") }

// Online reports whether the channel's transmitters are reachable.
func (c *Channel) Online() bool { return c.a.String("channel_online") == "1" }

// Favorite reports whether the user has the channel as a favourite. An absent
// or empty value means it is not.
func (c *Channel) Favorite() bool {
	v := strings.TrimSpace(c.a.String("c_favourite"))
	return v != "" && v != "false"
}

// Shortcut returns the favourite slot, or "" when not a favourite.
func (c *Channel) Shortcut() string {
	if !c.Favorite() {
		return ""
	}

	return strings.TrimSpace(c.a.String("c_favourite"))
}

// Extras returns the undocumented per-channel fields later firmware reports
// (video heads, audio and USB sources, RDP id). Absent keys are omitted.
func (c *Channel) Extras() map[string]string {
	out := make(map[string]string)
	for _, k := range extraKeys {
		if v, ok := c.a.Lookup(k); ok {
			out[k] = v
		}
	}

	return out
}

package kvm

import (
	"github.com/mjiggidy/adderlib/pkg/channel"
	"github.com/mjiggidy/adderlib/pkg/device"
)

// DeviceView is the JSON form of a transmitter or receiver.
type DeviceView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Model       string `json:"model"`
	Status      string `json:"status"`
	IPAddress   string `json:"ip_address,omitempty"`
	Firmware    string `json:"firmware,omitempty"`

	// Receivers only, while connected.
	Channel string `json:"channel,omitempty"`
	User    string `json:"user,omitempty"`
	Control string `json:"control,omitempty"`
}

func newDeviceView(b device.Base, t device.Type) DeviceView {
	return DeviceView{
		ID:          b.ID(),
		Type:        t.String(),
		Name:        b.Name(),
		Description: b.Description(),
		Location:    b.Location(),
		Model:       b.Model().String(),
		Status:      b.Status().String(),
		IPAddress:   b.IPAddress(),
		Firmware:    b.Firmware(),
	}
}

// ServerView is the JSON form of an AIM server.
type ServerView struct {
	DeviceView
	Role         string `json:"role"`
	ServerStatus string `json:"server_status"`
	DualEthernet bool   `json:"dual_ethernet"`
}

// ChannelView is the JSON form of a channel.
type ChannelView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Online      bool     `json:"online"`
	Modes       []string `json:"modes"`
}

// PresetView is the JSON form of a preset.
type PresetView struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Pairs              int      `json:"pairs"`
	ProblemPairs       int      `json:"problem_pairs"`
	Active             string   `json:"active"`
	ConnectedReceivers int      `json:"connected_receivers"`
	Modes              []string `json:"modes"`
}

// Status is returned by tools that change state.
type Status struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func done(msg string) Status {
	return Status{OK: true, Message: msg}
}

// allowedModes lists the connection mode letters whose gate is enabled.
func allowedModes(g channel.Gates) []string {
	modes := []string{}
	for _, m := range []channel.ConnectionMode{
		channel.ModeVideoOnly,
		channel.ModeShared,
		channel.ModeExclusive,
		channel.ModePrivate,
	} {
		if g.Allows(m) {
			modes = append(modes, m.String())
		}
	}

	return modes
}

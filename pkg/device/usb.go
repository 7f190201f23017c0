package device

import (
	"strings"

	"github.com/mjiggidy/adderlib/pkg/attrs"
)

var _ Device = (*USBExtender)(nil)

// USBType says which end of a C-USB LAN extender pair a unit is.
type USBType int

const (
	USBUnknown USBType = iota
	USBReceiver
	USBTransmitter
)

// String returns "rx", "tx", or "unknown".
func (u USBType) String() string {
	switch u {
	case USBReceiver:
		return "rx"
	case USBTransmitter:
		return "tx"
	default:
		return "unknown"
	}
}

// USBExtender is a C-USB LAN extender unit. Extenders are addressed by MAC.
type USBExtender struct {
	a attrs.Attributes
}

// NewUSBExtender builds an extender from a c_usb_lan_extender record.
func NewUSBExtender(m map[string]string) *USBExtender {
	return &USBExtender{a: attrs.New(m)}
}

// Attributes implements Device.
func (u *USBExtender) Attributes() attrs.Attributes { return u.a }

// Type implements Device.
func (u *USBExtender) Type() Type { return TypeUSBExtender }

// ID returns the extender id.
func (u *USBExtender) ID() string { return u.a.String("cusb_id") }

// Name returns the extender name.
func (u *USBExtender) Name() string { return u.a.String("cusb_name") }

// USBType returns which end of a pair this unit is.
func (u *USBExtender) USBType() USBType {
	switch strings.ToLower(strings.TrimSpace(u.a.String("cusb_type"))) {
	case "rx":
		return USBReceiver
	case "tx":
		return USBTransmitter
	default:
		return USBUnknown
	}
}

// IPAddress returns the unit's address.
func (u *USBExtender) IPAddress() string { return u.a.String("cusb_ip") }

// MACAddress returns the unit's hardware address.
func (u *USBExtender) MACAddress() string { return u.a.String("cusb_mac") }

// Online reports whether the unit is reachable.
func (u *USBExtender) Online() bool { return u.a.Flag("cusb_online") }

// ConnectedMAC returns the MAC of the transmitter a receiver unit is paired
// with. Transmitter units always return "".
func (u *USBExtender) ConnectedMAC() string {
	if u.USBType() != USBReceiver {
		return ""
	}

	return u.a.String("cusb_connected_mac")
}

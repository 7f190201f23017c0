// Package device provides typed, read-only views over AdderLink device records:
// transmitters, receivers, AIM servers, and C-USB LAN extenders.
package device

import (
	"time"

	"github.com/mjiggidy/adderlib/pkg/attrs"
)

// Type discriminates the kinds of device the API reports.
type Type int

const (
	TypeUnknown Type = iota
	TypeReceiver
	TypeTransmitter
	TypeServer
	TypeUSBExtender
)

// String returns the short name of the type.
func (t Type) String() string {
	switch t {
	case TypeReceiver:
		return "rx"
	case TypeTransmitter:
		return "tx"
	case TypeServer:
		return "server"
	case TypeUSBExtender:
		return "c-usb"
	default:
		return "unknown"
	}
}

// Status is the operational state of a device.
type Status int

const (
	StatusUnknown        Status = -1
	StatusOffline        Status = 0
	StatusOnline         Status = 1
	StatusRebooting      Status = 2
	StatusUpgrading      Status = 4
	StatusBackupFirmware Status = 6
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case StatusOffline:
		return "Offline"
	case StatusOnline:
		return "Online"
	case StatusRebooting:
		return "Rebooting"
	case StatusUpgrading:
		return "Upgrading"
	case StatusBackupFirmware:
		return "BackupFirmware"
	default:
		return "Unknown"
	}
}

func parseStatus(a attrs.Attributes) Status {
	switch s := Status(a.Int("d_status", int(StatusUnknown))); s {
	case StatusOffline, StatusOnline, StatusRebooting, StatusUpgrading, StatusBackupFirmware:
		return s
	default:
		return StatusUnknown
	}
}

// Model is the AdderLink hardware model.
type Model int

const (
	ModelUnknown Model = iota
	ModelALIF1000
	ModelALIF2002
	ModelALIF2112
	ModelALIF1002
	ModelALIF2020
)

// String returns the marketing name of the model.
func (m Model) String() string {
	switch m {
	case ModelALIF1000:
		return "ALIF1000"
	case ModelALIF2002:
		return "ALIF2002"
	case ModelALIF2112:
		return "ALIF2112"
	case ModelALIF1002:
		return "ALIF1002"
	case ModelALIF2020:
		return "ALIF2020"
	default:
		return "Unknown"
	}
}

// DecodeModel derives the hardware model from a device record. Version 1
// hardware is always an ALIF1000; later generations are told apart by their
// variant letter. Unrecognised combinations decode to ModelUnknown.
func DecodeModel(a attrs.Attributes) Model {
	if a.String("d_version") == "1" {
		return ModelALIF1000
	}

	switch a.String("d_variant") {
	case "b", "v":
		return ModelALIF2002
	case "s":
		return ModelALIF1002
	case "t":
		return ModelALIF2020
	default:
		return ModelUnknown
	}
}

// NetworkInterface is one ethernet port of a device.
type NetworkInterface struct {
	IPAddress  string
	MACAddress string
	Online     bool
}

// Device is implemented by every device view.
type Device interface {
	ID() string
	Name() string
	Type() Type
	Attributes() attrs.Attributes
}

// Base holds the fields shared by transmitters, receivers, and servers.
// It is embedded by those types and is not constructed directly.
type Base struct {
	a attrs.Attributes
}

func newBase(m map[string]string) Base {
	return Base{a: attrs.New(m)}
}

// Attributes returns the raw record.
func (b Base) Attributes() attrs.Attributes { return b.a }

// ID returns the device id, or "" for an unset record.
func (b Base) ID() string { return b.a.String("d_id") }

// Name returns the device name.
func (b Base) Name() string { return b.a.String("d_name") }

// Description returns the device description.
func (b Base) Description() string { return b.a.String("d_description") }

// Location returns the device location.
func (b Base) Location() string { return b.a.String("d_location") }

// SerialNumber returns the device serial number.
func (b Base) SerialNumber() string { return b.a.String("d_serial_number") }

// DateAdded returns when the device was set up.
func (b Base) DateAdded() (time.Time, bool) { return b.a.Time("d_date_added") }

// Firmware returns the running firmware version.
func (b Base) Firmware() string { return b.a.String("d_firmware") }

// BackupFirmware returns the backup firmware version.
func (b Base) BackupFirmware() string { return b.a.String("d_backup_firmware") }

// IPAddress returns the address of the primary interface.
func (b Base) IPAddress() string { return b.a.String("d_ip_address") }

// MACAddress returns the hardware address of the primary interface.
func (b Base) MACAddress() string { return b.a.String("d_mac_address") }

// Interfaces returns both network interfaces. The second is zero-valued on
// single-port hardware.
func (b Base) Interfaces() [2]NetworkInterface {
	return [2]NetworkInterface{
		{
			IPAddress:  b.a.String("d_ip_address"),
			MACAddress: b.a.String("d_mac_address"),
			Online:     b.a.Flag("d_online"),
		},
		{
			IPAddress:  b.a.String("d_ip_address2"),
			MACAddress: b.a.String("d_mac_address2"),
			Online:     b.a.Flag("d_online2"),
		},
	}
}

// Status returns the operational status.
func (b Base) Status() Status { return parseStatus(b.a) }

// Configured reports whether the device has been set up.
func (b Base) Configured() bool { return b.a.Flag("d_configured") }

// FirmwareValid reports whether the running firmware is intact.
func (b Base) FirmwareValid() bool { return b.a.Flag("d_valid_firmware") }

// BackupFirmwareValid reports whether the backup firmware is intact.
func (b Base) BackupFirmwareValid() bool { return b.a.Flag("d_valid_backup_firmware") }

// Model returns the decoded hardware model.
func (b Base) Model() Model { return DecodeModel(b.a) }
